// Package framebuffer provides the offscreen render target the globe is drawn
// into before it is scaled onto the window.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Framebuffer is a color texture plus a depth renderbuffer. With more than
// one sample, drawing goes to multisampled renderbuffers that are resolved
// into the color texture before the frame is shown or read back.
type Framebuffer struct {
	fbo          uint32
	colorTexture uint32
	depthRBO     uint32

	samples  int32
	msFBO    uint32
	msColor  uint32
	msDepth  uint32
	resolved bool

	width  int32
	height int32
}

// New creates a framebuffer. Sizes below one pixel are raised to one; samples
// of 0 or 1 disable multisampling.
func New(width, height, samples int32) (*Framebuffer, error) {
	fb := &Framebuffer{width: max(width, 1), height: max(height, 1)}
	if samples > 1 {
		var limit int32
		gl.GetIntegerv(gl.MAX_SAMPLES, &limit)
		fb.samples = min(samples, limit)
	}

	gl.GenFramebuffers(1, &fb.fbo)
	gl.GenTextures(1, &fb.colorTexture)
	if fb.samples > 1 {
		gl.GenFramebuffers(1, &fb.msFBO)
		gl.GenRenderbuffers(1, &fb.msColor)
		gl.GenRenderbuffers(1, &fb.msDepth)
	} else {
		gl.GenRenderbuffers(1, &fb.depthRBO)
	}
	fb.allocate()

	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.colorTexture, 0)
	if fb.samples <= 1 {
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)
	}
	if err := checkComplete("resolve"); err != nil {
		fb.Destroy()
		return nil, err
	}

	if fb.samples > 1 {
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb.msFBO)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, fb.msColor)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.msDepth)
		if err := checkComplete("multisample"); err != nil {
			fb.Destroy()
			return nil, err
		}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return fb, nil
}

func checkComplete(name string) error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%s framebuffer incomplete: 0x%x", name, status)
	}
	return nil
}

func (fb *Framebuffer) allocate() {
	gl.BindTexture(gl.TEXTURE_2D, fb.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, fb.width, fb.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if fb.samples > 1 {
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.msColor)
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, fb.samples, gl.RGBA8, fb.width, fb.height)
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.msDepth)
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, fb.samples, gl.DEPTH_COMPONENT24, fb.width, fb.height)
	} else {
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, fb.width, fb.height)
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

// Samples returns the sample count in use; 0 means single-sampled.
func (fb *Framebuffer) Samples() int32 { return fb.samples }

// Bind makes this framebuffer the render target and sets the viewport.
func (fb *Framebuffer) Bind() {
	if fb.samples > 1 {
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb.msFBO)
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	}
	gl.Viewport(0, 0, fb.width, fb.height)
	fb.resolved = false
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize reallocates the attachments when the size changed.
func (fb *Framebuffer) Resize(width, height int32) {
	width, height = max(width, 1), max(height, 1)
	if width == fb.width && height == fb.height {
		return
	}
	fb.width, fb.height = width, height
	fb.allocate()
}

// resolve averages the multisampled color into the color texture once per
// frame.
func (fb *Framebuffer) resolve() {
	if fb.samples <= 1 || fb.resolved {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.msFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.fbo)
	gl.BlitFramebuffer(0, 0, fb.width, fb.height, 0, 0, fb.width, fb.height, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	fb.resolved = true
}

// BlitToScreen resolves the frame and scales it onto the default framebuffer.
func (fb *Framebuffer) BlitToScreen(screenWidth, screenHeight int32) {
	fb.resolve()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, fb.width, fb.height, 0, 0, screenWidth, screenHeight, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadPixels returns the resolved color as bottom-up RGBA rows.
func (fb *Framebuffer) ReadPixels() []byte {
	fb.resolve()
	pixels := make([]byte, fb.width*fb.height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.fbo)
	gl.ReadPixels(0, 0, fb.width, fb.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return pixels
}

// Destroy releases all GL objects.
func (fb *Framebuffer) Destroy() {
	for _, id := range []*uint32{&fb.fbo, &fb.msFBO} {
		if *id != 0 {
			gl.DeleteFramebuffers(1, id)
			*id = 0
		}
	}
	for _, id := range []*uint32{&fb.depthRBO, &fb.msColor, &fb.msDepth} {
		if *id != 0 {
			gl.DeleteRenderbuffers(1, id)
			*id = 0
		}
	}
	if fb.colorTexture != 0 {
		gl.DeleteTextures(1, &fb.colorTexture)
		fb.colorTexture = 0
	}
}
