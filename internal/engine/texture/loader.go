package texture

import (
	"os"
	"sync"
)

// ReadFunc fetches raw bytes for a resource path.
type ReadFunc func(path string) ([]byte, error)

// Request asks the loader to resolve Path and report it under Key.
type Request struct {
	Key  string
	Path string
}

// Result is a finished request. Exactly one of Texture and Err is set.
type Result struct {
	Key     string
	Path    string
	Texture *Image
	Err     error
}

// Loader reads and decodes textures on background goroutines. Results are
// collected until the render thread drains them with Poll, so nothing is
// bound mid-frame.
type Loader struct {
	read ReadFunc

	mu      sync.Mutex
	done    []Result
	pending int
	wg      sync.WaitGroup
}

// NewLoader creates a loader. A nil read function reads from the local disk.
func NewLoader(read ReadFunc) *Loader {
	if read == nil {
		read = os.ReadFile
	}
	return &Loader{read: read}
}

// Load starts resolving every request. It returns immediately.
func (l *Loader) Load(reqs ...Request) {
	l.mu.Lock()
	l.pending += len(reqs)
	l.mu.Unlock()

	for _, req := range reqs {
		l.wg.Add(1)
		go func(req Request) {
			defer l.wg.Done()
			res := Result{Key: req.Key, Path: req.Path}
			data, err := l.read(req.Path)
			if err == nil {
				res.Texture, err = Decode(req.Path, data)
			}
			res.Err = err

			l.mu.Lock()
			l.done = append(l.done, res)
			l.pending--
			l.mu.Unlock()
		}(req)
	}
}

// Poll returns the results finished since the previous call. It never blocks.
func (l *Loader) Poll() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.done
	l.done = nil
	return out
}

// Pending returns the number of requests still being resolved.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Wait blocks until all started requests have finished. Only the headless
// snapshot path uses it; the interactive loop keeps rendering instead.
func (l *Loader) Wait() {
	l.wg.Wait()
}
