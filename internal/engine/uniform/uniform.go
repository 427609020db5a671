// Package uniform implements the typed parameter sets shared between the CPU
// side of the viewer and the shader programs.
package uniform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Keys used by the globe and atmosphere programs.
const (
	DayTexture              = "dayTexture"
	NightTexture            = "nightTexture"
	SpecularCloudsTexture   = "specularCloudsTexture"
	AtmosphereDayColor      = "atmosphereDayColor"
	AtmosphereTwilightColor = "atmosphereTwilightColor"
	SunDirection            = "sunDirection"
)

var (
	ErrMissingKey   = errors.New("uniform not set")
	ErrWrongKind    = errors.New("uniform has wrong kind")
	ErrInvalidColor = errors.New("invalid color")
)

// Kind identifies the type held by a Value.
type Kind int

const (
	KindTexture Kind = iota + 1
	KindColor
	KindScalar
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindColor:
		return "color"
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Texture is anything that can be bound to a sampler uniform. The software
// rasterizer samples it directly; the GL backend uploads it once per
// distinct value.
type Texture interface {
	Name() string
	Sample(u, v float32) mgl32.Vec4
}

// Value is a tagged union of the supported uniform types.
type Value struct {
	Kind    Kind
	Texture Texture
	Color   Color
	Scalar  float32
	Vector  mgl32.Vec3
}

// Requirement names a key a program reads and the kind it expects.
type Requirement struct {
	Key  string
	Kind Kind
}

// Set is the uniform block of one material. Each key has exactly one writer;
// the set itself is not synchronized and lives on the render thread.
type Set struct {
	name    string
	values  map[string]Value
	version uint64
}

// NewSet creates an empty set. name only shows up in errors and logs.
func NewSet(name string) *Set {
	return &Set{name: name, values: make(map[string]Value)}
}

// Name returns the material name given to NewSet.
func (s *Set) Name() string { return s.name }

// Version increases with every successful write.
func (s *Set) Version() uint64 { return s.version }

func (s *Set) put(key string, v Value) {
	s.values[key] = v
	s.version++
}

// SetTexture binds a texture. A nil texture removes the binding.
func (s *Set) SetTexture(key string, tex Texture) {
	if tex == nil {
		delete(s.values, key)
		s.version++
		return
	}
	s.put(key, Value{Kind: KindTexture, Texture: tex})
}

// SetColor stores a color after validating it. Invalid colors leave the
// previous value in place.
func (s *Set) SetColor(key string, c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%s.%s: %w: %+v", s.name, key, ErrInvalidColor, c)
	}
	s.put(key, Value{Kind: KindColor, Color: c})
	return nil
}

// SetScalar stores a float uniform.
func (s *Set) SetScalar(key string, v float32) {
	s.put(key, Value{Kind: KindScalar, Scalar: v})
}

// SetVector stores a vec3 uniform.
func (s *Set) SetVector(key string, v mgl32.Vec3) {
	s.put(key, Value{Kind: KindVector, Vector: v})
}

// Get returns the raw value for key.
func (s *Set) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Texture returns the texture bound to key, or nil.
func (s *Set) Texture(key string) Texture {
	if v, ok := s.values[key]; ok && v.Kind == KindTexture {
		return v.Texture
	}
	return nil
}

// Color returns the color stored at key, or black.
func (s *Set) Color(key string) Color {
	if v, ok := s.values[key]; ok && v.Kind == KindColor {
		return v.Color
	}
	return Color{}
}

// Scalar returns the scalar stored at key, or fallback.
func (s *Set) Scalar(key string, fallback float32) float32 {
	if v, ok := s.values[key]; ok && v.Kind == KindScalar {
		return v.Scalar
	}
	return fallback
}

// Vector returns the vector stored at key, or the zero vector.
func (s *Set) Vector(key string) mgl32.Vec3 {
	if v, ok := s.values[key]; ok && v.Kind == KindVector {
		return v.Vector
	}
	return mgl32.Vec3{}
}

// Keys returns the bound keys in sorted order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Require checks that every requirement is present with the expected kind.
// The first violation is returned.
func (s *Set) Require(reqs []Requirement) error {
	for _, r := range reqs {
		v, ok := s.values[r.Key]
		if !ok {
			return fmt.Errorf("%s.%s: %w", s.name, r.Key, ErrMissingKey)
		}
		if v.Kind != r.Kind {
			return fmt.Errorf("%s.%s: %w: want %s, have %s", s.name, r.Key, ErrWrongKind, r.Kind, v.Kind)
		}
	}
	return nil
}
