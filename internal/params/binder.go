// Package params holds the tweakable atmosphere colors and pushes every
// accepted change to the uniform sets that display them.
package params

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/engine/uniform"
	"github.com/Faultbox/globe/internal/logger"
)

// Receiver accepts color updates. *uniform.Set implements it.
type Receiver interface {
	SetColor(key string, c uniform.Color) error
}

// Keys the binder owns.
var Keys = []string{uniform.AtmosphereDayColor, uniform.AtmosphereTwilightColor}

// Binder is the single authority for the atmosphere colors. Receivers never
// read each other; they only get values pushed from here.
type Binder struct {
	values    map[string]uniform.Color
	receivers []Receiver
}

// NewBinder starts with the given day and twilight colors. Both must be valid.
func NewBinder(day, twilight uniform.Color) (*Binder, error) {
	b := &Binder{values: make(map[string]uniform.Color, len(Keys))}
	for key, c := range map[string]uniform.Color{
		uniform.AtmosphereDayColor:      day,
		uniform.AtmosphereTwilightColor: twilight,
	} {
		if !c.Valid() {
			return nil, fmt.Errorf("%s: %w: %+v", key, uniform.ErrInvalidColor, c)
		}
		b.values[key] = c
	}
	return b, nil
}

// Register adds receivers and immediately pushes the current values to them.
func (b *Binder) Register(receivers ...Receiver) error {
	for _, r := range receivers {
		for _, key := range Keys {
			if err := r.SetColor(key, b.values[key]); err != nil {
				return fmt.Errorf("registering receiver: %w", err)
			}
		}
		b.receivers = append(b.receivers, r)
	}
	return nil
}

// Color returns the authoritative value of key.
func (b *Binder) Color(key string) (uniform.Color, bool) {
	c, ok := b.values[key]
	return c, ok
}

// SetColor validates c and pushes it under key to every receiver. A rejected
// value leaves the previous color in place and reaches no receiver. If a
// receiver fails, the ones already updated are restored to the previous color
// and the value is not committed.
func (b *Binder) SetColor(key string, c uniform.Color) error {
	prev, ok := b.values[key]
	if !ok {
		return fmt.Errorf("unknown parameter %q", key)
	}
	if !c.Valid() {
		return fmt.Errorf("%s: %w: %+v", key, uniform.ErrInvalidColor, c)
	}
	if c == prev {
		return nil
	}

	for i, r := range b.receivers {
		if err := r.SetColor(key, c); err != nil {
			for _, done := range b.receivers[:i] {
				if rerr := done.SetColor(key, prev); rerr != nil {
					logger.Error("restoring parameter", zap.String("key", key), zap.Error(rerr))
				}
			}
			return fmt.Errorf("%s: pushing to receiver %d: %w", key, i, err)
		}
	}
	b.values[key] = c
	logger.Debug("parameter changed", zap.String("key", key), zap.String("value", c.Hex()))
	return nil
}

// SetHex parses a #rrggbb color and applies it like SetColor.
func (b *Binder) SetHex(key, hex string) error {
	c, err := uniform.ParseHex(hex)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return b.SetColor(key, c)
}

// Apply sets both colors from hex strings, typically a reloaded config. Each
// color is applied independently; a malformed one is logged and skipped.
func (b *Binder) Apply(dayHex, twilightHex string) {
	for key, hex := range map[string]string{
		uniform.AtmosphereDayColor:      dayHex,
		uniform.AtmosphereTwilightColor: twilightHex,
	} {
		if err := b.SetHex(key, hex); err != nil {
			logger.Warn("rejected parameter", zap.String("key", key), zap.String("value", hex), zap.Error(err))
		}
	}
}
