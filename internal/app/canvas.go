package app

import (
	"errors"

	"github.com/Faultbox/midgard-floor/internal/engine/gpu"
	"github.com/Faultbox/midgard-floor/internal/engine/gpu/glbackend"
	"github.com/Faultbox/midgard-floor/internal/engine/window"
)

// windowCanvas adapts the SDL window to pipeline.Canvas. The GL backend is
// created on first use, once the context is current.
type windowCanvas struct {
	win     *window.Window
	backend *glbackend.Backend
}

func (c *windowCanvas) Size() (int, int) {
	return c.win.DrawableSize()
}

func (c *windowCanvas) Context() (gpu.Backend, error) {
	if c.backend != nil {
		return c.backend, nil
	}
	if !c.win.HasContext() {
		return nil, errors.New("window has no OpenGL context")
	}
	b, err := glbackend.New()
	if err != nil {
		return nil, err
	}
	c.backend = b
	return b, nil
}

func (c *windowCanvas) Close() {
	if c.backend != nil {
		c.backend.Close()
		c.backend = nil
	}
}
