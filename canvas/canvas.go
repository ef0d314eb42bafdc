package canvas

import (
	"github.com/pkg/errors"
)

// https://html.spec.whatwg.org/multipage/canvas.html#attr-canvas-width
const (
	DefaultWidth  uint32 = 300
	DefaultHeight uint32 = 150
)

// ErrNoRenderer is returned by Send when no render channel is attached.
var ErrNoRenderer = errors.New("canvas: no renderer attached")

// HTMLCanvasData describes a canvas element to layout: its size and, once a
// rendering context exists, the sending end of its render channel.
//
// The descriptor owns the sender. AttachChannel and Detach must only be
// called by the single writer that owns the canvas element.
type HTMLCanvasData struct {
	Width, Height uint32
	renderer      *Sender
}

// New returns a descriptor with the default canvas size and no renderer.
func New() *HTMLCanvasData {
	return WithDimensions(DefaultWidth, DefaultHeight)
}

func WithDimensions(width, height uint32) *HTMLCanvasData {
	return &HTMLCanvasData{Width: width, Height: height}
}

// AttachChannel takes ownership of s. A previously attached sender is
// closed.
func (c *HTMLCanvasData) AttachChannel(s *Sender) {
	if c.renderer == s {
		return
	}
	c.renderer.Close()
	c.renderer = s
}

// Detach closes and forgets the attached sender, if any.
func (c *HTMLCanvasData) Detach() {
	c.renderer.Close()
	c.renderer = nil
}

// Release hands the attached sender over without closing it. The
// descriptor no longer owns it; whoever receives it does.
func (c *HTMLCanvasData) Release() *Sender {
	s := c.renderer
	c.renderer = nil
	return s
}

// Renderer returns the attached sender, or nil. Callers borrow it and must
// not close it.
func (c *HTMLCanvasData) Renderer() *Sender {
	return c.renderer
}

func (c *HTMLCanvasData) HasRenderer() bool {
	return c.renderer != nil
}

// Send forwards msg to the attached renderer.
func (c *HTMLCanvasData) Send(msg Msg) error {
	if c.renderer == nil {
		return errors.Wrapf(ErrNoRenderer, "send %s", msg.Kind)
	}
	return c.renderer.Send(msg)
}
