package canvas

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrSenderClosed is returned when sending through a dropped endpoint.
	ErrSenderClosed = errors.New("canvas: sender closed")
	// ErrChannelClosed is returned by Recv once the sender is gone and
	// every buffered message has been read.
	ErrChannelClosed = errors.New("canvas: channel closed")
)

type MsgKind uint8

const (
	// MsgDraw carries an opaque draw command from script.
	MsgDraw MsgKind = iota + 1
	// MsgRecreate asks the renderer to resize its backing store.
	MsgRecreate
	// MsgFromLayoutSendData is sent by layout when it paints the canvas.
	MsgFromLayoutSendData
	// MsgClose tells the renderer the context is going away.
	MsgClose
)

func (k MsgKind) String() string {
	switch k {
	case MsgDraw:
		return "draw"
	case MsgRecreate:
		return "recreate"
	case MsgFromLayoutSendData:
		return "from-layout-send-data"
	case MsgClose:
		return "close"
	default:
		return "unknown"
	}
}

// Msg is a command destined for a canvas renderer. Its payload is opaque
// to everything but the renderer.
type Msg struct {
	Kind          MsgKind
	Width, Height uint32
	Payload       []byte
}

type pipe struct {
	once sync.Once
	done chan struct{}
	ch   chan Msg
}

// Sender is the writing endpoint of a render channel. It has a single
// owner; once closed, further sends fail on this side only.
type Sender struct {
	p *pipe
}

// Receiver is the endpoint held by the renderer.
type Receiver struct {
	p *pipe
}

// NewChannel creates a render channel that buffers up to buffer messages.
func NewChannel(buffer int) (*Sender, *Receiver) {
	if buffer < 0 {
		buffer = 0
	}
	p := &pipe{
		done: make(chan struct{}),
		ch:   make(chan Msg, buffer),
	}
	return &Sender{p: p}, &Receiver{p: p}
}

// Send delivers msg to the receiver. It blocks while the buffer is full
// and fails once the sender has been closed. A send that has already
// started when Close runs may still be delivered; the receiver reads it
// before it sees the drop. A send issued after Close never is.
func (s *Sender) Send(msg Msg) error {
	if s.Closed() {
		return errors.Wrapf(ErrSenderClosed, "send %s", msg.Kind)
	}
	select {
	case s.p.ch <- msg:
		return nil
	case <-s.p.done:
		return errors.Wrapf(ErrSenderClosed, "send %s", msg.Kind)
	}
}

// Close drops the endpoint. Calling it more than once is harmless.
func (s *Sender) Close() {
	if s == nil {
		return
	}
	s.p.once.Do(func() { close(s.p.done) })
}

func (s *Sender) Closed() bool {
	if s == nil {
		return true
	}
	select {
	case <-s.p.done:
		return true
	default:
		return false
	}
}

// Recv waits for the next message. Messages buffered before the sender was
// dropped are still delivered.
func (r *Receiver) Recv(ctx context.Context) (Msg, error) {
	select {
	case msg := <-r.p.ch:
		return msg, nil
	default:
	}

	select {
	case msg := <-r.p.ch:
		return msg, nil
	case <-r.p.done:
		// drain what was queued before the drop
		select {
		case msg := <-r.p.ch:
			return msg, nil
		default:
			return Msg{}, ErrChannelClosed
		}
	case <-ctx.Done():
		return Msg{}, ctx.Err()
	}
}
