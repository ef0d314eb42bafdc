package layout

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Thread is the layout side of a pipeline. It owns no document state: every
// reflow works on the snapshot carried by the message.
type Thread struct {
	engine Engine
	port   chan Msg
	log    logrus.FieldLogger
}

func NewThread(engine Engine, opts Options) *Thread {
	opts = opts.withDefaults()
	if engine == nil {
		engine = NopEngine{}
	}
	return &Thread{
		engine: engine,
		port:   make(chan Msg, opts.QueueSize),
		log:    opts.Logger.WithField("thread", "layout"),
	}
}

// Chan is where script sends layout messages.
func (t *Thread) Chan() chan<- Msg {
	return t.port
}

// Run serves messages until an ExitNowMsg arrives or ctx is done.
func (t *Thread) Run(ctx context.Context) error {
	t.log.Debug("layout thread started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-t.port:
			switch m := msg.(type) {
			case ReflowMsg:
				t.handleReflow(ctx, m)
			case ExitNowMsg:
				t.log.Debug("layout thread exiting")
				return nil
			default:
				t.log.Warnf("unexpected layout message %T", msg)
			}
		}
	}
}

func (t *Thread) handleReflow(ctx context.Context, m ReflowMsg) {
	res, err := Traverse(ctx, m.Root, t.engine, t.log)
	res.Goal = m.Goal

	entry := t.log.WithFields(logrus.Fields{
		"goal":      m.Goal,
		"processed": len(res.Processed),
		"restyled":  res.Restyled,
		"skipped":   res.Skipped,
	})
	if err != nil {
		entry.WithError(err).Warn("reflow failed")
	} else {
		entry.Debug("reflow done")
	}

	if m.Reply != nil {
		m.Reply <- ReflowReply{Result: res, Err: err}
	}
}
