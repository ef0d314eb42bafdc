package script

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/scriptlayout/dom"
	"github.com/heathj/scriptlayout/layout"
)

// Window is the script side of a pipeline. It mutates its document and
// hands snapshots to a layout thread at reflow boundaries.
type Window struct {
	doc    *dom.Document
	layout chan<- layout.Msg
	log    *logrus.Entry
}

func NewWindow(doc *dom.Document, layoutChan chan<- layout.Msg) *Window {
	return &Window{
		doc:    doc,
		layout: layoutChan,
		log:    doc.Log().WithField("thread", "script"),
	}
}

func (w *Window) Document() *dom.Document {
	return w.doc
}

// Reflow runs one layout pass and blocks until it finishes, so the
// document is never mutated while layout works from its snapshot. Reflow
// flags are cleared only when the whole pass succeeded.
func (w *Window) Reflow(ctx context.Context, goal layout.ReflowGoal) (*layout.Result, error) {
	if !w.doc.NeedsReflow() {
		return &layout.Result{Goal: goal}, nil
	}

	reply := make(chan layout.ReflowReply, 1)
	msg := layout.ReflowMsg{
		Goal:  goal,
		Root:  layout.Snapshot(w.doc.Node),
		Reply: reply,
	}

	select {
	case w.layout <- msg:
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "send reflow")
	}

	var r layout.ReflowReply
	select {
	case r = <-reply:
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "wait for reflow")
	}
	if r.Err != nil {
		return r.Result, errors.Wrapf(r.Err, "reflow for %s", goal)
	}

	debug := w.log.Logger.IsLevelEnabled(logrus.DebugLevel)
	var before string
	if debug {
		before = w.doc.String()
	}
	dom.ClearAfterReflow(r.Result.Processed)
	if debug {
		dom.PrintDiff(w.log, before, w.doc.String(), "Reflow")
	}

	w.log.WithFields(logrus.Fields{
		"goal":      goal,
		"snapshot":  msg.Root.Size(),
		"processed": len(r.Result.Processed),
		"canvases":  r.Result.CanvasesPainted,
	}).Debug("reflow complete")
	return r.Result, nil
}

// Exit asks the layout thread to stop.
func (w *Window) Exit(ctx context.Context) error {
	select {
	case w.layout <- layout.ExitNowMsg{}:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "send exit")
	}
}
