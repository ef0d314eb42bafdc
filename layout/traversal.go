package layout

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/scriptlayout/canvas"
	"github.com/heathj/scriptlayout/dom"
)

// Engine is the style and box-building machinery layout drives. It lives
// outside this module; Traverse only decides which nodes it sees.
type Engine interface {
	// Restyle recomputes style for a node with IsDirty.
	Restyle(n *Node) error
	// Reflow recomputes geometry for a node with IsDirty or HasChanged.
	Reflow(n *Node) error
}

// NopEngine accepts every node and does nothing.
type NopEngine struct{}

func (NopEngine) Restyle(*Node) error { return nil }
func (NopEngine) Reflow(*Node) error  { return nil }

// Result describes one pass. Processed lists every node whose subtree was
// fully handled, children before parents.
type Result struct {
	Goal            ReflowGoal
	Processed       []dom.OpaqueNode
	Restyled        int
	Reflowed        int
	Skipped         int
	CanvasesPainted int
}

type traversal struct {
	ctx    context.Context
	engine Engine
	log    logrus.FieldLogger
	res    *Result
}

// Traverse walks a snapshot top-down, skipping every subtree that has no
// unprocessed damage, and records nodes in post-order as they finish. On
// error the result holds what was finished before the failure.
func Traverse(ctx context.Context, root *Node, engine Engine, log logrus.FieldLogger) (*Result, error) {
	if engine == nil {
		engine = NopEngine{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	t := &traversal{
		ctx:    ctx,
		engine: engine,
		log:    log,
		res:    &Result{},
	}
	if root == nil {
		return t.res, nil
	}
	if err := t.visit(root); err != nil {
		return t.res, err
	}
	return t.res, nil
}

func (t *traversal) visit(n *Node) error {
	if !n.Flags.NeedsReflow() {
		t.res.Skipped++
		return nil
	}
	if err := t.ctx.Err(); err != nil {
		return errors.Wrap(err, "traverse")
	}

	if n.Flags.Test(dom.IsDirty) {
		if err := t.engine.Restyle(n); err != nil {
			return errors.Wrapf(err, "restyle node %d", n.Opaque.ID())
		}
		t.res.Restyled++
	}
	if n.Flags.TestAny(dom.IsDirty | dom.HasChanged) {
		if err := t.engine.Reflow(n); err != nil {
			return errors.Wrapf(err, "reflow node %d", n.Opaque.ID())
		}
		t.res.Reflowed++
		t.paintCanvas(n)
	}

	if n.Flags.Test(dom.HasDirtyDescendants) {
		for _, child := range n.Children {
			if err := t.visit(child); err != nil {
				return err
			}
		}
	}

	t.res.Processed = append(t.res.Processed, n.Opaque)
	return nil
}

// paintCanvas asks the canvas renderer for fresh pixels. A renderer that
// went away is not an error here.
func (t *traversal) paintCanvas(n *Node) {
	if n.Canvas == nil || n.Canvas.Renderer == nil {
		return
	}
	err := n.Canvas.Renderer.Send(canvas.Msg{
		Kind:   canvas.MsgFromLayoutSendData,
		Width:  n.Canvas.Width,
		Height: n.Canvas.Height,
	})
	if err != nil {
		t.log.WithError(err).WithField("node", n.Opaque.ID()).Debug("canvas renderer gone")
		return
	}
	t.res.CanvasesPainted++
}
