package dom

import (
	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/sirupsen/logrus"
)

// ErrMissedInvalidation means a dirty node has an ancestor without
// HasDirtyDescendants, so a layout pass would skip it.
var ErrMissedInvalidation = errors.New("dirty node under clean ancestor")

// OpaqueNode identifies a node across the script/layout boundary. Layout
// can hold and hand it back but cannot reach into the node.
type OpaqueNode struct {
	node *Node
}

func (n *Node) Opaque() OpaqueNode {
	return OpaqueNode{node: n}
}

func (o OpaqueNode) ID() uint64 {
	if o.node == nil {
		return 0
	}
	return o.node.id
}

func (o OpaqueNode) IsZero() bool {
	return o.node == nil
}

// ClearAfterReflow clears the reflow bits of every node in order. Layout
// reports processed nodes children first, which is the order clearing
// requires.
func ClearAfterReflow(nodes []OpaqueNode) {
	for _, o := range nodes {
		if o.node != nil {
			o.node.ClearAfterReflow()
		}
	}
}

// CheckDirtyInvariant walks the tree under root and reports the first node
// that is dirty, changed or has dirty descendants while some strict
// ancestor lacks HasDirtyDescendants.
func CheckDirtyInvariant(root *Node) error {
	return checkDirty(root, nil)
}

func checkDirty(n *Node, clean *Node) error {
	if clean != nil && n.Flags.TestAny(HasChanged|IsDirty|HasDirtyDescendants) {
		return errors.Wrapf(ErrMissedInvalidation, "%s (id %d) [%s] under %s (id %d) [%s]",
			n.label(), n.id, n.Flags, clean.label(), clean.id, clean.Flags)
	}
	if clean == nil && !n.Flags.Test(HasDirtyDescendants) {
		clean = n
	}
	for _, child := range n.ChildNodes {
		if err := checkDirty(child, clean); err != nil {
			return err
		}
	}
	return nil
}

// PrintDiff logs the difference between two tree dumps at debug level.
func PrintDiff(log logrus.FieldLogger, a, b, method string) {
	if a == b {
		return
	}
	if l, ok := log.(*logrus.Entry); ok && !l.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, true)
	log.WithField("method", method).Debugf("[TREE]: %s\n\n", dmp.DiffPrettyText(diffs))
}
