package dom

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/scriptlayout/canvas"
	"github.com/heathj/scriptlayout/webidl"
)

type NodeType uint16

const (
	ElementNode NodeType = iota + 1
	AttrNode
	TextNode
	CDATASectionNode
	ProcessingInstructionNode
	CommentNode
	DocumentNode
	DocumentTypeNode
	DocumentFragmentNode
)

// NodeDamage says what kind of recomputation a mutation requires.
type NodeDamage uint8

const (
	// StyleDamage needs a style recalc only.
	StyleDamage NodeDamage = iota
	// OtherDamage forces a reflow of the node regardless of style diffing.
	OtherDamage
)

var (
	// ErrHierarchyRequest is returned when an insertion would put a node
	// under itself or one of its descendants.
	ErrHierarchyRequest = errors.New("hierarchy request")
	// ErrNotFound is returned when the reference child is not a child of
	// the parent.
	ErrNotFound = errors.New("reference child not found")
)

var lastNodeID uint64

// https://dom.spec.whatwg.org/#node
type Node struct {
	NodeType                                                        NodeType
	NodeName                                                        webidl.DOMString
	OwnerDocument                                                   *Document
	ParentNode, FirstChild, LastChild, PreviousSibling, NextSibling *Node
	ChildNodes                                                      NodeList
	Data                                                            string

	Flags NodeFlags

	// Canvas is set on canvas elements only.
	Canvas *canvas.HTMLCanvasData

	id            uint64
	fragContainer bool
}

func newNode(t NodeType, name webidl.DOMString) *Node {
	return &Node{
		NodeType: t,
		NodeName: name,
		Flags:    NewNodeFlags(),
		id:       atomic.AddUint64(&lastNodeID, 1),
	}
}

func NewElement(name webidl.DOMString) *Node {
	return newNode(ElementNode, name)
}

func NewText(data string) *Node {
	n := newNode(TextNode, "#text")
	n.Data = data
	return n
}

// NewCanvasElement returns a <canvas> element with no rendering context.
func NewCanvasElement(width, height uint32) *Node {
	n := newNode(ElementNode, "canvas")
	n.Canvas = canvas.WithDimensions(width, height)
	return n
}

func (n *Node) ID() uint64 {
	return n.id
}

func (n *Node) HasChildNodes() bool {
	return len(n.ChildNodes) > 0
}

// IsConnected is https://dom.spec.whatwg.org/#dom-node-isconnected
func (n *Node) IsConnected() bool {
	return n.Flags.Test(IsInDoc)
}

// MarkDirty records damage on n and makes sure every strict ancestor has
// HasDirtyDescendants. The walk stops at the first ancestor that already
// has it, since all of that ancestor's ancestors have it too.
func (n *Node) MarkDirty(damage NodeDamage) {
	switch damage {
	case StyleDamage:
		n.Flags.Set(IsDirty)
	case OtherDamage:
		n.Flags.Set(HasChanged | IsDirty)
	}
	n.propagateDirty()
}

// DirtySubtree marks n and all of its descendants for style recalc.
func (n *Node) DirtySubtree() {
	n.walk(func(d *Node) {
		d.Flags.Set(IsDirty | HasDirtyDescendants)
	})
	n.propagateDirty()
}

func (n *Node) propagateDirty() {
	for a := n.ParentNode; a != nil; a = a.ParentNode {
		if a.Flags.Test(HasDirtyDescendants) {
			return
		}
		a.Flags.Set(HasDirtyDescendants)
	}
}

// ClearAfterReflow resets the reflow bits once layout has processed n and
// everything below it. Callers must clear children before their parent.
func (n *Node) ClearAfterReflow() {
	n.Flags.Clear(ReflowFlags)
}

func (n *Node) SetClickInProgress(on bool) {
	n.Flags.Toggle(ClickInProgress, on)
}

func (n *Node) SetSequentiallyFocusable(on bool) {
	n.Flags.Toggle(SequentiallyFocusable, on)
}

// SetFragmentationContainer records whether n is a fragmentation container
// and recomputes CanBeFragmented below it.
func (n *Node) SetFragmentationContainer(on bool) {
	n.fragContainer = on
	n.refreshFragmentation(n.ParentNode != nil && n.ParentNode.Flags.Test(CanBeFragmented))
	n.DirtySubtree()
}

func (n *Node) IsFragmentationContainer() bool {
	return n.fragContainer
}

// refreshFragmentation sets CanBeFragmented on n's subtree from inherited,
// the parent's value, and each node's own container status.
func (n *Node) refreshFragmentation(inherited bool) {
	on := inherited || n.fragContainer
	n.Flags.Toggle(CanBeFragmented, on)
	for _, child := range n.ChildNodes {
		child.refreshFragmentation(on)
	}
}

// ReplaceCanvasData swaps in a new descriptor, as happens whenever the
// rendering context is recreated or the canvas is resized. The old
// descriptor's renderer is dropped unless it moved to c, in which case the
// old descriptor just lets go of it.
func (n *Node) ReplaceCanvasData(c *canvas.HTMLCanvasData) {
	if old := n.Canvas; old != nil && old != c {
		if c != nil && old.HasRenderer() && old.Renderer() == c.Renderer() {
			old.Release()
		} else {
			old.Detach()
		}
	}
	n.Canvas = c
	n.MarkDirty(OtherDamage)
}

func (n *Node) walk(f func(*Node)) {
	f(n)
	for _, child := range n.ChildNodes {
		child.walk(f)
	}
}

// GetRootNode is https://dom.spec.whatwg.org/#dom-node-getrootnode
func (n *Node) GetRootNode() *Node {
	var prev *Node
	for i := n; i != nil; i = i.ParentNode {
		prev = i
	}

	return prev
}

// adopt fixes up document membership and inherited flags of a subtree that
// was just inserted under n.
func (n *Node) adopt(child *Node) {
	inDoc := n.Flags.Test(IsInDoc)
	child.walk(func(d *Node) {
		if n.OwnerDocument != nil {
			d.OwnerDocument = n.OwnerDocument
		}
		d.Flags.Toggle(IsInDoc, inDoc)
	})
	child.refreshFragmentation(n.Flags.Test(CanBeFragmented))
	child.MarkDirty(OtherDamage)
}

func (n *Node) logger() *logrus.Entry {
	if n.OwnerDocument != nil && n.OwnerDocument.log != nil {
		return n.OwnerDocument.log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// isInclusiveAncestorOf reports whether n is o or one of o's ancestors.
func (n *Node) isInclusiveAncestorOf(o *Node) bool {
	for a := o; a != nil; a = a.ParentNode {
		if a == n {
			return true
		}
	}
	return false
}

// PreInsert is https://dom.spec.whatwg.org/#concept-node-pre-insert
// A nil child appends.
func (n *Node) PreInsert(on, child *Node) (*Node, error) {
	if on == nil {
		return nil, errors.Wrap(ErrHierarchyRequest, "insert nil node")
	}
	if on.NodeType == DocumentNode {
		return nil, errors.Wrap(ErrHierarchyRequest, "insert document node")
	}
	if on.isInclusiveAncestorOf(n) {
		return nil, errors.Wrapf(ErrHierarchyRequest, "%s (id %d) is an inclusive ancestor of %s (id %d)",
			on.label(), on.id, n.label(), n.id)
	}
	if child != nil && child.ParentNode != n {
		return nil, errors.Wrapf(ErrNotFound, "%s (id %d) under %s (id %d)",
			child.label(), child.id, n.label(), n.id)
	}
	if child == on {
		child = on.NextSibling
	}

	if on.ParentNode != nil {
		on.ParentNode.RemoveChild(on)
	}

	on.ParentNode = n
	if child == nil {
		on.PreviousSibling = n.LastChild
		on.NextSibling = nil
		if n.LastChild != nil {
			n.LastChild.NextSibling = on
		} else {
			n.FirstChild = on
		}
		n.LastChild = on
		n.ChildNodes = append(n.ChildNodes, on)
	} else {
		n.ChildNodes.WedgeIn(n.ChildNodes.Contains(child), on)
		on.NextSibling = child
		on.PreviousSibling = child.PreviousSibling
		if child.PreviousSibling != nil {
			child.PreviousSibling.NextSibling = on
		} else {
			n.FirstChild = on
		}
		child.PreviousSibling = on
	}

	n.adopt(on)
	return on, nil
}

// https://dom.spec.whatwg.org/#concept-node-append
// Returns nil and leaves the tree alone when the insertion is refused.
func (n *Node) AppendChild(on *Node) *Node {
	return n.InsertBefore(on, nil)
}

// InsertBefore inserts on before child, or appends when child is nil.
// Returns nil and leaves the tree alone when the insertion is refused.
func (n *Node) InsertBefore(on, child *Node) *Node {
	node, err := n.PreInsert(on, child)
	if err != nil {
		n.logger().WithError(err).WithField("method", "InsertBefore").Warn("insertion refused")
		return nil
	}
	return node
}

// RemoveChild detaches child. The detached subtree keeps its reflow flags;
// n is damaged because its children changed.
func (n *Node) RemoveChild(child *Node) *Node {
	node := n.ChildNodes.Remove(n.ChildNodes.Contains(child))
	if node == nil {
		return nil
	}

	if node.PreviousSibling != nil {
		node.PreviousSibling.NextSibling = node.NextSibling
	} else {
		n.FirstChild = node.NextSibling
	}
	if node.NextSibling != nil {
		node.NextSibling.PreviousSibling = node.PreviousSibling
	} else {
		n.LastChild = node.PreviousSibling
	}
	node.ParentNode = nil
	node.PreviousSibling = nil
	node.NextSibling = nil

	node.walk(func(d *Node) {
		d.Flags.Clear(IsInDoc)
	})
	node.refreshFragmentation(false)
	n.MarkDirty(OtherDamage)
	return node
}

func (n *Node) label() string {
	switch n.NodeType {
	case ElementNode:
		if n.Canvas != nil {
			return fmt.Sprintf("<%s %dx%d renderer=%t>", n.NodeName, n.Canvas.Width, n.Canvas.Height, n.Canvas.HasRenderer())
		}
		return "<" + string(n.NodeName) + ">"
	case TextNode:
		return "\"" + n.Data + "\""
	case CommentNode:
		return "<!-- " + n.Data + " -->"
	case DocumentNode:
		return "#document"
	default:
		return string(n.NodeName)
	}
}

func (n *Node) serialize(ident int) string {
	ser := n.label() + " [" + n.Flags.String() + "]\n"
	if n.NodeType != DocumentNode {
		spaces := "| "
		for i := 1; i < ident; i++ {
			spaces += "  "
		}
		ser = spaces + ser
	}
	for _, child := range n.ChildNodes {
		ser += child.serialize(ident + 1)
	}

	return ser
}

// String dumps the subtree rooted at n, one node per line with its flags.
func (n *Node) String() string {
	return strings.TrimRight(n.serialize(0), "\n")
}
