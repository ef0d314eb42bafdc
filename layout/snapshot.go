package layout

import (
	"github.com/heathj/scriptlayout/canvas"
	"github.com/heathj/scriptlayout/dom"
	"github.com/heathj/scriptlayout/webidl"
)

// CanvasView is what layout sees of a canvas: its size and a borrowed
// reference to the renderer. Layout never closes the sender.
type CanvasView struct {
	Width, Height uint32
	Renderer      *canvas.Sender
}

// Node is an immutable copy of a dom node taken at the start of a reflow.
type Node struct {
	Opaque   dom.OpaqueNode
	Type     dom.NodeType
	Name     webidl.DOMString
	Flags    dom.NodeFlags
	Canvas   *CanvasView
	Children []*Node
}

// Snapshot copies the part of the tree under root that a reflow can reach.
// Children of clean nodes are not copied since the traversal never enters
// them.
func Snapshot(root *dom.Node) *Node {
	if root == nil {
		return nil
	}
	sn := &Node{
		Opaque: root.Opaque(),
		Type:   root.NodeType,
		Name:   root.NodeName,
		Flags:  root.Flags,
	}
	if c := root.Canvas; c != nil {
		sn.Canvas = &CanvasView{
			Width:    c.Width,
			Height:   c.Height,
			Renderer: c.Renderer(),
		}
	}
	if !root.Flags.Test(dom.HasDirtyDescendants) {
		return sn
	}
	sn.Children = make([]*Node, 0, len(root.ChildNodes))
	for _, child := range root.ChildNodes {
		sn.Children = append(sn.Children, Snapshot(child))
	}
	return sn
}

// Size counts the nodes in the snapshot.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	size := 1
	for _, child := range n.Children {
		size += child.Size()
	}
	return size
}
