package dom

import "strings"

// NodeFlags is the per-node state bit set read by layout to decide which
// subtrees need work.
type NodeFlags uint8

const (
	// IsInDoc is set while the node is attached to a live document.
	IsInDoc NodeFlags = 1 << iota
	// HasChanged means the node must be reflowed regardless of style
	// differences.
	HasChanged
	// IsDirty means the node needs style recalc on the next reflow.
	IsDirty
	// HasDirtyDescendants means some descendant has changed since the last
	// reflow and has not been processed yet.
	HasDirtyDescendants
	// ClickInProgress is set while an authentic click targets the element.
	ClickInProgress
	// SequentiallyFocusable marks nodes reachable with sequential focus
	// navigation.
	SequentiallyFocusable
	// CanBeFragmented is set when an inclusive ancestor is a fragmentation
	// container.
	CanBeFragmented
)

// ReflowFlags are the bits a completed layout pass clears.
const ReflowFlags = HasChanged | IsDirty | HasDirtyDescendants

var flagNames = []struct {
	flag NodeFlags
	name string
}{
	{IsInDoc, "IS_IN_DOC"},
	{HasChanged, "HAS_CHANGED"},
	{IsDirty, "IS_DIRTY"},
	{HasDirtyDescendants, "HAS_DIRTY_DESCENDANTS"},
	{ClickInProgress, "CLICK_IN_PROGRESS"},
	{SequentiallyFocusable, "SEQUENTIALLY_FOCUSABLE"},
	{CanBeFragmented, "CAN_BE_FRAGMENTED"},
}

// NewNodeFlags returns the flags of a node that has never been laid out.
func NewNodeFlags() NodeFlags {
	return HasChanged | IsDirty | HasDirtyDescendants
}

func (f *NodeFlags) Set(o NodeFlags) {
	*f |= o
}

func (f *NodeFlags) Clear(o NodeFlags) {
	*f &^= o
}

// Toggle sets o when on is true and clears it otherwise.
func (f *NodeFlags) Toggle(o NodeFlags, on bool) {
	if on {
		f.Set(o)
	} else {
		f.Clear(o)
	}
}

// Test reports whether every bit of o is set.
func (f NodeFlags) Test(o NodeFlags) bool {
	return f&o == o
}

// TestAny reports whether at least one bit of o is set.
func (f NodeFlags) TestAny(o NodeFlags) bool {
	return f&o != 0
}

// NeedsReflow is true when the node or something below it has not been
// processed by layout yet.
func (f NodeFlags) NeedsReflow() bool {
	return f.TestAny(ReflowFlags)
}

func (f NodeFlags) String() string {
	if f == 0 {
		return "empty"
	}
	var names []string
	for _, fn := range flagNames {
		if f.Test(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}
