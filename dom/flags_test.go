package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNodeFlags(t *testing.T) {
	f := NewNodeFlags()
	assert.True(t, f.Test(HasChanged))
	assert.True(t, f.Test(IsDirty))
	assert.True(t, f.Test(HasDirtyDescendants))
	for _, other := range []NodeFlags{IsInDoc, ClickInProgress, SequentiallyFocusable, CanBeFragmented} {
		assert.False(t, f.Test(other), other.String())
	}
	assert.Equal(t, ReflowFlags, f)
}

type flagOpTestcase struct {
	start  NodeFlags
	set    NodeFlags
	clear  NodeFlags
	expect NodeFlags
}

var flagOpTests = []flagOpTestcase{
	{0, IsInDoc, 0, IsInDoc},
	{IsInDoc, ClickInProgress, IsInDoc, ClickInProgress},
	{NewNodeFlags(), IsInDoc, ReflowFlags, IsInDoc},
	{IsDirty, IsDirty, 0, IsDirty},
	{CanBeFragmented, 0, HasChanged, CanBeFragmented},
	{0, SequentiallyFocusable | CanBeFragmented, CanBeFragmented, SequentiallyFocusable},
}

func TestSetClear(t *testing.T) {
	for _, tc := range flagOpTests {
		f := tc.start
		f.Set(tc.set)
		f.Clear(tc.clear)
		assert.Equal(t, tc.expect, f, "start %s set %s clear %s", tc.start, tc.set, tc.clear)
	}
}

func TestTestMasks(t *testing.T) {
	f := IsDirty | IsInDoc
	assert.True(t, f.Test(IsDirty|IsInDoc))
	assert.False(t, f.Test(IsDirty|HasChanged))
	assert.True(t, f.TestAny(IsDirty|HasChanged))
	assert.False(t, f.TestAny(HasChanged|ClickInProgress))
	assert.True(t, f.NeedsReflow())
	assert.False(t, IsInDoc.NeedsReflow())
}

func TestToggle(t *testing.T) {
	var f NodeFlags
	f.Toggle(ClickInProgress, true)
	assert.True(t, f.Test(ClickInProgress))
	f.Toggle(ClickInProgress, false)
	assert.Equal(t, NodeFlags(0), f)
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "empty", NodeFlags(0).String())
	assert.Equal(t, "HAS_CHANGED|IS_DIRTY|HAS_DIRTY_DESCENDANTS", NewNodeFlags().String())
	assert.Equal(t, "IS_IN_DOC|CAN_BE_FRAGMENTED", (CanBeFragmented | IsInDoc).String())
}

func TestFlagValues(t *testing.T) {
	assert.Equal(t, NodeFlags(0x01), IsInDoc)
	assert.Equal(t, NodeFlags(0x02), HasChanged)
	assert.Equal(t, NodeFlags(0x04), IsDirty)
	assert.Equal(t, NodeFlags(0x08), HasDirtyDescendants)
	assert.Equal(t, NodeFlags(0x10), ClickInProgress)
	assert.Equal(t, NodeFlags(0x20), SequentiallyFocusable)
	assert.Equal(t, NodeFlags(0x40), CanBeFragmented)
}
