package layout

// ReflowGoal says why script wants a reflow.
type ReflowGoal uint8

const (
	ForDisplay ReflowGoal = iota
	ForScriptQuery
)

func (g ReflowGoal) String() string {
	switch g {
	case ForDisplay:
		return "display"
	case ForScriptQuery:
		return "script-query"
	default:
		return "unknown"
	}
}

// Msg is a message from script to the layout thread.
type Msg interface {
	isLayoutMsg()
}

// ReflowMsg hands layout a snapshot to process. Exactly one ReflowReply is
// sent on Reply, which should be buffered.
type ReflowMsg struct {
	Goal  ReflowGoal
	Root  *Node
	Reply chan<- ReflowReply
}

type ReflowReply struct {
	Result *Result
	Err    error
}

// ExitNowMsg stops the layout thread.
type ExitNowMsg struct{}

func (ReflowMsg) isLayoutMsg()  {}
func (ExitNowMsg) isLayoutMsg() {}
