package dom

import (
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/heathj/scriptlayout/canvas"
	"github.com/heathj/scriptlayout/webidl"
)

// Document owns the root of a live tree. Nodes reachable from Node carry
// IsInDoc.
type Document struct {
	*Node

	URL        webidl.USVString
	PipelineID ulid.ULID

	log *logrus.Entry
}

func NewDocument(url webidl.USVString) *Document {
	d := &Document{
		Node:       newNode(DocumentNode, "#document"),
		URL:        url,
		PipelineID: ulid.Make(),
	}
	d.Node.OwnerDocument = d
	d.Node.Flags.Set(IsInDoc)
	d.log = logrus.WithFields(logrus.Fields{
		"pipeline": d.PipelineID.String(),
		"url":      string(url),
	})
	return d
}

// Log returns the document's logger, tagged with its pipeline.
func (d *Document) Log() *logrus.Entry {
	return d.log
}

// NeedsReflow is true while any node in the document has unprocessed
// damage.
func (d *Document) NeedsReflow() bool {
	return d.Node.Flags.NeedsReflow()
}

// CreateElement is https://dom.spec.whatwg.org/#dom-document-createelement
func (d *Document) CreateElement(localName webidl.DOMString) *Node {
	n := NewElement(localName)
	if localName == "canvas" {
		n.Canvas = canvas.New()
	}
	n.OwnerDocument = d
	return n
}

// CreateTextNode is https://dom.spec.whatwg.org/#dom-document-createtextnode
func (d *Document) CreateTextNode(data string) *Node {
	n := NewText(data)
	n.OwnerDocument = d
	return n
}
