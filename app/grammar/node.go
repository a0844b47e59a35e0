package grammar

import (
	"strings"

	"logicbot/app/lexicon"
)

// Label names an inner parse tree node.
type Label string

const (
	None            Label = "none"
	List            Label = "list"
	Determined      Label = "determined"
	ThingDetermined Label = "thing determined"
	RelativeSubject Label = "relative subject"
	RelativeObject  Label = "relative object"
	Prepositional   Label = "prepositional"
	Object          Label = "object"
	Interjection    Label = "interjection"
	BasicSentence   Label = "basic sentence"
	Question        Label = "question"
)

// Node is a parse tree node. Leaves carry a word and the part of speech it
// was matched as and have an empty Label; inner nodes carry a Label and their
// children in match order.
type Node struct {
	Label    Label
	POS      lexicon.POS
	Word     string
	Children []*Node
}

func leaf(pos lexicon.POS, word string) *Node {
	return &Node{POS: pos, Word: word}
}

// IsLeaf reports whether n is a matched word.
func (n *Node) IsLeaf() bool {
	return n.Label == ""
}

// Is reports whether n is an inner node with the given label.
func (n *Node) Is(label Label) bool {
	return n != nil && n.Label == label
}

// Child returns the i-th child, or nil when there is none.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Leaves returns the matched words in input order.
func (n *Node) Leaves() []*Node {
	var res []*Node
	stack := []*Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.IsLeaf() {
			res = append(res, top)
			continue
		}
		for i := len(top.Children) - 1; i >= 0; i-- {
			stack = append(stack, top.Children[i])
		}
	}
	return res
}

// String renders the tree as nested brackets, for example
// [basic sentence,[determined,some/determiner,[penguin/noun],[]],flies/verb,-,-].
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch {
	case n == nil:
		b.WriteString("<nil>")
		return
	case n.IsLeaf():
		b.WriteString(n.Word)
		b.WriteByte('/')
		b.WriteString(string(n.POS))
		return
	case n.Label == None:
		b.WriteByte('-')
		return
	}

	b.WriteByte('[')
	if n.Label != List {
		b.WriteString(string(n.Label))
		if len(n.Children) > 0 {
			b.WriteByte(',')
		}
	}
	for i, c := range n.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		c.write(b)
	}
	b.WriteByte(']')
}
