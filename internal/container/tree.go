package container

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is an element of a materialised XML tree. Character data is kept as
// child nodes with an empty Name so document order is preserved.
type Node struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []*Node
	Text     string
}

// IsText reports whether n holds character data rather than an element.
func (n *Node) IsText() bool {
	return n.Name.Local == ""
}

// CharData concatenates the direct character-data children of n.
func (n *Node) CharData() string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.IsText() {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// BuildTree reads a whole XML document into memory and returns its root
// element.
func BuildTree(r io.Reader, opts ...StreamOption) (*Node, error) {
	s := NewStream(r, opts...)

	var root *Node
	var stack []*Node
	for {
		ev, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch ev.Kind {
		case StartElement:
			n := &Node{Name: ev.Name, Attr: ev.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrMalformed)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case EndElement:
			stack = stack[:len(stack)-1]
		case CharData:
			if len(stack) == 0 {
				continue // whitespace around the root element
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{Text: string(ev.Text)})
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return root, nil
}
