// Package mindtree is the strict parent/child tree used by the legacy
// mind-map editor. It is kept so that boards saved in that shape can still
// be loaded and placed onto the freeform scene.
package mindtree

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrRootSibling = errors.New("the root node cannot have siblings")
	ErrRootDelete  = errors.New("the root node cannot be deleted, only reset")
	ErrNotInTree   = errors.New("node is not part of this tree")
)

type Node struct {
	ID       string
	Text     string
	Level    int
	Children []*Node

	parent *Node
}

func newID() string {
	return "node-" + uuid.NewString()
}

// NewRoot returns a fresh single-node tree.
func NewRoot(text string) *Node {
	return &Node{ID: newID(), Text: text}
}

// Default returns the tree a reset produces: a central idea with three topics.
func Default() *Node {
	root := NewRoot("Central Idea")
	for i := 1; i <= 3; i++ {
		root.AddChild(fmt.Sprintf("Topic %d", i))
	}
	return root
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) IsRoot() bool {
	return n.parent == nil
}

func (n *Node) AddChild(text string) *Node {
	child := &Node{ID: newID(), Text: text, Level: n.Level + 1, parent: n}
	n.Children = append(n.Children, child)
	return child
}

// AddSibling appends a new node to n's parent.
func (n *Node) AddSibling(text string) (*Node, error) {
	if n.parent == nil {
		return nil, ErrRootSibling
	}
	return n.parent.AddChild(text), nil
}

// Delete detaches n and its whole subtree from the tree.
func (n *Node) Delete() error {
	if n.parent == nil {
		return ErrRootDelete
	}
	p := n.parent
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			n.parent = nil
			return nil
		}
	}
	return ErrNotInTree
}

// Find returns the node with the given id in n's subtree.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Walk visits n's subtree depth first, parents before children. Returning
// false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Size returns the number of nodes in n's subtree.
func (n *Node) Size() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
