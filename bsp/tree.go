// SPDX-License-Identifier: GPL-2.0-or-later

// Package bsp holds the binary space partition of a level and walks it front
// to back.
package bsp

import (
	"fmt"

	"sectorgl/level"
	"sectorgl/math/vec"
)

// Element is either a *Node or a *Leaf.
type Element interface {
	Box() vec.Box
}

// Node splits space along Splitter. Children[0] is on the right of the
// splitter, Children[1] on the left.
type Node struct {
	Splitter vec.Segment
	Children [2]Element
	box      vec.Box
}

func (n *Node) Box() vec.Box {
	return n.box
}

type Leaf struct {
	Subsector *level.Subsector
}

func (l *Leaf) Box() vec.Box {
	return l.Subsector.Box
}

func NewNode(splitter vec.Segment, right, left Element) *Node {
	n := &Node{
		Splitter: splitter,
		Children: [2]Element{right, left},
		box:      vec.EmptyBox(),
	}
	for _, c := range n.Children {
		b := c.Box()
		n.box = n.box.Add(b.Min).Add(b.Max)
	}
	return n
}

type Tree struct {
	Root Element
}

// New returns a tree. A level with a single subsector has a leaf as root.
func New(root Element) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("bsp: empty tree")
	}
	return &Tree{Root: root}, nil
}

// PointInSubsector returns the leaf containing p.
func (t *Tree) PointInSubsector(p vec.Vec2) *level.Subsector {
	e := t.Root
	for {
		switch n := e.(type) {
		case *Leaf:
			return n.Subsector
		case *Node:
			if n.Splitter.OnRight(p) {
				e = n.Children[0]
			} else {
				e = n.Children[1]
			}
		default:
			panic(fmt.Sprintf("bsp: unknown element %T", e))
		}
	}
}

// Visitor receives subsectors from Walk.
type Visitor interface {
	// Occluded reports whether everything inside box is hidden.
	Occluded(box vec.Box) bool
	Visit(ss *level.Subsector)
}

// Walk visits all not occluded subsectors nearest first as seen from pos.
func (t *Tree) Walk(pos vec.Vec2, v Visitor) {
	walk(t.Root, pos, v)
}

func walk(e Element, pos vec.Vec2, v Visitor) {
	if v.Occluded(e.Box()) {
		return
	}
	switch n := e.(type) {
	case *Leaf:
		v.Visit(n.Subsector)
	case *Node:
		near := 1
		if n.Splitter.OnRight(pos) {
			near = 0
		}
		walk(n.Children[near], pos, v)
		walk(n.Children[near^1], pos, v)
	}
}
