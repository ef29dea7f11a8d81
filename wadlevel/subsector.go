// SPDX-License-Identifier: GPL-2.0-or-later

package wadlevel

import (
	"github.com/pkg/errors"

	"sectorgl/bsp"
	"sectorgl/level"
	"sectorgl/math/vec"
)

// epsilon is the distance at which map points count as equal.
const epsilon = 0.1

// partition is one node split on the way to a leaf.
type partition struct {
	splitter vec.Segment
	right    bool
}

func (p partition) keeps(v vec.Vec2) bool {
	d := p.splitter.PerpDot(v) / p.splitter.Length()
	if p.right {
		return d <= epsilon
	}
	return d >= -epsilon
}

// clip cuts a clockwise convex polygon to one side of a partition.
func clip(poly []vec.Vec2, p partition) []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(poly)+1)
	for i, cur := range poly {
		next := poly[(i+1)%len(poly)]
		in, nextIn := p.keeps(cur), p.keeps(next)
		if in {
			out = append(out, cur)
		}
		if in != nextIn {
			d0, d1 := p.splitter.PerpDot(cur), p.splitter.PerpDot(next)
			if d0 != d1 {
				t := d0 / (d0 - d1)
				out = append(out, vec.Segment{Start: cur, End: next}.Lerp(t))
			}
		}
	}
	return out
}

func boxPolygon(b vec.Box) []vec.Vec2 {
	// clockwise
	return []vec.Vec2{b.Min, {X: b.Min.X, Y: b.Max.Y}, b.Max, {X: b.Max.X, Y: b.Min.Y}}
}

func near(a, b vec.Vec2) bool {
	return vec.Distance(a, b) < epsilon
}

// onEdge returns the index of the polygon edge p lies on or -1.
func onEdge(poly []vec.Vec2, p vec.Vec2) int {
	for i, a := range poly {
		s := vec.Segment{Start: a, End: poly[(i+1)%len(poly)]}
		l := s.Length()
		if l == 0 {
			continue
		}
		if d := s.PerpDot(p) / l; d > epsilon || d < -epsilon {
			continue
		}
		t := vec.Dot2(vec.Sub2(p, s.Start), s.Delta()) / (l * l)
		if t >= -epsilon/l && t <= 1+epsilon/l {
			return i
		}
	}
	return -1
}

// gap closes the boundary between two segs with mini edges following the
// leaf polygon.
func gap(poly []vec.Vec2, p, q vec.Vec2) []level.Edge {
	ip, iq := onEdge(poly, p), onEdge(poly, q)
	if ip < 0 || iq < 0 {
		return []level.Edge{{Start: p, End: q}}
	}
	pts := []vec.Vec2{p}
	for i := ip; i != iq; i = (i + 1) % len(poly) {
		pts = append(pts, poly[(i+1)%len(poly)])
	}
	pts = append(pts, q)
	var edges []level.Edge
	for i := 0; i+1 < len(pts); i++ {
		if !near(pts[i], pts[i+1]) {
			edges = append(edges, level.Edge{Start: pts[i], End: pts[i+1]})
		}
	}
	return edges
}

func (c *converter) segEdges(index int) ([]level.Edge, *level.Sector, error) {
	ss := c.src.Subsectors[index]
	var edges []level.Edge
	var sector *level.Sector
	for _, s := range c.src.Segs[ss.First : ss.First+ss.Count] {
		line := c.lines[s.Line]
		side := line.Front
		if s.Back {
			if line.Back == nil {
				return nil, nil, errors.Errorf("subsector %d: seg on the missing back of line %d", index, s.Line)
			}
			side = line.Back
		}
		if sector == nil {
			sector = side.Sector
		}
		a, b := c.src.Vertexes[s.Start], c.src.Vertexes[s.End]
		edges = append(edges, level.Edge{Start: vec.Vec2{X: a.X, Y: a.Y}, End: vec.Vec2{X: b.X, Y: b.Y}, Side: side})
	}
	return edges, sector, nil
}

// leafEdges merges the segs of a subsector with the polygon the node
// partitions leave for it.
func (c *converter) leafEdges(index int, poly []vec.Vec2) ([]level.Edge, *level.Sector, error) {
	segs, sector, err := c.segEdges(index)
	if err != nil {
		return nil, nil, err
	}
	if len(poly) < 3 {
		return segs, sector, nil
	}
	var edges []level.Edge
	for i, e := range segs {
		edges = append(edges, e)
		next := segs[(i+1)%len(segs)].Start
		if !near(e.End, next) {
			edges = append(edges, gap(poly, e.End, next)...)
		}
	}
	return edges, sector, nil
}

// subsectors creates all leaves by walking the node tree.
func (c *converter) subsectors() ([]*level.Subsector, error) {
	out := make([]*level.Subsector, len(c.src.Subsectors))
	leaf := func(index int, poly []vec.Vec2) error {
		if index >= len(out) {
			return errors.Errorf("subsector %d out of range", index)
		}
		if out[index] != nil {
			return errors.Errorf("subsector %d is referenced twice", index)
		}
		edges, sector, err := c.leafEdges(index, poly)
		if err != nil {
			return err
		}
		out[index] = c.b.Subsector(sector, edges...)
		return nil
	}

	if len(c.src.Nodes) == 0 {
		if len(c.src.Subsectors) != 1 {
			return nil, errors.Errorf("%d subsectors without nodes", len(c.src.Subsectors))
		}
		return out, leaf(0, nil)
	}

	var walk func(node int, parts []partition, depth int) error
	walk = func(node int, parts []partition, depth int) error {
		if depth > len(c.src.Nodes) {
			return errors.Errorf("node %d: loop in the node tree", node)
		}
		n := c.src.Nodes[node]
		splitter := vec.Segment{Start: vec.Vec2{X: n.X, Y: n.Y}, End: vec.Vec2{X: n.X + n.DX, Y: n.Y + n.DY}}
		if splitter.Length() == 0 {
			return errors.Errorf("node %d has an empty partition", node)
		}
		for child := range 2 {
			p := append(parts[:len(parts):len(parts)], partition{splitter: splitter, right: child == 0})
			if !n.Leaf[child] {
				if err := walk(n.Children[child], p, depth+1); err != nil {
					return err
				}
				continue
			}
			b := n.Boxes[child]
			box := vec.Box{
				Min: vec.Vec2{X: b.Left - 1, Y: b.Bottom - 1},
				Max: vec.Vec2{X: b.Right + 1, Y: b.Top + 1},
			}
			poly := boxPolygon(box)
			for _, part := range p {
				if poly = clip(poly, part); len(poly) < 3 {
					break
				}
			}
			if err := leaf(n.Children[child], poly); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(len(c.src.Nodes)-1, nil, 0); err != nil {
		return nil, err
	}
	for i, ss := range out {
		if ss == nil {
			return nil, errors.Errorf("subsector %d is not in the node tree", i)
		}
	}
	return out, nil
}

// tree mirrors the node lump as a bsp.Tree.
func (c *converter) tree(subsectors []*level.Subsector) (*bsp.Tree, error) {
	if len(c.src.Nodes) == 0 {
		return bsp.New(&bsp.Leaf{Subsector: subsectors[0]})
	}
	var build func(node int) bsp.Element
	build = func(node int) bsp.Element {
		n := c.src.Nodes[node]
		var children [2]bsp.Element
		for i := range 2 {
			if n.Leaf[i] {
				children[i] = &bsp.Leaf{Subsector: subsectors[n.Children[i]]}
			} else {
				children[i] = build(n.Children[i])
			}
		}
		splitter := vec.Segment{Start: vec.Vec2{X: n.X, Y: n.Y}, End: vec.Vec2{X: n.X + n.DX, Y: n.Y + n.DY}}
		return bsp.NewNode(splitter, children[0], children[1])
	}
	return bsp.New(build(len(c.src.Nodes) - 1))
}
