package tree

import (
	"testing"

	"github.com/ava12/pcomb/reader"
)

func leaf(v any) Node { return NewLeaf(v, reader.Marker{}) }

func TestTreeSinkBuildsChildren(t *testing.T) {
	s := NewTreeSink("sum", reader.Marker{})
	s.Add(1)
	s.Add("+")
	s.Add(2)
	node := s.Finish(nil).(NonTermNode)

	if node.TypeName() != "sum" {
		t.Fatalf("TypeName() = %q; want \"sum\"", node.TypeName())
	}
	kids := Children(node)
	if len(kids) != 3 {
		t.Fatalf("len(Children()) = %d; want 3", len(kids))
	}
	if kids[0].Value() != 1 || kids[1].Value() != "+" || kids[2].Value() != 2 {
		t.Fatalf("children values = %v, %v, %v", kids[0].Value(), kids[1].Value(), kids[2].Value())
	}
}

func TestTreeSinkNestsNodeValues(t *testing.T) {
	inner := NewTreeSink("inner", reader.Marker{})
	inner.Add("x")
	innerNode := inner.Finish(nil).(Node)

	outer := NewTreeSink("outer", reader.Marker{})
	outer.Add(innerNode)
	outerNode := outer.Finish(nil).(NonTermNode)

	kids := Children(outerNode)
	if len(kids) != 1 {
		t.Fatalf("len(Children(outer)) = %d; want 1 (Add did not wrap an existing Node in a leaf)", len(kids))
	}
	child := kids[0]
	if !child.IsNonTerm() || child.TypeName() != "inner" {
		t.Fatalf("outer's child = %+v; want the inner node unwrapped", child)
	}
}

func buildTree() NonTermNode {
	root := NewNonTerm("root", reader.Marker{})
	AppendChild(root, leaf("a"))
	AppendChild(root, leaf("b"))
	AppendChild(root, leaf("c"))
	return root
}

func TestAppendChildAndNavigation(t *testing.T) {
	root := buildTree()
	if NumOfChildren(root, 0) != 3 {
		t.Fatalf("NumOfChildren = %d; want 3", NumOfChildren(root, 0))
	}
	second := NthChild(root, 1)
	if second.Value() != "b" {
		t.Fatalf("NthChild(root, 1) = %v; want \"b\"", second.Value())
	}
	if NthChild(root, -1).Value() != "c" {
		t.Fatalf("NthChild(root, -1) = %v; want \"c\" (last child)", NthChild(root, -1).Value())
	}
	if SiblingIndex(second) != 1 {
		t.Fatalf("SiblingIndex(second) = %d; want 1", SiblingIndex(second))
	}
}

func TestDetach(t *testing.T) {
	root := buildTree()
	mid := NthChild(root, 1)
	Detach(mid)

	if NumOfChildren(root, 0) != 2 {
		t.Fatalf("NumOfChildren after Detach = %d; want 2", NumOfChildren(root, 0))
	}
	if mid.Parent() != nil {
		t.Fatalf("detached node still has a parent")
	}
	first, last := NthChild(root, 0), NthChild(root, -1)
	if first.Value() != "a" || last.Value() != "c" {
		t.Fatalf("remaining children = %v, %v; want a, c", first.Value(), last.Value())
	}
	if first.Next() != last || last.Prev() != first {
		t.Fatalf("siblings not correctly relinked after Detach")
	}
}

func TestAppendSiblingAndPrependSibling(t *testing.T) {
	root := buildTree()
	a := NthChild(root, 0)
	AppendSibling(a, leaf("a2"))
	if NumOfChildren(root, 0) != 4 {
		t.Fatalf("NumOfChildren = %d; want 4", NumOfChildren(root, 0))
	}
	if NthChild(root, 1).Value() != "a2" {
		t.Fatalf("NthChild(root, 1) = %v; want \"a2\"", NthChild(root, 1).Value())
	}

	c := NthChild(root, -1)
	PrependSibling(c, leaf("b2"))
	if NthChild(root, -2).Value() != "b2" {
		t.Fatalf("NthChild(root, -2) = %v; want \"b2\"", NthChild(root, -2).Value())
	}
}

func TestFirstLeafLastLeafAcrossNesting(t *testing.T) {
	root := NewNonTerm("root", reader.Marker{})
	branch := NewNonTerm("branch", reader.Marker{})
	AppendChild(branch, leaf("x"))
	AppendChild(branch, leaf("y"))
	AppendChild(root, branch)
	AppendChild(root, leaf("z"))

	if FirstLeaf(root).Value() != "x" {
		t.Fatalf("FirstLeaf(root) = %v; want \"x\"", FirstLeaf(root).Value())
	}
	if LastLeaf(root).Value() != "z" {
		t.Fatalf("LastLeaf(root) = %v; want \"z\"", LastLeaf(root).Value())
	}
	xNode := FirstLeaf(root)
	if NextLeaf(xNode).Value() != "y" {
		t.Fatalf("NextLeaf(x) = %v; want \"y\"", NextLeaf(xNode).Value())
	}
	yNode := NextLeaf(xNode)
	if NextLeaf(yNode).Value() != "z" {
		t.Fatalf("NextLeaf(y) = %v; want \"z\" (crosses out of the nested branch)", NextLeaf(yNode).Value())
	}
}

func TestWalkVisitsInOrder(t *testing.T) {
	root := buildTree()
	var seen []any
	Walk(root, WalkLtr, func(n Node) (bool, bool) {
		seen = append(seen, n.Value())
		return true, true
	})
	// root's own Value() is nil, followed by its three leaves.
	if len(seen) != 4 {
		t.Fatalf("Walk visited %d nodes; want 4", len(seen))
	}
	if seen[1] != "a" || seen[2] != "b" || seen[3] != "c" {
		t.Fatalf("Walk order = %v; want [<nil> a b c]", seen)
	}
}

func TestSelectorFilter(t *testing.T) {
	root := buildTree()
	sel := NewSelector().Extract(func(n Node) []Node { return Children(n) }).Filter(IsALeafValue("b"))
	got := sel.Apply(root)
	if len(got) != 1 || got[0].Value() != "b" {
		t.Fatalf("Apply() = %v; want a single node with value \"b\"", got)
	}
}
