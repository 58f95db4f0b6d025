// Package tree is a generic, walkable parse-tree representation:
// productions that want a tree rather than a custom value can use
// TreeSink as their sink and get Node/NonTermNode for free.
package tree

import (
	"fmt"

	"github.com/ava12/pcomb/reader"
	"github.com/ava12/pcomb/sink"
)

// Node is one tree element: either a leaf (a produced argument that
// isn't itself a tree) or a non-terminal holding children.
type Node interface {
	IsNonTerm() bool
	TypeName() string
	Value() any
	Parent() NonTermNode
	Prev() Node
	Next() Node
	SetParent(NonTermNode)
	SetPrev(Node)
	SetNext(Node)
	Pos() reader.Marker
}

// NonTermNode is a Node with children.
type NonTermNode interface {
	Node
	FirstChild() Node
	LastChild() Node
	SetFirstChild(Node)
	AppendChild(Node)
}

func Ancestor(n Node, level int) Node {
	for n != nil && level >= 0 {
		n = n.Parent()
		level--
	}
	return n
}

func NodeLevel(n Node) (l int) {
	if n == nil {
		return
	}
	p := n.Parent()
	for p != nil {
		l++
		p = p.Parent()
	}
	return
}

func SiblingIndex(n Node) (i int) {
	if n == nil {
		return
	}
	p := n.Prev()
	for p != nil {
		i++
		p = p.Prev()
	}
	return
}

func NthChild(n Node, i int) Node {
	if n == nil || !n.IsNonTerm() {
		return nil
	}

	nn := n.(NonTermNode)
	var c Node
	if i >= 0 {
		c = nn.FirstChild()
		for c != nil && i > 0 {
			c = c.Next()
			i--
		}
	} else {
		i++
		c = nn.LastChild()
		for c != nil && i < 0 {
			c = c.Prev()
			i++
		}
	}
	return c
}

func NthSibling(n Node, i int) Node {
	if i < 0 {
		for n != nil && i < 0 {
			n = n.Prev()
			i++
		}
	} else {
		for n != nil && i > 0 {
			n = n.Next()
			i--
		}
	}
	return n
}

const AllLevels = -1

func NumOfChildren(parent Node, levels int) int {
	if parent == nil || !parent.IsNonTerm() {
		return 0
	}

	c := parent.(NonTermNode).FirstChild()
	i := 0
	for c != nil {
		i++
		if levels != 0 {
			i += NumOfChildren(c, levels-1)
		}
		c = c.Next()
	}
	return i
}

func FirstLeaf(n Node) Node {
	if n == nil || !n.IsNonTerm() {
		return n
	}

	n = n.(NonTermNode).FirstChild()
	for n != nil && n.IsNonTerm() {
		nn := FirstLeaf(n)
		if nn != nil {
			return nn
		}
		n = n.Next()
	}
	return n
}

func LastLeaf(n Node) Node {
	if n == nil || !n.IsNonTerm() {
		return n
	}

	n = n.(NonTermNode).LastChild()
	for n != nil && n.IsNonTerm() {
		nn := LastLeaf(n)
		if nn != nil {
			return nn
		}
		n = n.Prev()
	}
	return n
}

func NextLeaf(n Node) Node {
	if n == nil {
		return nil
	}
	nn := n.Next()
	for nn == nil {
		n = n.Parent()
		if n == nil {
			return nil
		}
		nn = n.Next()
	}
	return FirstLeaf(nn)
}

func PrevLeaf(n Node) Node {
	if n == nil {
		return nil
	}
	nn := n.Prev()
	for nn == nil {
		n = n.Parent()
		if n == nil {
			return nil
		}
		nn = n.Prev()
	}
	return LastLeaf(nn)
}

func Children(n Node) []Node {
	if n == nil || !n.IsNonTerm() {
		return nil
	}

	res := make([]Node, 0)
	c := n.(NonTermNode).FirstChild()
	for c != nil {
		res = append(res, c)
		c = c.Next()
	}
	return res
}

func Detach(n Node) {
	if n == nil || n.Parent() == nil {
		return
	}

	np := n.Prev()
	nn := n.Next()

	if np == nil {
		p := n.Parent()
		if p != nil {
			p.SetFirstChild(nn)
		}
	} else {
		np.SetNext(nn)
		n.SetPrev(nil)
	}
	if nn != nil {
		nn.SetPrev(np)
		n.SetNext(nil)
	}
	n.SetParent(nil)
}

func Replace(old, n Node) {
	if n == nil || old == nil {
		Detach(old)
		return
	}

	pa := old.Parent()
	pr := old.Prev()
	ne := old.Next()
	Detach(old)
	Detach(n)
	if pr != nil {
		AppendSibling(pr, n)
	} else if ne != nil {
		PrependSibling(ne, n)
	} else {
		n.SetParent(pa)
		pa.SetFirstChild(n)
	}
}

func AppendSibling(prev, node Node) {
	if node == nil || prev == nil {
		return
	}

	Detach(node)
	next := prev.Next()
	node.SetParent(prev.Parent())
	node.SetPrev(prev)
	node.SetNext(next)
	prev.SetNext(node)
	if next != nil {
		next.SetPrev(node)
	}
}

func PrependSibling(next, node Node) {
	if node == nil || next == nil {
		return
	}

	Detach(node)
	prev := next.Prev()
	node.SetParent(next.Parent())
	node.SetPrev(prev)
	node.SetNext(next)
	next.SetPrev(node)
	if prev == nil {
		node.Parent().SetFirstChild(node)
	} else {
		prev.SetNext(node)
	}
}

func AppendChild(parent NonTermNode, node Node) {
	if parent == nil || node == nil {
		return
	}

	Detach(node)
	parent.AppendChild(node)
}

type NodeVisitor func(n Node) (walkChildren, walkSiblings bool)

type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1
)

func Walk(n Node, mode WalkMode, visitor NodeVisitor) {
	if n != nil {
		visitNode(n, visitor, (mode&WalkRtl) != 0)
	}
}

func visitNode(n Node, v NodeVisitor, rtl bool) (visitSiblings bool) {
	vc, vs := v(n)
	if vc && n.IsNonTerm() {
		if rtl {
			n = n.(NonTermNode).LastChild()
			for n != nil && vc {
				vc = visitNode(n, v, true)
				n = n.Prev()
			}
		} else {
			n = n.(NonTermNode).FirstChild()
			for n != nil && vc {
				vc = visitNode(n, v, false)
				n = n.Next()
			}
		}
	}
	return vs
}

type NodeFilter func(n Node) bool
type NodeExtractor func(n Node) []Node
type NodeSelector func(n Node) []Node

type Selector struct {
	selectors []NodeSelector
}

func NewSelector() *Selector {
	return &Selector{}
}

func (s *Selector) Apply(input ...Node) []Node {
	res := make([]Node, 0)
	index := make(map[Node]bool)
	hasTransformers := len(s.selectors) > 0

	for i, n := range input {
		if n == nil {
			continue
		}

		var ns []Node
		if hasTransformers {
			ns = selectNodes(input[i:i+1], s.selectors)
		} else {
			ns = input[i : i+1]
		}

		for _, tn := range ns {
			if !index[tn] {
				index[tn] = true
				res = append(res, tn)
			}
		}
	}
	return res
}

func selectNodes(ns []Node, nss []NodeSelector) []Node {
	res := make([]Node, 0)
	s := nss[0]
	nss = nss[1:]
	goDeeper := len(nss) > 0
	for _, n := range ns {
		if goDeeper {
			res = append(res, selectNodes(s(n), nss)...)
		} else {
			res = append(res, s(n)...)
		}
	}
	return res
}

func (s *Selector) Use(ns NodeSelector) *Selector {
	if ns != nil {
		s.selectors = append(s.selectors, ns)
	}
	return s
}

func (s *Selector) Filter(nf NodeFilter) *Selector {
	return s.Use(func(n Node) []Node {
		if nf(n) {
			return []Node{n}
		}
		return nil
	})
}

func (s *Selector) Extract(ne NodeExtractor) *Selector {
	return s.Use(func(n Node) []Node { return ne(n) })
}

func (s *Selector) Search(nf NodeFilter, deepSearch bool) *Selector {
	return s.Use(func(n Node) []Node {
		res := make([]Node, 0)
		visitNode(n, func(nn Node) (vc, vs bool) {
			if nf(nn) {
				res = append(res, nn)
				return deepSearch, true
			}
			return true, true
		}, false)
		return res
	})
}

func IsNot(f NodeFilter) NodeFilter {
	return func(n Node) bool { return !f(n) }
}

func IsAny(fs ...NodeFilter) NodeFilter {
	return func(n Node) bool {
		for _, f := range fs {
			if f(n) {
				return true
			}
		}
		return false
	}
}

func IsAll(fs ...NodeFilter) NodeFilter {
	return func(n Node) bool {
		for _, f := range fs {
			if !f(n) {
				return false
			}
		}
		return true
	}
}

func IsA(names ...string) NodeFilter {
	return func(n Node) bool {
		tn := n.TypeName()
		for _, name := range names {
			if tn == name {
				return true
			}
		}
		return false
	}
}

// IsALeafValue matches a leaf node whose Value, formatted with %v,
// equals one of texts — the tree equivalent of matching a token's
// lexeme.
func IsALeafValue(texts ...string) NodeFilter {
	return func(n Node) bool {
		if n.IsNonTerm() {
			return false
		}
		v := fmt.Sprintf("%v", n.Value())
		for _, text := range texts {
			if text == v {
				return true
			}
		}
		return false
	}
}

func Any(nss ...NodeExtractor) NodeExtractor {
	return func(n Node) (res []Node) {
		for _, ns := range nss {
			res = ns(n)
			if len(res) > 0 {
				break
			}
		}
		return
	}
}

func All(nss ...NodeExtractor) NodeExtractor {
	return func(n Node) (res []Node) {
		for _, ns := range nss {
			res = append(res, ns(n)...)
		}
		return
	}
}

func Ancestors(levels ...int) NodeExtractor {
	return func(n Node) []Node {
		res := make([]Node, 0)
		for _, i := range levels {
			if nn := Ancestor(n, i); nn != nil {
				res = append(res, nn)
			}
		}
		return res
	}
}

func NthChildren(indexes ...int) NodeExtractor {
	return func(n Node) []Node {
		res := make([]Node, 0)
		for _, i := range indexes {
			if nn := NthChild(n, i); nn != nil {
				res = append(res, nn)
			}
		}
		return res
	}
}

func NthSiblings(indexes ...int) NodeExtractor {
	return func(n Node) []Node {
		res := make([]Node, 0)
		for _, i := range indexes {
			if nn := NthSibling(n, i); nn != nil {
				res = append(res, nn)
			}
		}
		return res
	}
}

type leafNode struct {
	parent     NonTermNode
	prev, next Node
	value      any
	pos        reader.Marker
}

// NewLeaf wraps an arbitrary produced value (not itself a Node) as a
// childless tree node.
func NewLeaf(value any, pos reader.Marker) Node {
	return &leafNode{value: value, pos: pos}
}

func (ln *leafNode) IsNonTerm() bool         { return false }
func (ln *leafNode) TypeName() string        { return fmt.Sprintf("%T", ln.value) }
func (ln *leafNode) Value() any              { return ln.value }
func (ln *leafNode) Parent() NonTermNode     { return ln.parent }
func (ln *leafNode) Prev() Node              { return ln.prev }
func (ln *leafNode) Next() Node              { return ln.next }
func (ln *leafNode) Pos() reader.Marker      { return ln.pos }
func (ln *leafNode) SetParent(p NonTermNode) { ln.parent = p }
func (ln *leafNode) SetPrev(p Node)          { ln.prev = p }
func (ln *leafNode) SetNext(n Node)          { ln.next = n }

type nonTermNode struct {
	typeName              string
	pos                   reader.Marker
	parent                NonTermNode
	prev, next            Node
	firstChild, lastChild Node
}

// NewNonTerm builds an empty non-terminal node named typeName, located
// at pos.
func NewNonTerm(typeName string, pos reader.Marker) NonTermNode {
	return &nonTermNode{typeName: typeName, pos: pos}
}

func (ntn *nonTermNode) IsNonTerm() bool     { return true }
func (ntn *nonTermNode) TypeName() string    { return ntn.typeName }
func (ntn *nonTermNode) Value() any          { return nil }
func (ntn *nonTermNode) Parent() NonTermNode { return ntn.parent }
func (ntn *nonTermNode) FirstChild() Node    { return ntn.firstChild }
func (ntn *nonTermNode) LastChild() Node     { return ntn.lastChild }
func (ntn *nonTermNode) Prev() Node          { return ntn.prev }
func (ntn *nonTermNode) Next() Node          { return ntn.next }
func (ntn *nonTermNode) Pos() reader.Marker  { return ntn.pos }

func (ntn *nonTermNode) SetParent(p NonTermNode) { ntn.parent = p }
func (ntn *nonTermNode) SetPrev(p Node)          { ntn.prev = p }
func (ntn *nonTermNode) SetNext(n Node)          { ntn.next = n }

func (ntn *nonTermNode) SetFirstChild(c Node) {
	ntn.firstChild = c
	if ntn.lastChild == nil {
		ntn.lastChild = c
	}
	if c != nil {
		c.SetParent(ntn)
	}
}

func (ntn *nonTermNode) AppendChild(c Node) {
	if ntn.firstChild == nil {
		ntn.SetFirstChild(c)
	} else {
		AppendSibling(ntn.lastChild, c)
		ntn.lastChild = c
	}
}

// TreeSink is a sink.Sink that builds a parse tree: each Add'd value
// becomes a child of typeName's node — wrapped in a leaf if it isn't
// already a Node — and Finish returns the finished NonTermNode.
type TreeSink struct {
	node NonTermNode
}

// NewTreeSink starts an empty non-terminal node named typeName, located
// at pos.
func NewTreeSink(typeName string, pos reader.Marker) *TreeSink {
	return &TreeSink{node: NewNonTerm(typeName, pos)}
}

func (ts *TreeSink) Add(v any) {
	if n, ok := v.(Node); ok {
		ts.node.AppendChild(n)
		return
	}
	ts.node.AppendChild(NewLeaf(v, ts.node.Pos()))
}

func (ts *TreeSink) Finish(state any) any {
	return ts.node
}

var _ sink.Sink = (*TreeSink)(nil)

// CallbackTree adapts a production's flat, finished argument pack
// into a sink.Callback that builds a tree via TreeSink instead of a
// custom typed value: use it directly as a pcomb.Production's Value
// when the production's result should be this package's walkable
// Node rather than something bespoke.
func CallbackTree(typeName string) sink.Callback {
	return func(args []any, state any) any {
		ts := NewTreeSink(typeName, reader.Marker{})
		for _, a := range args {
			ts.Add(a)
		}
		return ts.Finish(state)
	}
}
