package rule

import (
	"github.com/ava12/pcomb/reader"
)

// IdentTail is the default tail class used by Identifier when callers
// don't need anything unusual: letters, digits, and underscore.
var IdentTail CharClass = Union(AsciiAlnum, Single('_'))

// Identifier matches head followed by zero or more tail, appending the
// whole matched text as a string — the `identifier(head, tail)`
// production.
func Identifier(head, tail CharClass) Rule {
	return &identRule{head: head, tail: tail}
}

type identRule struct {
	head, tail CharClass
}

func (id *identRule) IsBranch() bool              { return false }
func (id *identRule) IsUnconditionalBranch() bool { return false }

func (id *identRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	start := r.Marker()
	rn, result, width := r.DecodeRune()
	if result != reader.DecodeOK || !id.head(rn) {
		r.Reset(start)
		return false
	}
	var buf []byte
	buf = append(buf, []byte(string(rn))...)
	r.Advance(width)

	for {
		rn, result, width = r.DecodeRune()
		if result != reader.DecodeOK || !id.tail(rn) {
			break
		}
		buf = append(buf, []byte(string(rn))...)
		r.Advance(width)
	}

	ctx.Handler.HandleToken(KindIdentifier, string(buf), start)
	args.Append(string(buf))
	return true
}

func (id *identRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("identifier", unexpectedError(r, "an identifier"))
}

// Symbol interns the identifier matched by Identifier(head, tail)
// through table, so that repeated occurrences of the same name across
// a parse share one value — the `symbol<table>` production. table is
// typically a *SymbolTable shared across one parse via Context.State
// or a context variable.
func Symbol(head, tail CharClass, table *SymbolTable) Rule {
	return &symbolRule{ident: &identRule{head: head, tail: tail}, table: table}
}

type symbolRule struct {
	ident *identRule
	table *SymbolTable
}

func (s *symbolRule) IsBranch() bool              { return false }
func (s *symbolRule) IsUnconditionalBranch() bool { return false }

func (s *symbolRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	var sub Args
	if !s.ident.run(ctx, r, &sub) {
		return false
	}
	name := sub.Values()[0].(string)
	args.Append(s.table.Intern(name))
	return true
}

func (s *symbolRule) reportFailure(ctx *Context, r *reader.Reader) {
	s.ident.reportFailure(ctx, r)
}

// SymbolTable interns identifier strings to small integer ids, so
// parsers can compare symbols by id instead of by string.
type SymbolTable struct {
	ids   map[string]int
	names []string
}

// NewSymbolTable builds an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{ids: make(map[string]int)}
}

// Intern returns name's id, assigning a new one the first time name is seen.
func (t *SymbolTable) Intern(name string) int {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := len(t.names)
	t.ids[name] = id
	t.names = append(t.names, name)
	return id
}

// Name returns the string a previously interned id stands for.
func (t *SymbolTable) Name(id int) string {
	return t.names[id]
}
