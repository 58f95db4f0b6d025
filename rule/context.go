// Package rule implements the rule-execution protocol: sequential and
// branch parser chains, and the combinators (choice, option, loop,
// try/recover, whitespace) built on top of them.
package rule

import (
	"github.com/ava12/pcomb/reader"
)

// TokenKind classifies a token event emitted on a successful token
// match.
type TokenKind int

const (
	KindUnknown TokenKind = iota
	KindWhitespace
	KindPosition
	KindEOF
	KindEOL
	KindIdentifier
	KindLiteral
	// KindUser is the first value available to grammar authors for
	// their own token kinds (KindUser, KindUser+1, ...).
	KindUser
)

// EventHandler receives structured events as a parse proceeds. The
// rules and drivers in this module report errors (HandleError) and
// successful token matches (HandleToken); none of them calls
// HandleProductionBegin, HandleProductionEnd or HandleDebug.
// A handler must be reentrant across nested productions — the engine
// is single-threaded, but productions nest.
type EventHandler interface {
	HandleError(production string, err error)
	HandleToken(kind TokenKind, lexeme string, pos reader.Marker)
	HandleProductionBegin(name string, pos reader.Marker)
	HandleProductionEnd(name string, pos reader.Marker)
	HandleDebug(msg string, pos reader.Marker)
}

// NopHandler discards every event; the zero value is ready to use.
type NopHandler struct{}

func (NopHandler) HandleError(string, error)                   {}
func (NopHandler) HandleToken(TokenKind, string, reader.Marker) {}
func (NopHandler) HandleProductionBegin(string, reader.Marker)  {}
func (NopHandler) HandleProductionEnd(string, reader.Marker)    {}
func (NopHandler) HandleDebug(string, reader.Marker)            {}

type ctxVar struct {
	key, val any
}

// Context is the per-parse-action control block: the ambient parse
// state, the event handler, the active whitespace rule, and a stack of
// context variables visible to the production that pushed them and its
// descendants.
type Context struct {
	// State is the user-supplied parse state, or nil.
	State any

	Handler EventHandler

	ws           Rule
	wsSuppressed bool
	inWhitespace bool
	tokenProd    bool
	speculative  int

	vars []ctxVar
}

// beginSpeculative/endSpeculative bracket an attempt whose failure
// must stay silent — Choice trying one alternative among several. Any
// rule that fails while speculative>0 must not report an error,
// because failing to match is exactly how a non-chosen alternative is
// expected to behave.
func (c *Context) beginSpeculative() { c.speculative++ }
func (c *Context) endSpeculative()   { c.speculative-- }

// NewContext builds a Context over state, reporting events to handler.
// A nil handler is replaced with NopHandler.
func NewContext(state any, handler EventHandler) *Context {
	if handler == nil {
		handler = NopHandler{}
	}
	return &Context{State: state, Handler: handler}
}

// PushVar makes val visible under key to this production's descendants
// until PopVar is called. Values survive across rule invocations within
// the production that pushed them (spec §3, Context variables).
func (c *Context) PushVar(key, val any) {
	c.vars = append(c.vars, ctxVar{key, val})
}

// PopVar destroys the most recently pushed context variable.
func (c *Context) PopVar() {
	c.vars = c.vars[:len(c.vars)-1]
}

// Var looks up the nearest-pushed context variable for key.
func (c *Context) Var(key any) (any, bool) {
	for i := len(c.vars) - 1; i >= 0; i-- {
		if c.vars[i].key == key {
			return c.vars[i].val, true
		}
	}
	return nil, false
}

func (c *Context) reportError(production string, err error) {
	if c.speculative > 0 {
		return
	}
	c.Handler.HandleError(production, err)
}

// Args is the ordered, append-only argument pack produced while a
// rule chain runs. Every rule along the chain appends zero or more
// arguments; the production's value callback/sink receives the
// completed pack.
type Args struct {
	vals []any
}

// Append adds values to the pack, in order.
func (a *Args) Append(v ...any) {
	a.vals = append(a.vals, v...)
}

// Values returns the accumulated argument pack.
func (a *Args) Values() []any {
	return a.vals
}

// Len reports how many arguments have been produced so far.
func (a *Args) Len() int {
	return len(a.vals)
}

// Truncate discards every argument past index n, used by Try to undo
// a failed attempt's partial output.
func (a *Args) Truncate(n int) {
	a.vals = a.vals[:n]
}
