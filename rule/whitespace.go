package rule

import (
	"github.com/ava12/pcomb/reader"
)

// skipWhitespace runs the context's active whitespace rule repeatedly,
// before every token match, until it stops matching — so a whitespace
// rule only needs to describe one unit of whitespace (one space, one
// comment) and a run of several is skipped in full. The inWhitespace
// guard makes this re-entrant-safe: the whitespace rule itself is
// built from token rules, and without the guard it would try to skip
// whitespace before its own tokens, recursing forever. wsSuppressed
// and tokenProd additionally let a production (e.g. inside a quoted
// string, or one declared with TokenProduction) turn skipping off for
// its own duration.
func skipWhitespace(ctx *Context, r *reader.Reader) {
	if ctx.ws == nil || ctx.inWhitespace || ctx.wsSuppressed || ctx.tokenProd {
		return
	}
	ctx.inWhitespace = true
	for {
		start := r.Marker()
		var discard Args
		if !ctx.ws.run(ctx, r, &discard) || r.Marker() == start {
			r.Reset(start)
			break
		}
	}
	ctx.inWhitespace = false
}

// WithWhitespace runs inner with ws installed as the active whitespace
// rule for its duration, restoring whatever was active before. This is
// how a production declares its Whitespace rule (spec §4.F): the
// production's entry point wraps its root rule in WithWhitespace before
// running it.
func WithWhitespace(ws Rule, inner Rule) Rule {
	return &wsScopeRule{ws: ws, inner: inner}
}

type wsScopeRule struct {
	ws, inner Rule
}

func (w *wsScopeRule) IsBranch() bool              { return w.inner.IsBranch() }
func (w *wsScopeRule) IsUnconditionalBranch() bool { return w.inner.IsUnconditionalBranch() }

func (w *wsScopeRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	prev := ctx.ws
	ctx.ws = w.ws
	ok := w.inner.run(ctx, r, args)
	ctx.ws = prev
	return ok
}

// NoWhitespace runs inner with whitespace skipping suspended, for
// productions (quoted strings, raw blocks) where internal spacing is
// significant.
func NoWhitespace(inner Rule) Rule {
	return &noWsRule{inner: inner}
}

type noWsRule struct {
	inner Rule
}

func (n *noWsRule) IsBranch() bool              { return n.inner.IsBranch() }
func (n *noWsRule) IsUnconditionalBranch() bool { return n.inner.IsUnconditionalBranch() }

func (n *noWsRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	prev := ctx.wsSuppressed
	ctx.wsSuppressed = true
	ok := n.inner.run(ctx, r, args)
	ctx.wsSuppressed = prev
	return ok
}

// TokenProduction marks inner as a token production: one whose whole
// body is lexical, so whitespace is never skipped anywhere inside it
// even if the enclosing grammar has an active whitespace rule (spec
// §4.F, token_production). It has the same effect as NoWhitespace but
// sets its own flag; like NoWhitespace, it is not undone by a nested
// WithWhitespace, which only replaces the active whitespace rule.
func TokenProduction(inner Rule) Rule {
	return &tokenProdRule{inner: inner}
}

type tokenProdRule struct {
	inner Rule
}

func (t *tokenProdRule) IsBranch() bool              { return t.inner.IsBranch() }
func (t *tokenProdRule) IsUnconditionalBranch() bool { return t.inner.IsUnconditionalBranch() }

func (t *tokenProdRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	prev := ctx.tokenProd
	ctx.tokenProd = true
	ok := t.inner.run(ctx, r, args)
	ctx.tokenProd = prev
	return ok
}
