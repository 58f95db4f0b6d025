package rule

import (
	"github.com/ava12/pcomb/reader"
)

// Peek succeeds exactly when inner would, but never consumes input or
// appends arguments either way — a pure lookahead condition (spec
// §4.E, `peek`).
func Peek(inner Rule) Rule {
	return &peekRule{inner: asBranch(inner), negate: false}
}

// PeekNot succeeds exactly when inner would not, never consuming
// input (`peek_not`).
func PeekNot(inner Rule) Rule {
	return &peekRule{inner: asBranch(inner), negate: true}
}

type peekRule struct {
	inner  branch
	negate bool
}

func (p *peekRule) IsBranch() bool              { return false }
func (p *peekRule) IsUnconditionalBranch() bool { return false }

func (p *peekRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	trial := *r
	ctx.beginSpeculative()
	state, ok := p.inner.tryParse(ctx, &trial)
	ctx.endSpeculative()
	p.inner.cancel(ctx, state)
	return ok != p.negate
}

func (p *peekRule) reportFailure(ctx *Context, r *reader.Reader) {
	if p.negate {
		ctx.reportError("", unexpectedError(r, "not to find the forbidden input"))
	} else {
		ctx.reportError("", unexpectedError(r, "lookahead to match"))
	}
}
