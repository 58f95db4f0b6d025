package rule

import (
	"github.com/ava12/pcomb/reader"
)

// Rule is the sealed execution unit of the engine: a token match, a
// branch, or a plain rule built from combinators. Grammars never
// implement Rule directly — every concrete rule is produced by a
// constructor in this package (Lit, Seq, Choice, ...) and held as this
// interface.
type Rule interface {
	// IsBranch reports whether the rule commits via try/finish/cancel
	// rather than running unconditionally.
	IsBranch() bool

	// IsUnconditionalBranch reports whether a branch rule's try phase
	// always succeeds (e.g. an opt_ or a default alternative), making
	// it a safe catch-all in a choice.
	IsUnconditionalBranch() bool

	run(ctx *Context, r *reader.Reader, args *Args) bool
}

// failer is implemented by rules that need to report a structured
// error when a required occurrence of them fails to match — tokens,
// principally. Branch and composite rules report their own errors
// internally (wrong-alternative, unterminated-list, ...) and need not
// implement this.
type failer interface {
	reportFailure(ctx *Context, r *reader.Reader)
}

func reportFailure(rl Rule, ctx *Context, r *reader.Reader) {
	if ctx.speculative > 0 {
		return
	}
	if f, ok := rl.(failer); ok {
		f.reportFailure(ctx, r)
	}
}

// branch is the three-phase protocol a branch rule exposes to Choice:
// tryParse decides (and, on success, irrevocably commits to) this
// alternative, returning opaque state to thread through to finish or
// cancel; finish runs its body; cancel releases anything tryParse set
// up when it is not going to be used after all.
//
// State is threaded explicitly rather than stored on the rule value
// because rule values are shared and can be active at more than one
// call depth at once in a recursive grammar (a production that refers
// to itself, directly or through a cycle of other productions) — a
// branch rule must not keep any per-attempt state in its own fields.
type branch interface {
	Rule
	tryParse(ctx *Context, r *reader.Reader) (state any, ok bool)
	finish(ctx *Context, r *reader.Reader, args *Args, state any) bool
	cancel(ctx *Context, state any)
}

// asBranch adapts any Rule to the branch protocol. Rules that are
// already branches are returned unchanged; everything else (tokens,
// plain rules) is wrapped so a single tryParse attempt runs it to
// completion on the reader it is given. Token rules restore the reader
// when they fail, but some plain rules (Find, Terminator, Quoted past
// its opening quote) can fail with the reader advanced; Choice and
// Terminator therefore hand tryParse a copy. A failed tryParse leaves
// nothing to cancel, and a successful one leaves finish only the
// buffered arguments to append.
func asBranch(rl Rule) branch {
	if b, ok := rl.(branch); ok {
		return b
	}
	return plainBranch{inner: rl}
}

type plainBranch struct {
	inner Rule
}

func (p plainBranch) IsBranch() bool              { return true }
func (p plainBranch) IsUnconditionalBranch() bool { return p.inner.IsUnconditionalBranch() }

func (p plainBranch) run(ctx *Context, r *reader.Reader, args *Args) bool {
	return p.inner.run(ctx, r, args)
}

func (p plainBranch) tryParse(ctx *Context, r *reader.Reader) (any, bool) {
	var pending Args
	ok := p.inner.run(ctx, r, &pending)
	return &pending, ok
}

func (p plainBranch) finish(ctx *Context, r *reader.Reader, args *Args, state any) bool {
	args.Append(state.(*Args).Values()...)
	return true
}

func (p plainBranch) cancel(ctx *Context, state any) {}

// Run executes rl at r's current position on ctx's behalf, appending
// any produced arguments to args. It is the only way code outside this
// package can execute a Rule value — package scanner and the
// top-level production actions use it as their entry point into the
// engine.
func Run(rl Rule, ctx *Context, r *reader.Reader, args *Args) bool {
	return rl.run(ctx, r, args)
}

// runBranch runs a branch rule's full try/finish/cancel protocol as a
// single unconditional step, for use from contexts (Seq, the top level
// of a production) that don't need Choice's multi-candidate handling.
func runBranch(b branch, ctx *Context, r *reader.Reader, args *Args) bool {
	state, ok := b.tryParse(ctx, r)
	if !ok {
		b.cancel(ctx, state)
		return false
	}
	return b.finish(ctx, r, args, state)
}
