package rule

import (
	"github.com/ava12/pcomb/reader"
)

// Try runs inner and, if it fails after having partially consumed
// input or produced arguments, undoes both — turning a hard,
// mid-sequence failure back into an ordinary soft failure the caller
// can backtrack from (spec §4.E, `try_`). Without Try, only a rule's
// own first element gets this treatment automatically (the branch
// protocol); Try extends it to an arbitrary sub-rule.
func Try(inner Rule) Rule {
	return &tryRule{inner: inner}
}

type tryRule struct {
	inner Rule
}

func (t *tryRule) IsBranch() bool              { return false }
func (t *tryRule) IsUnconditionalBranch() bool { return false }

func (t *tryRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	start := r.Marker()
	argStart := args.Len()
	ctx.beginSpeculative()
	ok := t.inner.run(ctx, r, args)
	ctx.endSpeculative()
	if !ok {
		r.Reset(start)
		args.Truncate(argStart)
	}
	return ok
}

// Find advances r one unit at a time, without appending any arguments,
// until sync's lookahead matches — a synchronization scan used to
// resume parsing after an error. It fails if input runs out first, or
// if one of limits matches before sync does: a limit token marks a
// boundary (typically an enclosing delimiter) recovery must not scan
// past, so Find surrenders at the limit without consuming it rather
// than scanning into the next region looking for sync (spec §4.E,
// `recover(t…).limit(l…)`, Testable Property 8).
func Find(sync Rule, limits ...Rule) Rule {
	bs := make([]branch, len(limits))
	for i, l := range limits {
		bs[i] = asBranch(l)
	}
	return &findRule{sync: asBranch(sync), limits: bs}
}

type findRule struct {
	sync   branch
	limits []branch
}

func (f *findRule) IsBranch() bool              { return false }
func (f *findRule) IsUnconditionalBranch() bool { return false }

func (f *findRule) lookahead(ctx *Context, r *reader.Reader, b branch) bool {
	trial := *r
	ctx.beginSpeculative()
	state, ok := b.tryParse(ctx, &trial)
	ctx.endSpeculative()
	b.cancel(ctx, state)
	return ok
}

func (f *findRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	for {
		if f.lookahead(ctx, r, f.sync) {
			return true
		}
		for _, limit := range f.limits {
			if f.lookahead(ctx, r, limit) {
				return false
			}
		}
		if r.IsEOF() {
			return false
		}
		r.Bump()
	}
}

// Recover runs body; on failure, it reports body's error (exactly as
// an unwrapped body would have) and then scans forward to sync via
// Find, surrendering at whichever of limits is reached first without
// consuming it, but always succeeds itself — the scanner-level
// "recovering" state expressed as a rule, letting a production keep
// going instead of aborting at the first error (spec §4.I).
func Recover(body, sync Rule, limits ...Rule) Rule {
	return &recoverRule{body: body, sync: sync, limits: limits}
}

type recoverRule struct {
	body, sync Rule
	limits     []Rule
}

func (rec *recoverRule) IsBranch() bool              { return false }
func (rec *recoverRule) IsUnconditionalBranch() bool { return true }

func (rec *recoverRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	start := r.Marker()
	if rec.body.run(ctx, r, args) {
		return true
	}
	r.Reset(start)
	reportFailure(rec.body, ctx, r)
	Find(rec.sync, rec.limits...).run(ctx, r, &Args{})
	return true
}

// Limit caps how many times inner may be (re-)entered along one
// recursive descent path before the engine gives up with
// ErrRecursionLimit, guarding left-recursive-looking grammars from
// looping forever. Depth is tracked per parse via a context variable
// keyed by the limitRule itself, so the same Limit value is safely
// reentrant across recursive productions.
func Limit(n int, inner Rule) Rule {
	return &limitRule{inner: inner, max: n}
}

type limitRule struct {
	inner Rule
	max   int
}

func (l *limitRule) IsBranch() bool              { return false }
func (l *limitRule) IsUnconditionalBranch() bool { return false }

func (l *limitRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	depth := 0
	if v, ok := ctx.Var(l); ok {
		depth = v.(int)
	}
	if depth >= l.max {
		ctx.reportError("", recursionLimitError(r, l.max))
		return false
	}
	ctx.PushVar(l, depth+1)
	ok := l.inner.run(ctx, r, args)
	ctx.PopVar()
	return ok
}
