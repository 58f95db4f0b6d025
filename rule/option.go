package rule

import (
	"github.com/ava12/pcomb/reader"
)

// Opt makes inner optional: if inner matches, its arguments are
// appended as usual; otherwise Opt succeeds without consuming input and
// appends a single nil in place of inner's arguments. Opt is always an unconditional branch — it never
// fails — so it is safe as the last alternative of a Choice, or as the
// last element of a list-like construct that must not block
// termination (spec §4.E, `opt_`).
func Opt(inner Rule) Rule {
	return &optRule{inner: asBranch(inner)}
}

type optRule struct {
	inner branch
}

func (o *optRule) IsBranch() bool              { return true }
func (o *optRule) IsUnconditionalBranch() bool { return true }

func (o *optRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	return runBranch(o, ctx, r, args)
}

func (o *optRule) tryParse(ctx *Context, r *reader.Reader) (any, bool) {
	ctx.beginSpeculative()
	state, ok := o.inner.tryParse(ctx, r)
	ctx.endSpeculative()
	if !ok {
		o.inner.cancel(ctx, state)
		return optAbsent{}, true
	}
	return state, true
}

// optAbsent is the state tryParse records when inner did not match; a
// matching inner branch (Brackets) may itself use a nil state.
type optAbsent struct{}

func (o *optRule) finish(ctx *Context, r *reader.Reader, args *Args, state any) bool {
	if _, absent := state.(optAbsent); absent {
		args.Append(nil)
		return true
	}
	return o.inner.finish(ctx, r, args, state)
}

func (o *optRule) cancel(ctx *Context, state any) {}
