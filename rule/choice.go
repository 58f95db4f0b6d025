package rule

import (
	"github.com/ava12/pcomb/reader"
)

// Choice tries each alternative in order on an independent reader
// copy, committing to the first whose tryParse succeeds and running
// its finish on the real reader; alternatives that don't commit are
// cancelled and never touch the real reader or argument pack (spec
// §4.D/§4.E, the `|` operator).
//
// If every alternative fails, Choice reports ErrExhaustedChoice. When
// any alternative is an unconditional branch (Opt, Nothing, Recover),
// that alternative always commits once it is reached, so Choice never
// actually runs out.
func Choice(alternatives ...Rule) Rule {
	if len(alternatives) == 0 {
		panic("rule: Choice requires at least one alternative")
	}
	branches := make([]branch, len(alternatives))
	for i, a := range alternatives {
		branches[i] = asBranch(a)
	}
	return &choiceRule{alts: branches}
}

type choiceRule struct {
	alts []branch
}

func (c *choiceRule) IsBranch() bool { return true }

func (c *choiceRule) IsUnconditionalBranch() bool {
	for _, alt := range c.alts {
		if alt.IsUnconditionalBranch() {
			return true
		}
	}
	return false
}

func (c *choiceRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	return runBranch(c, ctx, r, args)
}

type choiceState struct {
	winner branch
	state  any
}

func (c *choiceRule) tryParse(ctx *Context, r *reader.Reader) (any, bool) {
	for i, alt := range c.alts {
		trial := *r
		ctx.beginSpeculative()
		state, ok := alt.tryParse(ctx, &trial)
		ctx.endSpeculative()
		if ok {
			*r = trial
			return &choiceState{winner: alt, state: state}, true
		}
		alt.cancel(ctx, state)
		_ = i
	}
	reportFailure(c, ctx, r)
	return nil, false
}

func (c *choiceRule) finish(ctx *Context, r *reader.Reader, args *Args, state any) bool {
	cs := state.(*choiceState)
	return cs.winner.finish(ctx, r, args, cs.state)
}

func (c *choiceRule) cancel(ctx *Context, state any) {}

func (c *choiceRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("", exhaustedChoiceError(r))
}

// Branch builds a two-phase branch rule out of a condition and a body:
// the condition is tried first (as Seq's head would be), and once it
// matches, the branch has committed — a subsequent failure in body is
// a hard failure of the enclosing construct, not a reason to try the
// next Choice alternative. This is the `>>` operator.
func Branch(condition, body Rule) Rule {
	return Seq(condition, body)
}
