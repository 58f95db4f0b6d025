package rule

import (
	"github.com/ava12/pcomb/reader"
)

// Seq runs rules in order, each appending to the shared argument pack.
// The first rule is the sequence's condition: a sequence is itself a
// branch rule whose tryParse is the first sub-rule and whose finish
// runs the rest, so a Seq used as a Choice alternative only commits
// once its first element has matched (spec §3, the `+` operator /
// §4.D).
//
// A failure anywhere past the first element is a hard failure of the
// whole sequence (no backtracking within it) — that is what Try exists
// to override.
func Seq(rules ...Rule) Rule {
	if len(rules) == 0 {
		panic("rule: Seq requires at least one rule")
	}
	return &seqRule{rules: rules}
}

type seqRule struct {
	rules []Rule
}

func (s *seqRule) IsBranch() bool              { return true }
func (s *seqRule) IsUnconditionalBranch() bool { return s.rules[0].IsUnconditionalBranch() }

func (s *seqRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	return runBranch(s, ctx, r, args)
}

func (s *seqRule) tryParse(ctx *Context, r *reader.Reader) (any, bool) {
	head := &Args{}
	ok := s.rules[0].run(ctx, r, head)
	if !ok {
		reportFailure(s.rules[0], ctx, r)
		return head, false
	}
	return head, true
}

func (s *seqRule) finish(ctx *Context, r *reader.Reader, args *Args, state any) bool {
	args.Append(state.(*Args).Values()...)
	for _, rl := range s.rules[1:] {
		if !rl.run(ctx, r, args) {
			reportFailure(rl, ctx, r)
			return false
		}
	}
	return true
}

func (s *seqRule) cancel(ctx *Context, state any) {}
