package rule

import (
	"github.com/ava12/pcomb/reader"
)

// Ref is a forward reference to a rule that hasn't been built yet —
// the mechanism for writing a recursive or mutually-recursive grammar,
// where a production's rule value needs to refer to itself (directly
// or through a cycle) before that value exists. Declare a Ref, use it
// wherever the cycle needs to close, build the real rule, then call
// Set once before running anything.
func NewRef() *Ref {
	return &Ref{}
}

type Ref struct {
	target Rule
}

// Set installs the rule a Ref stands for. It must be called exactly
// once, before the Ref (or anything built from it) is run.
func (ref *Ref) Set(target Rule) {
	ref.target = target
}

func (ref *Ref) IsBranch() bool {
	return ref.target.IsBranch()
}

func (ref *Ref) IsUnconditionalBranch() bool {
	return ref.target.IsUnconditionalBranch()
}

func (ref *Ref) run(ctx *Context, r *reader.Reader, args *Args) bool {
	return ref.target.run(ctx, r, args)
}

func (ref *Ref) tryParse(ctx *Context, r *reader.Reader) (any, bool) {
	return asBranch(ref.target).tryParse(ctx, r)
}

func (ref *Ref) finish(ctx *Context, r *reader.Reader, args *Args, state any) bool {
	return asBranch(ref.target).finish(ctx, r, args, state)
}

func (ref *Ref) cancel(ctx *Context, state any) {
	asBranch(ref.target).cancel(ctx, state)
}
