package rule

import (
	"github.com/ava12/pcomb/reader"
	"github.com/ava12/pcomb/trie"
)

// List matches one or more occurrences of item with no separator
// between them — the `list` production.
func List(item Rule) Rule {
	return &listRule{item: item, min: 1}
}

// OptList matches zero or more occurrences of item — `opt_list`.
func OptList(item Rule) Rule {
	return &listRule{item: item, min: 0}
}

type listRule struct {
	item Rule
	min  int
}

func (l *listRule) IsBranch() bool              { return l.min == 0 }
func (l *listRule) IsUnconditionalBranch() bool { return l.min == 0 }

func (l *listRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	n := 0
	for {
		start := r.Marker()
		ctx.beginSpeculative()
		ok := l.item.run(ctx, r, args)
		ctx.endSpeculative()
		if !ok {
			r.Reset(start)
			break
		}
		n++
	}
	if n < l.min {
		reportFailure(l.item, ctx, r)
		return false
	}
	return true
}

// ListSep matches item (sep item)*: at least one item, separated by
// sep, with no separator allowed after the last item — `list,sep`.
func ListSep(item, sep Rule) Rule {
	return &listSepRule{item: item, sep: sep}
}

// ListTrailingSep is ListSep but additionally accepts (and discards)
// one trailing sep after the last item — `list,trailing_sep`.
func ListTrailingSep(item, sep Rule) Rule {
	return &listSepRule{item: item, sep: sep, trailing: true}
}

type listSepRule struct {
	item, sep Rule
	trailing  bool
}

func (l *listSepRule) IsBranch() bool              { return true }
func (l *listSepRule) IsUnconditionalBranch() bool { return false }

func (l *listSepRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	return runBranch(l, ctx, r, args)
}

func (l *listSepRule) tryParse(ctx *Context, r *reader.Reader) (any, bool) {
	head := &Args{}
	if !l.item.run(ctx, r, head) {
		reportFailure(l.item, ctx, r)
		return head, false
	}
	return head, true
}

func (l *listSepRule) finish(ctx *Context, r *reader.Reader, args *Args, state any) bool {
	args.Append(state.(*Args).Values()...)
	for {
		start := r.Marker()
		ctx.beginSpeculative()
		sepOk := l.sep.run(ctx, r, args)
		ctx.endSpeculative()
		if !sepOk {
			r.Reset(start)
			return true
		}
		itemStart := r.Marker()
		if !l.item.run(ctx, r, args) {
			if l.trailing {
				r.Reset(itemStart)
				return true
			}
			ctx.reportError("", unexpectedTrailingSeparatorError(r, "separator"))
			return false
		}
	}
}

func (l *listSepRule) cancel(ctx *Context, state any) {}

// Terminator repeats body for as long as term, tried on a copy of the
// reader, does not match; once term matches, it is consumed and the
// loop ends just past it. It implements a loop bounded by a
// stop condition rather than by body's own success/failure — used for
// constructs like a statement list ended by a closing keyword rather
// than by running out of statements.
func Terminator(term, body Rule) Rule {
	return &terminatorRule{term: asBranch(term), body: body}
}

type terminatorRule struct {
	term branch
	body Rule
}

func (t *terminatorRule) IsBranch() bool              { return false }
func (t *terminatorRule) IsUnconditionalBranch() bool { return false }

func (t *terminatorRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	for {
		trial := *r
		ctx.beginSpeculative()
		state, ok := t.term.tryParse(ctx, &trial)
		ctx.endSpeculative()
		if ok {
			// Commit the trial's consumption and run the terminator's
			// finish on the real reader, so the loop ends just past the
			// terminator rather than just before it.
			*r = trial
			return t.term.finish(ctx, r, args, state)
		}
		t.term.cancel(ctx, state)
		if !t.body.run(ctx, r, args) {
			reportFailure(t.body, ctx, r)
			return false
		}
	}
}

// LineComment matches lead, then skips everything up to and including
// the next newline (or end of input) — built on Terminator so the
// terminating newline itself is consumed along with the comment body,
// rather than left for the next token to trip over.
func LineComment(lead string) Rule {
	body := Terminator(Choice(Lit("\n"), EOF()), Any())
	return Seq(Lit(lead), Func("comment", func(ctx *Context, r *reader.Reader, _ *Args) bool {
		var discard Args
		return body.run(ctx, r, &discard)
	}))
}

// Brackets matches open, then inner, then close; once open has
// matched, a missing close is a hard, reported error rather than a
// failed match — the `brackets` production.
func Brackets(open, inner, closing Rule) Rule {
	return &bracketsRule{open: open, inner: inner, closing: closing}
}

type bracketsRule struct {
	open, inner, closing Rule
}

func (b *bracketsRule) IsBranch() bool              { return true }
func (b *bracketsRule) IsUnconditionalBranch() bool { return false }

func (b *bracketsRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	return runBranch(b, ctx, r, args)
}

func (b *bracketsRule) tryParse(ctx *Context, r *reader.Reader) (any, bool) {
	ok := b.open.run(ctx, r, &Args{})
	if !ok {
		reportFailure(b.open, ctx, r)
	}
	return nil, ok
}

func (b *bracketsRule) finish(ctx *Context, r *reader.Reader, args *Args, state any) bool {
	if !b.inner.run(ctx, r, args) {
		reportFailure(b.inner, ctx, r)
		return false
	}
	if !b.closing.run(ctx, r, args) {
		ctx.reportError("", missingDelimiterError(r, "closing bracket"))
		return false
	}
	return true
}

func (b *bracketsRule) cancel(ctx *Context, state any) {}

// Parenthesized, SquareBracketed, CurlyBracketed, and AngleBracketed
// are Brackets preconfigured with the common ASCII delimiter pairs.
func Parenthesized(inner Rule) Rule   { return Brackets(Lit("("), inner, closingLit(")")) }
func SquareBracketed(inner Rule) Rule { return Brackets(Lit("["), inner, closingLit("]")) }
func CurlyBracketed(inner Rule) Rule  { return Brackets(Lit("{"), inner, closingLit("}")) }
func AngleBracketed(inner Rule) Rule  { return Brackets(Lit("<"), inner, closingLit(">")) }

func closingLit(lit string) Rule {
	return &literalRule{name: quote(lit), matcher: trie.NewMatcher([]string{lit}), kind: KindLiteral}
}
