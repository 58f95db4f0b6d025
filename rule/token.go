package rule

import (
	"github.com/ava12/pcomb/reader"
)

// MatchFunc is the shape of a custom token's matching logic: given the
// reader positioned where the token should start, consume exactly the
// token (or nothing, on failure) and append whatever arguments it
// produces.
type MatchFunc func(ctx *Context, r *reader.Reader, args *Args) bool

// Func builds a plain rule directly from match, for grammar primitives
// not covered by the built-in constructors (Lit, Char, Identifier,
// ...). name is used only in generated error messages.
func Func(name string, match MatchFunc) Rule {
	return &funcRule{name: name, match: match}
}

type funcRule struct {
	name  string
	match MatchFunc
}

func (f *funcRule) IsBranch() bool              { return false }
func (f *funcRule) IsUnconditionalBranch() bool { return false }

func (f *funcRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	start := r.Marker()
	if f.match(ctx, r, args) {
		return true
	}
	r.Reset(start)
	return false
}

func (f *funcRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError(f.name, unexpectedError(r, f.name))
}

// EOF matches only at end of input, consuming nothing.
func EOF() Rule {
	return &eofRule{}
}

type eofRule struct{}

func (eofRule) IsBranch() bool              { return false }
func (eofRule) IsUnconditionalBranch() bool { return false }

func (eofRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	if !r.IsEOF() {
		return false
	}
	ctx.Handler.HandleToken(KindEOF, "", r.Marker())
	return true
}

func (eofRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("", unexpectedError(r, "end of input"))
}

// Any matches exactly one decodable rune, appending it to the
// argument pack, whatever it is.
func Any() Rule {
	return &anyRule{}
}

type anyRule struct{}

func (anyRule) IsBranch() bool              { return false }
func (anyRule) IsUnconditionalBranch() bool { return false }

func (anyRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	start := r.Marker()
	rn, result, width := r.DecodeRune()
	if result != reader.DecodeOK {
		r.Reset(start)
		return false
	}
	r.Advance(width)
	args.Append(rn)
	return true
}

func (anyRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("", unexpectedError(r, "any character"))
}

// Nothing matches the empty string unconditionally, appending nothing
// — the explicit epsilon rule, useful as a Choice's guaranteed-last
// default when the arguments it would append need not exist at all.
func Nothing() Rule {
	return nothingRule{}
}

type nothingRule struct{}

func (nothingRule) IsBranch() bool              { return false }
func (nothingRule) IsUnconditionalBranch() bool { return true }
func (nothingRule) run(*Context, *reader.Reader, *Args) bool { return true }
