package rule

import (
	"github.com/ava12/pcomb/errs"
	"github.com/ava12/pcomb/reader"
	"github.com/ava12/pcomb/trie"
)

// literalRule matches one of a fixed set of string literals via a
// compiled trie, per the literal-trie matcher (spec §4.C). A single
// literal is simply a one-entry set.
type literalRule struct {
	name    string // used in error messages, e.g. "keyword" or "operator"
	matcher *trie.Matcher
	kind    TokenKind
	emit    bool // whether the matched literal is appended to args
	keyword bool // true for Keyword/KeywordSet: Keyword reports expected_keyword (isSet takes precedence)
	isSet   bool // true for LiteralSet/KeywordSet: reports expected_literal_set
}

func (l *literalRule) IsBranch() bool              { return false }
func (l *literalRule) IsUnconditionalBranch() bool { return false }

func (l *literalRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	start := r.Marker()
	lit, ok := l.matcher.Match(r)
	if !ok {
		r.Reset(start)
		return false
	}
	ctx.Handler.HandleToken(l.kind, lit, start)
	if l.emit {
		args.Append(lit)
	}
	return true
}

func (l *literalRule) reportFailure(ctx *Context, r *reader.Reader) {
	got, suggestion := closestLiteral(l.matcher.Literals(), r)
	var err *errs.Error
	switch {
	case l.isSet:
		err = expectedLiteralSetError(r, l.name, l.matcher.Literals(), got, suggestion)
	case l.keyword:
		err = expectedKeywordError(r, l.name, got, suggestion)
	default:
		literal := ""
		if lits := l.matcher.Literals(); len(lits) > 0 {
			literal = lits[0]
		}
		err = expectedLiteralError(r, l.name, literal, got, suggestion)
	}
	ctx.reportError(l.name, err)
}

// Lit matches exactly one literal string, case-sensitively. The
// matched text is not appended to the argument pack — use LitValue for
// that.
func Lit(literal string) Rule {
	return &literalRule{
		name:    quote(literal),
		matcher: trie.NewMatcher([]string{literal}),
		kind:    KindLiteral,
	}
}

// LitValue is Lit, but appends the matched literal to the argument
// pack.
func LitValue(literal string) Rule {
	return &literalRule{
		name:    quote(literal),
		matcher: trie.NewMatcher([]string{literal}),
		kind:    KindLiteral,
		emit:    true,
	}
}

// LitFold is Lit, case-insensitively.
func LitFold(literal string) Rule {
	return &literalRule{
		name:    quote(literal),
		matcher: trie.NewMatcher([]string{literal}, trie.CaseFold()),
		kind:    KindLiteral,
	}
}

// LiteralSet dispatches on the longest of literals that prefixes the
// input, appending the matched literal to the argument pack. Used for
// operator tables and keyword tables where more than one literal can
// start at the same position (e.g. "<" vs "<=").
func LiteralSet(name string, literals []string) Rule {
	return &literalRule{
		name:    name,
		matcher: trie.NewMatcher(literals),
		kind:    KindLiteral,
		emit:    true,
		isSet:   true,
	}
}

// Keyword matches literal but only when it is not immediately followed
// by a tail character, so that keyword("int") does not consume the
// first three letters of "interval". tail is typically IdentTail or a
// character class built from Union/Ascii*.
func Keyword(literal string, tail CharClass) Rule {
	m := trie.NewMatcher([]string{literal})
	m.WithVeto(literal, func(next rune) bool { return tail(next) })
	return &literalRule{
		name:    quote(literal),
		matcher: m,
		kind:    KindLiteral,
		keyword: true,
	}
}

// KeywordSet is LiteralSet with a tail veto applied to every literal,
// for a whole keyword table at once.
func KeywordSet(name string, literals []string, tail CharClass) Rule {
	m := trie.NewMatcher(literals)
	for _, lit := range literals {
		m.WithVeto(lit, func(next rune) bool { return tail(next) })
	}
	return &literalRule{
		name:    name,
		matcher: m,
		kind:    KindLiteral,
		emit:    true,
		keyword: true,
		isSet:   true,
	}
}
