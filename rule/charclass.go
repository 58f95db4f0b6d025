package rule

import (
	"unicode"

	"github.com/ava12/pcomb/reader"
)

// CharClass tests whether a rune belongs to a class. reader.EOF (-1)
// must always test false.
type CharClass func(r rune) bool

// Union accepts a rune accepted by any of classes.
func Union(classes ...CharClass) CharClass {
	return func(r rune) bool {
		for _, c := range classes {
			if c(r) {
				return true
			}
		}
		return false
	}
}

// Intersect accepts a rune accepted by every one of classes.
func Intersect(classes ...CharClass) CharClass {
	return func(r rune) bool {
		for _, c := range classes {
			if !c(r) {
				return false
			}
		}
		return true
	}
}

// Complement accepts exactly the runes class rejects (EOF excluded).
func Complement(class CharClass) CharClass {
	return func(r rune) bool {
		return r != reader.EOF && !class(r)
	}
}

// Difference accepts runes in a that are not in b.
func Difference(a, b CharClass) CharClass {
	return func(r rune) bool { return a(r) && !b(r) }
}

// Single accepts exactly r.
func Single(r rune) CharClass {
	return func(x rune) bool { return x == r }
}

// Range accepts runes in [lo, hi] inclusive.
func Range(lo, hi rune) CharClass {
	return func(r rune) bool { return r >= lo && r <= hi }
}

// Unicode character classes, backed by unicode.IsLetter etc. — these
// see every byte decoded as a full code point, unlike the Ascii*
// classes below which are defined directly over byte values and are
// cheaper when the grammar is known to be ASCII-only.
var (
	Letter       CharClass = unicode.IsLetter
	UnicodeDigit CharClass = unicode.IsDigit
	Space        CharClass = unicode.IsSpace
	Upper        CharClass = unicode.IsUpper
	Lower        CharClass = unicode.IsLower
)

// Ascii character classes, matching the lexy character-class tables:
// blank (space/tab), space (blank + newline), newline (LF/CR),
// punct (ASCII punctuation/symbol bytes), and control (C0 controls).
var (
	AsciiBlank   CharClass = func(r rune) bool { return r == ' ' || r == '\t' }
	AsciiSpace   CharClass = Union(AsciiBlank, func(r rune) bool { return r == '\n' || r == '\r' })
	AsciiNewline CharClass = func(r rune) bool { return r == '\n' || r == '\r' }
	AsciiPunct   CharClass = func(r rune) bool {
		return (r >= '!' && r <= '/') || (r >= ':' && r <= '@') ||
			(r >= '[' && r <= '`') || (r >= '{' && r <= '~')
	}
	AsciiControl CharClass = func(r rune) bool { return r >= 0 && r < 0x20 || r == 0x7F }
	AsciiDigit   CharClass = Range('0', '9')
	AsciiAlpha   CharClass = Union(Range('a', 'z'), Range('A', 'Z'))
	AsciiAlnum   CharClass = Union(AsciiAlpha, AsciiDigit)
)

// charRule is a token rule that matches exactly one rune accepted by
// class and, if emit is set, appends it to the argument pack.
type charRule struct {
	name  string
	class CharClass
	emit  bool
}

func (c *charRule) IsBranch() bool              { return false }
func (c *charRule) IsUnconditionalBranch() bool { return false }

func (c *charRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	start := r.Marker()
	rn, result, width := r.DecodeRune()
	if result != reader.DecodeOK || !c.class(rn) {
		r.Reset(start)
		return false
	}
	r.Advance(width)
	ctx.Handler.HandleToken(KindLiteral, string(rn), start)
	if c.emit {
		args.Append(rn)
	}
	return true
}

func (c *charRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError(c.name, expectedCharClassError(r, c.name))
}

// Char matches one rune accepted by class, without appending it to the
// argument pack.
func Char(name string, class CharClass) Rule {
	return &charRule{name: name, class: class}
}

// CharValue is Char, but appends the matched rune to the argument pack.
func CharValue(name string, class CharClass) Rule {
	return &charRule{name: name, class: class, emit: true}
}
