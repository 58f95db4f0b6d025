package rule

import (
	"fmt"
	"strconv"

	"github.com/agnivade/levenshtein"

	"github.com/ava12/pcomb/errs"
	"github.com/ava12/pcomb/reader"
)

// Error codes within errs.RuleErrors, one per distinct failure kind
// reported by this package's combinators (spec §4.I). Each kind's
// constructor below carries the data specific to that kind (matched
// prefix/total length, a begin/end span, the offending literal set,
// ...) into the formatted message, the same way errs.Format/FormatPos
// carry printf-style params rather than a separate payload field.
const (
	ErrExpectedLiteral             = errs.RuleErrors + 1
	ErrExpectedKeyword             = errs.RuleErrors + 2
	ErrExpectedCharClass           = errs.RuleErrors + 3
	ErrExpectedLiteralSet          = errs.RuleErrors + 4
	ErrExhaustedChoice             = errs.RuleErrors + 5
	ErrUnexpected                  = errs.RuleErrors + 6
	ErrMissingDelimiter            = errs.RuleErrors + 7
	ErrInvalidEscapeSequence       = errs.RuleErrors + 8
	ErrUnexpectedTrailingSeparator = errs.RuleErrors + 9
	ErrForbiddenLeadingZero        = errs.RuleErrors + 10
	ErrRecursionLimit              = errs.RuleErrors + 11
)

func quote(s string) string {
	return strconv.Quote(s)
}

// closestLiteral finds the literal in candidates with the smallest
// Levenshtein distance to the identifier-like text sitting at r's
// current position, for "did you mean" suggestions in error messages.
// found is the text at r (empty, with no suggestion, when there is
// none); suggestion is "" if no candidate is close enough to be useful.
func closestLiteral(candidates []string, r *reader.Reader) (found, suggestion string) {
	word := peekWord(r)
	if word == "" {
		return "", ""
	}

	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(word, c)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist < 0 || bestDist > len(best)/2+1 {
		return word, ""
	}
	return word, best
}

// peekWord reads a short run of non-space bytes ahead of r's position
// for use in error messages and suggestion matching, without consuming
// anything.
func peekWord(r *reader.Reader) string {
	rest := r.Remaining()
	n := 0
	for n < len(rest) && n < 32 {
		b := rest[n]
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			break
		}
		n++
	}
	return string(rest[:n])
}

// commonPrefixLen returns the length of the longest common prefix of a
// and b, for reporting how much of an expected literal the input
// actually matched before diverging.
func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// span locates the offending run of input at r's current position,
// returning its begin and end as "line:col" text. Most failures are
// reported with r already reset to the attempt's start, so begin is
// simply r's current position and end is begin plus the length of the
// lookalike word sitting there.
func span(r *reader.Reader) (begin, end string) {
	bl, bc := r.Line(), r.Col()
	el, ec := r.LineCol(r.Pos() + len(peekWord(r)))
	return fmt.Sprintf("%d:%d", bl, bc), fmt.Sprintf("%d:%d", el, ec)
}

// expectedLiteralError reports a single-literal mismatch (Lit,
// LitValue, LitFold), carrying how many of literal's bytes the input
// actually matched before diverging (spec's expected_literal).
func expectedLiteralError(r *reader.Reader, name, literal, got, suggestion string) *errs.Error {
	matched := commonPrefixLen(literal, got)
	msg := fmt.Sprintf("expected %s", name)
	if got != "" {
		msg += fmt.Sprintf(", found %q (matched %d of %d bytes)", got, matched, len(literal))
	}
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return errs.FormatPos(r, ErrExpectedLiteral, msg)
}

// expectedKeywordError reports a Keyword mismatch (expected_keyword).
func expectedKeywordError(r *reader.Reader, name, got, suggestion string) *errs.Error {
	msg := fmt.Sprintf("expected keyword %s", name)
	if got != "" {
		msg += fmt.Sprintf(", found %q", got)
	}
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return errs.FormatPos(r, ErrExpectedKeyword, msg)
}

// expectedLiteralSetError reports a LiteralSet/KeywordSet mismatch,
// listing the full candidate set (expected_literal_set).
func expectedLiteralSetError(r *reader.Reader, name string, literals []string, got, suggestion string) *errs.Error {
	msg := fmt.Sprintf("expected %s (one of %v)", name, literals)
	if got != "" {
		msg += fmt.Sprintf(", found %q", got)
	}
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return errs.FormatPos(r, ErrExpectedLiteralSet, msg)
}

// expectedCharClassError reports a named character class's failure to
// match (Char, CharValue, and the digit rules — a radix digit is just
// a character class by another name) (expected_char_class).
func expectedCharClassError(r *reader.Reader, class string) *errs.Error {
	got := peekWord(r)
	if got == "" {
		return errs.FormatPos(r, ErrExpectedCharClass, "expected %s", class)
	}
	return errs.FormatPos(r, ErrExpectedCharClass, "expected %s, found %q", class, got)
}

// exhaustedChoiceError reports that every alternative of a Choice
// failed (exhausted_choice).
func exhaustedChoiceError(r *reader.Reader) *errs.Error {
	return errs.FormatPos(r, ErrExhaustedChoice, "no alternative matched")
}

// unexpectedError is the catch-all kind for a rule whose failure isn't
// naturally one of the other named kinds (an identifier, a sign, a
// lookahead, ...), carrying the offending span rather than just a
// point position (unexpected).
func unexpectedError(r *reader.Reader, label string) *errs.Error {
	begin, end := span(r)
	got := peekWord(r)
	if got == "" {
		return errs.FormatPos(r, ErrUnexpected, "expected %s at %s", label, begin)
	}
	return errs.FormatPos(r, ErrUnexpected, "expected %s, found %q (%s-%s)", label, got, begin, end)
}

// missingDelimiterError reports a closing delimiter (bracket or quote)
// that never showed up (missing_delimiter).
func missingDelimiterError(r *reader.Reader, closing string) *errs.Error {
	begin, end := span(r)
	return errs.FormatPos(r, ErrMissingDelimiter, "expected closing %q (%s-%s)", closing, begin, end)
}

// invalidEscapeSequenceError reports an escape introducer not followed
// by a recognized escape (invalid_escape_sequence).
func invalidEscapeSequenceError(r *reader.Reader) *errs.Error {
	begin, end := span(r)
	return errs.FormatPos(r, ErrInvalidEscapeSequence, "invalid escape sequence %q (%s-%s)", peekWord(r), begin, end)
}

// unexpectedTrailingSeparatorError reports a separator with no item
// following it in a list that doesn't allow a trailing one
// (unexpected_trailing_separator).
func unexpectedTrailingSeparatorError(r *reader.Reader, sep string) *errs.Error {
	return errs.FormatPos(r, ErrUnexpectedTrailingSeparator, "unexpected trailing %q with no item following", sep)
}

// forbiddenLeadingZeroError reports a multi-digit run starting with
// '0' where ForbiddenLeadingZero disallows it (forbidden_leading_zero).
func forbiddenLeadingZeroError(r *reader.Reader) *errs.Error {
	begin, end := span(r)
	return errs.FormatPos(r, ErrForbiddenLeadingZero, "leading zero not allowed in %q (%s-%s)", peekWord(r), begin, end)
}

func recursionLimitError(r *reader.Reader, limit int) *errs.Error {
	return errs.FormatPos(r, ErrRecursionLimit, "recursion limit of %d exceeded", limit)
}
