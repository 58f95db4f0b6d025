package rule

import (
	"strings"

	"github.com/ava12/pcomb/reader"
)

// Delimited matches openLit, then body with whitespace skipping
// suspended, then closeLit, reporting an unclosed-delimiter error
// (rather than a generic no-match) if body runs out of input before
// closeLit is found.
func Delimited(openLit, closeLit string, body Rule) Rule {
	return Brackets(Lit(openLit), NoWhitespace(body), closingLit(closeLit))
}

// Escape matches lead (typically a backslash literal) followed by one
// of the entries in table: a map from the escape's introducer
// character (e.g. 'n', 't', '"') to the rune it expands to. The
// expanded rune is appended to the argument pack — the `escape`
// production.
func Escape(lead rune, table map[rune]rune) Rule {
	return &escapeRule{lead: lead, table: table}
}

type escapeRule struct {
	lead  rune
	table map[rune]rune
}

func (e *escapeRule) IsBranch() bool              { return false }
func (e *escapeRule) IsUnconditionalBranch() bool { return false }

func (e *escapeRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	start := r.Marker()
	rn, result, width := r.DecodeRune()
	if result != reader.DecodeOK || rn != e.lead {
		r.Reset(start)
		return false
	}
	r.Advance(width)
	body, result, width := r.DecodeRune()
	if result != reader.DecodeOK {
		r.Reset(start)
		return false
	}
	expanded, ok := e.table[body]
	if !ok {
		r.Reset(start)
		return false
	}
	r.Advance(width)
	args.Append(expanded)
	return true
}

func (e *escapeRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("escape", invalidEscapeSequenceError(r))
}

// Quoted matches a q-delimited string whose body is a run of
// characters rejected by forbidden (typically the quote character and
// a newline) interleaved with occurrences of escape, concatenating the
// decoded body into one string argument — `quoted`, `single_quoted`.
func Quoted(q string, forbidden CharClass, escape Rule) Rule {
	return &quotedRule{quote: q, forbidden: forbidden, escape: escape}
}

// TripleQuoted is Quoted with a three-character delimiter and no
// forbidden characters other than the terminator itself, for
// triple-quoted block strings.
func TripleQuoted(q string, escape Rule) Rule {
	return &quotedRule{quote: strings.Repeat(q, 3), escape: escape}
}

// Backticked is Quoted with a literal backtick delimiter and raw
// (non-interpreted) body, matching the Go-style raw string convention.
func Backticked() Rule {
	return &quotedRule{quote: "`"}
}

type quotedRule struct {
	quote     string
	forbidden CharClass
	escape    Rule
}

func (q *quotedRule) IsBranch() bool              { return false }
func (q *quotedRule) IsUnconditionalBranch() bool { return false }

func (q *quotedRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	start := r.Marker()
	if !matchLiteral(r, q.quote) {
		r.Reset(start)
		return false
	}

	prevSuppressed := ctx.wsSuppressed
	ctx.wsSuppressed = true
	defer func() { ctx.wsSuppressed = prevSuppressed }()

	var buf []byte
	for {
		if matchLiteral(r, q.quote) {
			ctx.Handler.HandleToken(KindLiteral, string(buf), start)
			args.Append(string(buf))
			return true
		}
		if r.IsEOF() {
			ctx.reportError("quoted string", missingDelimiterError(r, q.quote))
			return false
		}
		if q.escape != nil {
			var sub Args
			escStart := r.Marker()
			if q.escape.run(ctx, r, &sub) {
				for _, v := range sub.Values() {
					if rn, ok := v.(rune); ok {
						buf = append(buf, []byte(string(rn))...)
					}
				}
				continue
			}
			r.Reset(escStart)
		}
		rn, result, width := r.DecodeRune()
		if result != reader.DecodeOK {
			ctx.reportError("quoted string", missingDelimiterError(r, q.quote))
			return false
		}
		if q.forbidden != nil && q.forbidden(rn) {
			ctx.reportError("quoted string", missingDelimiterError(r, q.quote))
			return false
		}
		buf = append(buf, []byte(string(rn))...)
		r.Advance(width)
	}
}

func (q *quotedRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("quoted string", unexpectedError(r, "opening "+quote(q.quote)))
}

func matchLiteral(r *reader.Reader, lit string) bool {
	rem := r.Remaining()
	if len(rem) < len(lit) || string(rem[:len(lit)]) != lit {
		return false
	}
	r.Advance(len(lit))
	return true
}
