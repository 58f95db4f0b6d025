package rule

import (
	"fmt"

	"github.com/ava12/pcomb/reader"
)

func digitValue(r rune, radix int) (int, bool) {
	var v int
	switch {
	case r >= '0' && r <= '9':
		v = int(r - '0')
	case r >= 'a' && r <= 'z':
		v = int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		v = int(r-'A') + 10
	default:
		return 0, false
	}
	if v >= radix {
		return 0, false
	}
	return v, true
}

// Digit matches exactly one digit valid in radix (2 through 36),
// appending its numeric value as an int.
func Digit(radix int) Rule {
	return &digitRule{radix: radix}
}

type digitRule struct {
	radix int
}

func (d *digitRule) IsBranch() bool              { return false }
func (d *digitRule) IsUnconditionalBranch() bool { return false }

func (d *digitRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	start := r.Marker()
	rn, result, width := r.DecodeRune()
	if result != reader.DecodeOK {
		r.Reset(start)
		return false
	}
	v, ok := digitValue(rn, d.radix)
	if !ok {
		r.Reset(start)
		return false
	}
	r.Advance(width)
	args.Append(v)
	return true
}

func (d *digitRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("", expectedCharClassError(r, fmt.Sprintf("a base-%d digit", d.radix)))
}

// Digits matches a run of one or more digits in radix, optionally
// allowing sep (e.g. '_') between digits as a non-significant visual
// separator, and appends the matched text (with separators stripped)
// as a string.
func Digits(radix int, sep rune) Rule {
	return &digitsRule{radix: radix, sep: sep}
}

type digitsRule struct {
	radix int
	sep   rune
}

func (d *digitsRule) IsBranch() bool              { return false }
func (d *digitsRule) IsUnconditionalBranch() bool { return false }

func (d *digitsRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	start := r.Marker()
	var buf []byte
	sawDigit := false
	for {
		rn, result, width := r.DecodeRune()
		if result != reader.DecodeOK {
			break
		}
		if _, ok := digitValue(rn, d.radix); ok {
			buf = append(buf, []byte(string(rn))...)
			r.Advance(width)
			sawDigit = true
			continue
		}
		if d.sep != 0 && rn == d.sep && sawDigit {
			// a separator must be followed by another digit, or it
			// isn't part of this run
			peekAt := r.Marker()
			r.Advance(width)
			next, nres, _ := r.DecodeRune()
			if nres == reader.DecodeOK {
				if _, ok := digitValue(next, d.radix); ok {
					continue
				}
			}
			r.Reset(peekAt)
		}
		break
	}
	if !sawDigit {
		r.Reset(start)
		return false
	}
	args.Append(string(buf))
	return true
}

func (d *digitsRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("", expectedCharClassError(r, fmt.Sprintf("a base-%d digit", d.radix)))
}

// NDigits matches exactly n digits in radix, no more and no fewer —
// used for fixed-width escapes like \uXXXX.
func NDigits(radix, n int) Rule {
	return &nDigitsRule{radix: radix, n: n}
}

type nDigitsRule struct {
	radix, n int
}

func (d *nDigitsRule) IsBranch() bool              { return false }
func (d *nDigitsRule) IsUnconditionalBranch() bool { return false }

func (d *nDigitsRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	start := r.Marker()
	var buf []byte
	for i := 0; i < d.n; i++ {
		rn, result, width := r.DecodeRune()
		if result != reader.DecodeOK {
			r.Reset(start)
			return false
		}
		if _, ok := digitValue(rn, d.radix); !ok {
			r.Reset(start)
			return false
		}
		buf = append(buf, []byte(string(rn))...)
		r.Advance(width)
	}
	args.Append(string(buf))
	return true
}

func (d *nDigitsRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("", expectedCharClassError(r, fmt.Sprintf("a base-%d digit", d.radix)))
}

// Sign matches an optional '+' or '-', appending +1 or -1 as an int;
// it is unconditional (missing sign means +1), matching the `sign`
// production. PlusSign/MinusSign match only one or the other and fail
// if absent.
func Sign() Rule {
	return &signRule{allowPlus: true, allowMinus: true, defaultVal: 1}
}

func PlusSign() Rule {
	return &signRule{allowPlus: true}
}

func MinusSign() Rule {
	return &signRule{allowMinus: true}
}

type signRule struct {
	allowPlus, allowMinus bool
	defaultVal            int
}

func (s *signRule) IsBranch() bool              { return false }
func (s *signRule) IsUnconditionalBranch() bool { return s.allowPlus && s.allowMinus }

func (s *signRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	skipWhitespace(ctx, r)
	switch r.Peek() {
	case '+':
		if s.allowPlus {
			r.Bump()
			args.Append(1)
			return true
		}
	case '-':
		if s.allowMinus {
			r.Bump()
			args.Append(-1)
			return true
		}
	}
	if s.allowPlus && s.allowMinus {
		args.Append(s.defaultVal)
		return true
	}
	return false
}

func (s *signRule) reportFailure(ctx *Context, r *reader.Reader) {
	want := "+"
	if s.allowMinus {
		want = "-"
	}
	ctx.reportError("", unexpectedError(r, fmt.Sprintf("sign %s", quote(want))))
}

// ForbiddenLeadingZero wraps digits so that it fails when the matched
// run is more than one digit long and starts with '0' — the
// `forbidden_leading_zero` guard used by decimal integer literals.
func ForbiddenLeadingZero(digits Rule) Rule {
	return &noLeadingZeroRule{digits: digits}
}

type noLeadingZeroRule struct {
	digits Rule
}

func (n *noLeadingZeroRule) IsBranch() bool              { return false }
func (n *noLeadingZeroRule) IsUnconditionalBranch() bool { return false }

func (n *noLeadingZeroRule) run(ctx *Context, r *reader.Reader, args *Args) bool {
	start := r.Marker()
	var trial Args
	if !n.digits.run(ctx, r, &trial) {
		r.Reset(start)
		return false
	}
	vals := trial.Values()
	if len(vals) == 1 {
		if s, ok := vals[0].(string); ok && len(s) > 1 && s[0] == '0' {
			r.Reset(start)
			return false
		}
	}
	args.Append(vals...)
	return true
}

func (n *noLeadingZeroRule) reportFailure(ctx *Context, r *reader.Reader) {
	ctx.reportError("", forbiddenLeadingZeroError(r))
}
