// Package scanner provides an imperative driver over the same
// rule-execution protocol package rule exposes declaratively, for
// hand-written productions that need to branch on intermediate results
// rather than express everything as one composed Rule value.
package scanner

import (
	"github.com/google/uuid"

	"github.com/ava12/pcomb/errs"
	"github.com/ava12/pcomb/reader"
	"github.com/ava12/pcomb/rule"
)

// State is the scanner's current health.
type State int

const (
	// OK: no error has been reported since the last checkpoint.
	OK State = iota
	// Failed: an error was reported and no recovery is in progress.
	Failed
	// Recovering: a recovery session (BeginRecovery) is open.
	Recovering
)

// Scanner drives a reader and a rule.Context imperatively. It is not
// safe for concurrent use — one Scanner belongs to one parse.
type Scanner struct {
	r     reader.Reader
	ctx   *rule.Context
	state State

	recoveryID     uuid.UUID
	recoverySync   rule.Rule
	recoveryLimits []rule.Rule
}

// New builds a Scanner over r, reporting events to handler and
// threading state through to every rule it runs.
func New(r reader.Reader, state any, handler rule.EventHandler) *Scanner {
	return &Scanner{r: r, ctx: rule.NewContext(state, handler)}
}

// Context exposes the underlying rule.Context, for productions that
// need to push/pop context variables directly.
func (s *Scanner) Context() *rule.Context { return s.ctx }

// State reports the scanner's current health.
func (s *Scanner) State() State { return s.state }

// Position snapshots the scanner's current input position.
func (s *Scanner) Position() reader.Marker { return s.r.Marker() }

// Reset restores a position snapshotted by Position.
func (s *Scanner) Reset(m reader.Marker) { s.r.Reset(m) }

// IsAtEOF reports whether the scanner has consumed all input.
func (s *Scanner) IsAtEOF() bool { return s.r.IsEOF() }

// Remaining returns the unconsumed tail of the input.
func (s *Scanner) Remaining() []byte { return s.r.Remaining() }

// Parse runs rl at the current position, appending any produced
// arguments to args and advancing the scanner on success. On failure
// it reports rl's error (if any) and sets State to Failed, leaving the
// position unchanged. In State Failed, Parse is a no-op that returns
// false without running rl at all (spec §4.G); a Recovering scanner
// runs rl normally and stays Recovering whether rl succeeds or fails,
// until Finish or Cancel ends the session.
func (s *Scanner) Parse(rl rule.Rule, args *rule.Args) bool {
	return s.parse(rl, args)
}

// ParseValue is Parse for a rule that produces exactly one argument,
// returning it directly.
func (s *Scanner) ParseValue(rl rule.Rule) (any, bool) {
	var args rule.Args
	if !s.parse(rl, &args) {
		return nil, false
	}
	vals := args.Values()
	if len(vals) == 0 {
		return nil, true
	}
	return vals[len(vals)-1], true
}

func (s *Scanner) parse(rl rule.Rule, args *rule.Args) bool {
	if s.state == Failed {
		return false
	}
	start := s.r.Marker()
	ok := rule.Run(rl, s.ctx, &s.r, args)
	if !ok {
		s.r.Reset(start)
		if s.state != Recovering {
			s.state = Failed
		}
	}
	return ok
}

// Peek reports whether rl would match at the current position, without
// consuming input or producing arguments.
func (s *Scanner) Peek(rl rule.Rule) bool {
	return rule.Run(rule.Peek(rl), s.ctx, &s.r, &rule.Args{})
}

// Branch tries each of rules in order and runs (committing to) the
// first that matches, exactly as rule.Choice would; it exists on
// Scanner so hand-written productions can branch without building a
// throwaway Choice value inline.
func (s *Scanner) Branch(args *rule.Args, rules ...rule.Rule) bool {
	return s.parse(rule.Choice(rules...), args)
}

// Error reports a non-fatal error at the scanner's current position
// and marks State Failed, without otherwise changing scanner state.
func (s *Scanner) Error(production, msg string, params ...any) {
	s.state = Failed
	s.ctx.Handler.HandleError(production, errs.FormatPos(&s.r, errs.RuleErrors, msg, params...))
}

// FatalError is Error, and additionally panics with the built error so
// a deeply nested hand-written production can unwind straight back to
// the top-level action without every intermediate frame checking a
// return value. Parse, Match, Validate, and Trace recover from this
// panic at the top level.
func (s *Scanner) FatalError(production, msg string, params ...any) {
	s.state = Failed
	err := errs.FormatPos(&s.r, errs.RuleErrors, msg, params...)
	s.ctx.Handler.HandleError(production, err)
	panic(err)
}

// BeginRecovery opens a recovery session synchronizing on sync and
// returns a fresh session id, which the caller can use to tell one
// session from another; the scanner itself does not emit it.
// limits, if given, are abort tokens: Finish surrenders at whichever of
// them is reached first rather than scanning past it looking for sync
// (spec §4.E, `recover(t…).limit(l…)`). Finish resolves the session as
// successfully resynchronized; Cancel abandons it. Exactly one of
// Finish/Cancel must be called before another BeginRecovery.
func (s *Scanner) BeginRecovery(sync rule.Rule, limits ...rule.Rule) uuid.UUID {
	s.state = Recovering
	s.recoveryID = uuid.New()
	s.recoverySync = sync
	s.recoveryLimits = limits
	return s.recoveryID
}

// Finish resynchronizes at sync (passed to BeginRecovery) by skipping
// forward until it matches or one of the session's limits does, then
// returns to State OK.
func (s *Scanner) Finish() {
	rule.Run(rule.Find(s.recoverySync, s.recoveryLimits...), s.ctx, &s.r, &rule.Args{})
	s.state = OK
	s.recoverySync = nil
	s.recoveryLimits = nil
}

// Cancel abandons the open recovery session without scanning forward;
// the scanner is left Failed.
func (s *Scanner) Cancel() {
	s.state = Failed
	s.recoverySync = nil
	s.recoveryLimits = nil
}
