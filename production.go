package pcomb

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ava12/pcomb/reader"
	"github.com/ava12/pcomb/rule"
	"github.com/ava12/pcomb/sink"
)

// Production declares one entry point into a grammar: the rule to run,
// optionally how to turn its produced arguments into a value, and
// optionally a whitespace rule active for its whole extent.
type Production struct {
	// Name identifies the production in error messages and trace
	// output.
	Name string

	// Rule is the production's grammar.
	Rule rule.Rule

	// Value, if set, turns the finished argument pack into the
	// production's result. A nil Value leaves the raw []any pack as
	// the result — appropriate for a TransparentProduction whose
	// arguments are meant to flow straight into its caller.
	Value sink.Callback

	// Whitespace, if set, is installed as the active whitespace rule
	// for this production's entire extent, including nested
	// productions that don't declare their own.
	Whitespace rule.Rule

	// IsTokenProduction disables whitespace skipping anywhere inside
	// this production's rule, even where an enclosing Whitespace would
	// otherwise apply (spec §4.F, token_production).
	IsTokenProduction bool
}

func (p *Production) rootRule() rule.Rule {
	r := p.Rule
	if p.IsTokenProduction {
		r = rule.TokenProduction(r)
	}
	if p.Whitespace != nil {
		r = rule.WithWhitespace(p.Whitespace, r)
	}
	return r
}

// Errors is the accumulated, ordered list of errors a parse run
// reported, oldest first.
type Errors []error

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Error()
}

type collectingHandler struct {
	rule.EventHandler
	errs Errors
}

func newCollectingHandler(inner rule.EventHandler) *collectingHandler {
	if inner == nil {
		inner = rule.NopHandler{}
	}
	return &collectingHandler{EventHandler: inner}
}

func (h *collectingHandler) HandleError(production string, err error) {
	h.errs = append(h.errs, err)
	h.EventHandler.HandleError(production, err)
}

// Parse runs production over input and returns its value (per
// Production.Value) together with every error reported along the way.
// A nil Errors means the parse matched cleanly; a non-nil one does not
// necessarily mean it failed outright — Recover-based productions can
// report errors and still produce a value.
func Parse(input []byte, enc reader.Encoding, production *Production, state any, handler rule.EventHandler) (any, Errors) {
	h := newCollectingHandler(handler)
	ctx := rule.NewContext(state, h)
	r := reader.FromBytes(input, enc)

	var args rule.Args
	var panicked error
	ok := func() (ok bool) {
		defer func() {
			if rec := recover(); rec != nil {
				if err, is := rec.(error); is {
					panicked = err
					ok = false
					return
				}
				panic(rec)
			}
		}()
		return rule.Run(production.rootRule(), ctx, &r, &args)
	}()

	if panicked != nil {
		h.errs = append(h.errs, panicked)
	}
	if !ok && len(h.errs) == 0 {
		h.errs = append(h.errs, FormatPos(&r, RuleErrors, "parse failed"))
	}

	var value any
	if production.Value != nil {
		value = production.Value(args.Values(), state)
	} else {
		value = args.Values()
	}

	if len(h.errs) == 0 {
		return value, nil
	}
	return value, h.errs
}

// Match reports only whether production matches input in its
// entirety, discarding any value and swallowing error detail.
func Match(input []byte, enc reader.Encoding, production *Production, state any) (matched bool) {
	defer func() {
		if rec := recover(); rec != nil {
			if _, isErr := rec.(error); !isErr {
				panic(rec)
			}
			matched = false
		}
	}()
	ctx := rule.NewContext(state, rule.NopHandler{})
	r := reader.FromBytes(input, enc)
	var args rule.Args
	ok := rule.Run(production.rootRule(), ctx, &r, &args)
	return ok && r.IsEOF()
}

// Validate runs production purely for its errors, discarding the
// value.
func Validate(input []byte, enc reader.Encoding, production *Production, state any, handler rule.EventHandler) Errors {
	_, errs := Parse(input, enc, production, state, handler)
	return errs
}

// traceHandler adapts rule.EventHandler onto a logrus.Logger, so Trace
// gets structured, leveled trace output for free.
type traceHandler struct {
	log *logrus.Logger
}

func (t *traceHandler) HandleError(production string, err error) {
	t.log.WithField("production", production).Error(err)
}

func (t *traceHandler) HandleToken(kind rule.TokenKind, lexeme string, pos reader.Marker) {
	t.log.WithFields(logrus.Fields{"kind": kind, "pos": pos.Pos()}).Debug("token: ", lexeme)
}

func (t *traceHandler) HandleProductionBegin(name string, pos reader.Marker) {
	t.log.WithField("pos", pos.Pos()).Trace("enter ", name)
}

func (t *traceHandler) HandleProductionEnd(name string, pos reader.Marker) {
	t.log.WithField("pos", pos.Pos()).Trace("exit ", name)
}

func (t *traceHandler) HandleDebug(msg string, pos reader.Marker) {
	t.log.WithField("pos", pos.Pos()).Debug(msg)
}

// Trace runs production over input exactly like Parse, but sends every
// event to a logrus.Logger writing to w instead of an
// application-supplied handler.
func Trace(input []byte, enc reader.Encoding, production *Production, state any, w io.Writer) (any, Errors) {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.TraceLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: false})
	return Parse(input, enc, production, state, &traceHandler{log: log})
}

// Scan exposes the production's root rule and a ready-to-use Context
// directly, for a caller that wants to drive the engine imperatively
// (package scanner) rather than through Parse/Match/Validate.
func Scan(input []byte, enc reader.Encoding, production *Production, state any, handler rule.EventHandler) (rule.Rule, *rule.Context, reader.Reader) {
	h := newCollectingHandler(handler)
	return production.rootRule(), rule.NewContext(state, h), reader.FromBytes(input, enc)
}
