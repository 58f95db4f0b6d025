// Package sink implements the callback/value pipeline: turning the
// flat argument pack a rule chain produces into typed user values.
// Grounded on the non-terminal hook instance pattern (an Add-per-child,
// Finish-at-the-end accumulator).
package sink

// Callback turns one production's finished argument pack (plus the
// ambient parse state) into a value.
type Callback func(args []any, state any) any

// Sink accumulates values incrementally — Add is called once per
// child production's result, in order, and Finish is called once the
// enclosing production is done, producing the final value.
type Sink interface {
	Add(v any)
	Finish(state any) any
}

// Bind adapts a Callback into the one-shot case of Sink: every Add
// just appends, and Finish runs cb over everything collected.
func Bind(cb Callback) Sink {
	return &bindSink{cb: cb}
}

type bindSink struct {
	cb   Callback
	vals []any
}

func (b *bindSink) Add(v any) { b.vals = append(b.vals, v) }
func (b *bindSink) Finish(state any) any {
	return b.cb(b.vals, state)
}

// Placeholder values a Callback's args slice can contain alongside
// real argument values — resolved against the full args slice and the
// parse state when the callback runs.
type (
	valuesPlaceholder  struct{}
	nthValuePlaceholder struct{ n int }
	stateMarker        struct{}
)

// Values, when it appears among a production's argument pack, is
// replaced by the whole args slice at callback time — used when a
// production's value is "all my children, as a slice" rather than a
// specific shape.
var Values = valuesPlaceholder{}

// NthValue is resolved to args[n] at callback time.
func NthValue(n int) any { return nthValuePlaceholder{n} }

// ParseState is resolved to the ambient parse state at callback time.
var ParseState = stateMarker{}

// Resolve expands Values/NthValue/ParseState placeholders found in args
// against the full argument slice and state, for use inside a Callback
// that wants the convenience of those placeholders without every Sink
// implementation having to special-case them.
func Resolve(args []any, state any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case valuesPlaceholder:
			out[i] = args
		case nthValuePlaceholder:
			if v.n >= 0 && v.n < len(args) {
				out[i] = args[v.n]
			}
		case stateMarker:
			out[i] = state
		default:
			out[i] = a
		}
	}
	return out
}

// Compose chains sinks so that Add fans out to all of them and Finish
// returns every sink's result as a []any, in order — used when one
// production feeds more than one downstream accumulator.
func Compose(sinks ...Sink) Sink {
	return &composeSink{sinks: sinks}
}

type composeSink struct {
	sinks []Sink
}

func (c *composeSink) Add(v any) {
	for _, s := range c.sinks {
		s.Add(v)
	}
}

func (c *composeSink) Finish(state any) any {
	out := make([]any, len(c.sinks))
	for i, s := range c.sinks {
		out[i] = s.Finish(state)
	}
	return out
}

// Pipe runs first to completion, then feeds its single Finish result
// into second as its one Add, and returns second's Finish — used to
// post-process a sink's output through another sink's own
// accumulation logic (e.g. ListSink piped into Fold).
func Pipe(first, second Sink) Sink {
	return &pipeSink{first: first, second: second}
}

type pipeSink struct {
	first, second Sink
}

func (p *pipeSink) Add(v any) { p.first.Add(v) }
func (p *pipeSink) Finish(state any) any {
	p.second.Add(p.first.Finish(state))
	return p.second.Finish(state)
}

// ListSink collects every Add'd value into a []any, optionally
// pre-sizing the backing slice via allocate(state) — mirroring the
// collection-node pattern of a repetition production whose value is
// simply "my children, as a slice".
func ListSink(allocate func(state any) []any) Sink {
	return &listSink{allocate: allocate}
}

type listSink struct {
	allocate func(state any) []any
	vals     []any
}

func (l *listSink) Add(v any) { l.vals = append(l.vals, v) }
func (l *listSink) Finish(state any) any {
	if l.allocate == nil {
		return l.vals
	}
	out := l.allocate(state)
	return append(out, l.vals...)
}

// CollectionSink is ListSink, but Finish additionally runs convert
// over the accumulated slice — e.g. to build a typed []int rather than
// a []any.
func CollectionSink(convert func(vals []any, state any) any) Sink {
	return &collectionSink{convert: convert}
}

type collectionSink struct {
	convert func(vals []any, state any) any
	vals    []any
}

func (c *collectionSink) Add(v any) { c.vals = append(c.vals, v) }
func (c *collectionSink) Finish(state any) any {
	return c.convert(c.vals, state)
}

// ConcatSink concatenates every Add'd string (or stringer-ish value, via
// toString) into one string — used by quoted-string and identifier
// productions whose children are fragments of one lexeme.
func ConcatSink(toString func(v any) string) Sink {
	return &concatSink{toString: toString}
}

type concatSink struct {
	toString func(v any) string
	buf      []byte
}

func (c *concatSink) Add(v any) {
	c.buf = append(c.buf, []byte(c.toString(v))...)
}

func (c *concatSink) Finish(state any) any {
	return string(c.buf)
}

// Aggregate folds every Add'd value into an accumulator via combine — a
// running total, not a collected list. The first Add'd value seeds the
// accumulator; zero(state) is the result only when nothing was added.
func Aggregate(zero func(state any) any, combine func(acc, v any) any) Sink {
	return &aggregateSink{zero: zero, combine: combine}
}

type aggregateSink struct {
	zero     func(state any) any
	combine  func(acc, v any) any
	acc      any
	started  bool
}

func (a *aggregateSink) Add(v any) {
	if !a.started {
		a.acc = v
		a.started = true
		return
	}
	a.acc = a.combine(a.acc, v)
}

func (a *aggregateSink) Finish(state any) any {
	if !a.started {
		return a.zero(state)
	}
	return a.acc
}

// Fold is Aggregate's Callback-facing equivalent: it runs over a
// production's whole finished argument pack at once rather than one
// value at a time, which is the more natural shape for a fixed-arity
// production (a binary operator node, say) rather than a repetition.
func Fold(zero any, combine func(acc any, args []any, state any) any) Callback {
	return func(args []any, state any) any {
		return combine(zero, args, state)
	}
}
