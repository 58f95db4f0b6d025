// Package reader exposes the input as a lazy, restartable cursor over
// code units of a declared encoding, with peek/bump/marker/reset and an
// optional wide-word peek for bulk literal comparison.
package reader

// Unit is one code unit of the reader's encoding, or EOF.
type Unit = int32

// EOF is the distinguished sentinel returned by Peek past the end of input.
const EOF Unit = -1

// Marker is an opaque, restorable snapshot of a Reader's position.
// Invariant: Reset(m) restores exactly the state observed when Marker
// returned m.
type Marker struct {
	pos int
}

// Pos returns the byte offset a Marker denotes.
func (m Marker) Pos() int { return m.pos }

// DecodeResult reports the outcome of decoding one code point.
type DecodeResult int

const (
	DecodeOK DecodeResult = iota
	DecodeEOF
	DecodeLeadsWithTrailing
	DecodeMissingTrailing
	DecodeInvalidTrailing
	DecodeSurrogate
	DecodeOverlong
	DecodeOutOfRange
)

// Encoding groups raw bytes into code units and, for character
// encodings, decodes them into runes.
type Encoding interface {
	// Name identifies the encoding, used in error messages.
	Name() string

	// IsCharacterEncoding reports whether DecodeRune is meaningful.
	// False for raw byte encodings.
	IsCharacterEncoding() bool

	// PeekUnit reads the code unit at pos without consuming it.
	// width is 0 at or past EOF.
	PeekUnit(content []byte, pos int) (u Unit, width int)

	// DecodeRune decodes one code point starting at pos. On failure,
	// width still advances past the invalid sequence so recovery can
	// resume immediately after it.
	DecodeRune(content []byte, pos int) (r rune, result DecodeResult, width int)
}

// Reader is a restartable cursor over content encoded with Encoding.
//
// Readers are value types: copying one (by assignment, or by passing
// by value) yields an independent cursor over the same backing
// content, which is what lets peek/peek_not and choice's lookahead
// speculate on a reader without disturbing the caller's.
type Reader struct {
	src *Source
	pos int
	enc Encoding
}

// New builds a Reader over content, named for error reporting.
func New(name string, content []byte, enc Encoding) Reader {
	return Reader{src: NewSource(name, content), pos: 0, enc: enc}
}

// FromBytes builds an anonymous Reader over an in-memory byte slice.
// File, argv, and BOM-sniffing adapters are external collaborators and
// are not provided by this package.
func FromBytes(content []byte, enc Encoding) Reader {
	return New("", content, enc)
}

// FromString builds an anonymous Reader over an in-memory string.
func FromString(content string, enc Encoding) Reader {
	return New("", []byte(content), enc)
}

func (r Reader) Encoding() Encoding { return r.enc }
func (r Reader) Len() int           { return r.src.Len() }
func (r Reader) Pos() int           { return r.pos }

// Peek returns the code unit at the current position without consuming it.
func (r Reader) Peek() Unit {
	u, _ := r.enc.PeekUnit(r.src.content, r.pos)
	return u
}

// Bump advances by one code unit. Must not be called when Peek() == EOF.
func (r *Reader) Bump() {
	_, w := r.enc.PeekUnit(r.src.content, r.pos)
	if w <= 0 {
		panic("reader: Bump called at EOF")
	}
	r.pos += w
}

// Marker snapshots the current position.
func (r Reader) Marker() Marker { return Marker{r.pos} }

// Reset restores a position snapshotted by Marker.
func (r *Reader) Reset(m Marker) { r.pos = m.pos }

// IsEOF reports whether the cursor is at or past the end of input.
func (r Reader) IsEOF() bool { return r.pos >= r.src.Len() }

// DecodeRune decodes one code point at the current position without
// consuming it; only meaningful when Encoding().IsCharacterEncoding().
func (r Reader) DecodeRune() (rune, DecodeResult, int) {
	return r.enc.DecodeRune(r.src.content, r.pos)
}

// PeekWord reads up to 8 raw bytes at the current position without
// consuming them, packed little-endian, for bulk literal comparison.
// n is the number of valid bytes, less than 8 near EOF.
func (r Reader) PeekWord() (word uint64, n int) {
	content := r.src.content
	rem := content[r.pos:]
	if len(rem) > 8 {
		rem = rem[:8]
	}
	n = len(rem)
	for i := 0; i < n; i++ {
		word |= uint64(rem[i]) << (8 * i)
	}
	return
}

// Remaining returns the unconsumed tail of the input as raw bytes.
func (r Reader) Remaining() []byte { return r.src.content[r.pos:] }

// Advance skips n raw bytes directly, bypassing the encoding's
// per-code-unit decoding. Used by matchers (e.g. the literal trie)
// that have already determined how many bytes a match consumed.
func (r *Reader) Advance(n int) { r.pos += n }

// SourceName, Line, and Col implement pcomb.SourcePos.
func (r Reader) SourceName() string { return r.src.Name() }
func (r Reader) Line() int          { l, _ := r.src.LineCol(r.pos); return l }
func (r Reader) Col() int           { _, c := r.src.LineCol(r.pos); return c }

// LineCol converts an arbitrary byte offset within this reader's
// content into a 1-based line and column; used by rules that need to
// report an error at a position other than the reader's current one.
func (r Reader) LineCol(pos int) (line, col int) { return r.src.LineCol(pos) }
