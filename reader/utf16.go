package reader

import "encoding/binary"

// UTF16Encoding decodes content as little-endian UTF-16. Code units
// are 16-bit words; DecodeRune additionally combines surrogate pairs.
type UTF16Encoding struct{}

func (UTF16Encoding) Name() string             { return "utf-16" }
func (UTF16Encoding) IsCharacterEncoding() bool { return true }

func (UTF16Encoding) PeekUnit(content []byte, pos int) (Unit, int) {
	if pos+2 > len(content) {
		return EOF, 0
	}
	return Unit(binary.LittleEndian.Uint16(content[pos:])), 2
}

func (UTF16Encoding) DecodeRune(content []byte, pos int) (rune, DecodeResult, int) {
	if pos+2 > len(content) {
		return 0, DecodeEOF, 0
	}
	u0 := binary.LittleEndian.Uint16(content[pos:])

	if u0 < 0xD800 || u0 > 0xDFFF {
		return rune(u0), DecodeOK, 2
	}
	if u0 >= 0xDC00 {
		return 0, DecodeLeadsWithTrailing, 2
	}

	if pos+4 > len(content) {
		return 0, DecodeMissingTrailing, 2
	}
	u1 := binary.LittleEndian.Uint16(content[pos+2:])
	if u1 < 0xDC00 || u1 > 0xDFFF {
		return 0, DecodeInvalidTrailing, 2
	}

	r := ((rune(u0-0xD800) << 10) | rune(u1-0xDC00)) + 0x10000
	return r, DecodeOK, 4
}

// UTF16 is the shared UTF16Encoding value.
var UTF16 Encoding = UTF16Encoding{}

// UTF32Encoding decodes content as little-endian UTF-32. One code unit
// is one code point.
type UTF32Encoding struct{}

func (UTF32Encoding) Name() string             { return "utf-32" }
func (UTF32Encoding) IsCharacterEncoding() bool { return true }

func (UTF32Encoding) PeekUnit(content []byte, pos int) (Unit, int) {
	if pos+4 > len(content) {
		return EOF, 0
	}
	return Unit(binary.LittleEndian.Uint32(content[pos:])), 4
}

func (UTF32Encoding) DecodeRune(content []byte, pos int) (rune, DecodeResult, int) {
	if pos+4 > len(content) {
		return 0, DecodeEOF, 0
	}
	v := binary.LittleEndian.Uint32(content[pos:])
	if v >= 0xD800 && v <= 0xDFFF {
		return 0, DecodeSurrogate, 4
	}
	if v > 0x10FFFF {
		return 0, DecodeOutOfRange, 4
	}
	return rune(v), DecodeOK, 4
}

// UTF32 is the shared UTF32Encoding value.
var UTF32 Encoding = UTF32Encoding{}
