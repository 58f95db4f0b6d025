/*
Package pcomb is a declarative parser-combinator engine.

Users assemble grammars out of small rule values — literals, character
classes, sequences, choices, repetitions, delimited regions, keywords,
scanners — and run them over an input to produce typed values, parse
trees, validation results, or traces.

Consists of subpackages:
  - reader: lazy, restartable cursors over ASCII/UTF-8/UTF-16/UTF-32/raw
    byte input;
  - trie: longest-match dispatch over a set of string literals;
  - rule: the rule-execution protocol (tokens, branch parsers, sequence,
    choice, option, loop, try/recover, whitespace);
  - scanner: an imperative driver over the same protocol for
    hand-written productions;
  - sink: the callback/value pipeline that turns produced arguments
    into user values;
  - tree: a generic, walkable parse-tree representation.

Typical usage is:

 1. Compose rule values using the builder functions in package rule.

 2. Declare one or more Production types exposing a Rule and,
    optionally, a Value sink/callback and a Whitespace rule.

 3. Call Parse, Match, Validate, or Trace with an input and a root
    Production.
*/
package pcomb

import "github.com/ava12/pcomb/errs"

// Error classes, each reserving up to 999 error codes for one
// component. Mirrors the banded error-code convention of the engine
// this library's architecture is grounded in.
//
// These alias package errs, which holds the actual definitions so that
// package rule (imported below via Production) can depend on the error
// type without creating an import cycle with this package.
const (
	ReaderErrors  = errs.ReaderErrors
	TrieErrors    = errs.TrieErrors
	RuleErrors    = errs.RuleErrors
	ScannerErrors = errs.ScannerErrors
	SinkErrors    = errs.SinkErrors
)

// Error is the error type used throughout pcomb and its subpackages.
type Error = errs.Error

// SourcePos is implemented by anything that can locate itself within a
// named input.
type SourcePos = errs.SourcePos

// NewError builds an Error. name/line/col are appended to the message
// when name is non-empty and line and col are both non-zero.
func NewError(code int, msg, name string, line, col int) *Error {
	return errs.NewError(code, msg, name, line, col)
}

// Format builds an Error with no position information, applying
// fmt.Sprintf to msg when params is non-empty.
func Format(code int, msg string, params ...any) *Error {
	return errs.Format(code, msg, params...)
}

// FormatPos builds an Error located at pos, applying fmt.Sprintf to msg
// when params is non-empty.
func FormatPos(pos SourcePos, code int, msg string, params ...any) *Error {
	return errs.FormatPos(pos, code, msg, params...)
}
