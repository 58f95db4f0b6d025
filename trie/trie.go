// Package trie compiles a set of string literals into a longest-match
// dispatcher, used to resolve alternatives of string literals (and
// keywords) without trying each one in turn.
package trie

import (
	"bytes"
	"sort"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/ava12/pcomb/reader"
)

// TrailingVeto rejects an otherwise-accepted match based on the rune
// that follows it — the mechanism keyword() uses to refuse "int" when
// it is actually the prefix of "interval".
type TrailingVeto func(next rune) bool

type entry struct {
	literal string
	veto    TrailingVeto
}

// Matcher dispatches on the longest literal, among a fixed set, that
// is a prefix of the reader's remaining input.
//
// Built on patricia.Trie (github.com/tchap/go-patricia/v2), the same
// library open-policy-agent/opa uses for its own prefix dispatch over
// bundle/data paths.
type Matcher struct {
	trie     *patricia.Trie
	fold     bool
	literals []string
}

// Option configures a Matcher at construction time.
type Option func(*Matcher)

// CaseFold makes the matcher case-insensitive. All literals inserted
// into one Matcher must agree on this setting.
func CaseFold() Option {
	return func(m *Matcher) { m.fold = true }
}

// NewMatcher compiles literals into a trie. Each literal may carry a
// TrailingVeto via WithVeto after construction.
func NewMatcher(literals []string, opts ...Option) *Matcher {
	m := &Matcher{trie: patricia.NewTrie()}
	for _, opt := range opts {
		opt(m)
	}
	for _, lit := range literals {
		m.trie.Insert(patricia.Prefix(m.key(lit)), entry{literal: lit})
	}
	m.literals = append([]string(nil), literals...)
	return m
}

// Literals returns the literals this matcher was built from, in
// declaration order — used to build "did you mean" suggestions when a
// match fails.
func (m *Matcher) Literals() []string {
	return m.literals
}

// WithVeto attaches a trailing-character veto to an already-inserted
// literal. literal must have been passed to NewMatcher.
func (m *Matcher) WithVeto(literal string, veto TrailingVeto) *Matcher {
	key := patricia.Prefix(m.key(literal))
	if item := m.trie.Get(key); item != nil {
		e := item.(entry)
		e.veto = veto
		m.trie.Delete(key)
		m.trie.Insert(key, e)
	}
	return m
}

func (m *Matcher) key(s string) []byte {
	if m.fold {
		return bytes.ToUpper([]byte(s))
	}
	return []byte(s)
}

type candidate struct {
	length int
	e      entry
}

// Match walks r greedily through the trie (spec §4.C step 1), records
// every accepting position (step 2), and on dispatch restores r to the
// longest accepted position whose trailing veto (if any) passes (steps
// 3-4). On no match, r is left untouched (Testable Property 1) and ok
// is false.
func (m *Matcher) Match(r *reader.Reader) (literal string, ok bool) {
	remaining := r.Remaining()
	if len(remaining) == 0 {
		return "", false
	}

	key := remaining
	if m.fold {
		key = bytes.ToUpper(remaining)
	}

	var candidates []candidate
	m.trie.VisitPrefixes(patricia.Prefix(key), func(prefix patricia.Prefix, item patricia.Item) error {
		candidates = append(candidates, candidate{length: len(prefix), e: item.(entry)})
		return nil
	})
	if len(candidates) == 0 {
		return "", false
	}

	// VisitPrefixes yields shortest-to-longest; ties broken by
	// earliest declaration are preserved because Insert never
	// reorders equal-length entries across separate keys.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].length > candidates[j].length
	})

	for _, c := range candidates {
		if m.passesVeto(c.e, remaining[c.length:]) {
			r.Advance(c.length)
			return c.e.literal, true
		}
	}

	return "", false
}

func (m *Matcher) passesVeto(e entry, rest []byte) bool {
	if e.veto == nil {
		return true
	}
	if len(rest) == 0 {
		return true
	}
	next, _ := utf8.DecodeRune(rest)
	return !e.veto(next)
}
