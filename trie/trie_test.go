package trie

import (
	"testing"
	"unicode"

	"github.com/ava12/pcomb/reader"
)

func TestLongestMatchWins(t *testing.T) {
	m := NewMatcher([]string{"+", "+=", "++"})
	r := reader.FromString("++=", reader.ASCII)
	lit, ok := m.Match(&r)
	if !ok || lit != "++" {
		t.Fatalf("Match() = %q, %v; want \"++\", true", lit, ok)
	}
	if r.Pos() != 2 {
		t.Fatalf("r.Pos() = %d; want 2", r.Pos())
	}
}

func TestNoMatchLeavesReaderUntouched(t *testing.T) {
	m := NewMatcher([]string{"if", "else"})
	r := reader.FromString("while", reader.ASCII)
	_, ok := m.Match(&r)
	if ok {
		t.Fatalf("Match() unexpectedly succeeded")
	}
	if r.Pos() != 0 {
		t.Fatalf("r.Pos() = %d; want 0 (untouched on no match)", r.Pos())
	}
}

func TestTrailingVetoRejectsKeywordPrefix(t *testing.T) {
	isIdentTail := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }
	m := NewMatcher([]string{"int", "interval"})
	m.WithVeto("int", isIdentTail)

	r := reader.FromString("interval x", reader.ASCII)
	lit, ok := m.Match(&r)
	if !ok || lit != "interval" {
		t.Fatalf("Match() = %q, %v; want \"interval\", true", lit, ok)
	}
}

func TestTrailingVetoAllowsKeywordAtWordBoundary(t *testing.T) {
	isIdentTail := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }
	m := NewMatcher([]string{"int", "interval"})
	m.WithVeto("int", isIdentTail)

	r := reader.FromString("int x", reader.ASCII)
	lit, ok := m.Match(&r)
	if !ok || lit != "int" {
		t.Fatalf("Match() = %q, %v; want \"int\", true", lit, ok)
	}
	if r.Pos() != 3 {
		t.Fatalf("r.Pos() = %d; want 3", r.Pos())
	}
}

func TestCaseFold(t *testing.T) {
	m := NewMatcher([]string{"select"}, CaseFold())
	r := reader.FromString("SELECT * ", reader.ASCII)
	lit, ok := m.Match(&r)
	if !ok || lit != "select" {
		t.Fatalf("Match() = %q, %v; want \"select\", true", lit, ok)
	}
	if r.Pos() != 6 {
		t.Fatalf("r.Pos() = %d; want 6", r.Pos())
	}
}

func TestLiterals(t *testing.T) {
	lits := []string{"a", "bb", "ccc"}
	m := NewMatcher(lits)
	got := m.Literals()
	if len(got) != len(lits) {
		t.Fatalf("Literals() = %v; want %v", got, lits)
	}
	for i := range lits {
		if got[i] != lits[i] {
			t.Fatalf("Literals()[%d] = %q; want %q", i, got[i], lits[i])
		}
	}
}
