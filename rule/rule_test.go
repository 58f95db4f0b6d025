package rule

import (
	"testing"

	"github.com/ava12/pcomb/reader"
)

func run(t *testing.T, rl Rule, input string) (ok bool, args []any, pos int, errs int) {
	t.Helper()
	r := reader.FromString(input, reader.UTF8)
	h := &countingHandler{}
	ctx := NewContext(nil, h)
	var a Args
	ok = Run(rl, ctx, &r, &a)
	return ok, a.Values(), r.Pos(), h.errors
}

type countingHandler struct {
	NopHandler
	errors int
}

func (h *countingHandler) HandleError(string, error) { h.errors++ }

func TestSeqAppendsInOrder(t *testing.T) {
	ok, args, pos, _ := run(t, Seq(LitValue("a"), LitValue("b")), "ab")
	if !ok || pos != 2 {
		t.Fatalf("ok=%v pos=%d; want true, 2", ok, pos)
	}
	if len(args) != 2 || args[0] != "a" || args[1] != "b" {
		t.Fatalf("args = %v; want [a b]", args)
	}
}

func TestSeqFailsHardAfterFirstElement(t *testing.T) {
	// Seq's first element committed ("a" matched); "c" then fails.
	// This must be a hard failure that consumed "a", not a silent one.
	ok, _, pos, _ := run(t, Seq(Lit("a"), Lit("c")), "ab")
	if ok {
		t.Fatalf("Seq unexpectedly succeeded")
	}
	if pos != 1 {
		t.Fatalf("pos = %d; want 1 (first element's match stands)", pos)
	}
}

func TestChoicePicksFirstMatchingAlternative(t *testing.T) {
	ok, args, _, _ := run(t, Choice(LitValue("foo"), LitValue("bar")), "bar")
	if !ok || len(args) != 1 || args[0] != "bar" {
		t.Fatalf("ok=%v args=%v; want true, [bar]", ok, args)
	}
}

func TestChoiceCommitsOnceAlternativeConditionMatches(t *testing.T) {
	// "a" is the condition of "a" >> "y": once it matches on "ax", Choice
	// has committed to that alternative, so "y" failing is a hard failure
	// and the later "ax" alternative is never tried (Try is what undoes a
	// committed attempt).
	rl := Choice(Seq(Lit("a"), Lit("y")), LitValue("ax"))
	ok, args, pos, errs := run(t, rl, "ax")
	if ok || pos != 1 || errs != 1 {
		t.Fatalf("ok=%v pos=%d errs=%d; want false, 1, 1", ok, pos, errs)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v; want [] (the committed alternative produced nothing)", args)
	}
}

func TestChoiceReportsNoBranchMatched(t *testing.T) {
	ok, _, _, errs := run(t, Choice(Lit("x"), Lit("y")), "z")
	if ok {
		t.Fatalf("Choice unexpectedly succeeded")
	}
	if errs != 1 {
		t.Fatalf("errs = %d; want 1", errs)
	}
}

func TestOptSucceedsWhenInnerFails(t *testing.T) {
	ok, args, pos, errs := run(t, Seq(Opt(LitValue("a")), LitValue("b")), "b")
	if !ok || pos != 1 || errs != 0 {
		t.Fatalf("ok=%v pos=%d errs=%d; want true, 1, 0", ok, pos, errs)
	}
	if len(args) != 2 || args[0] != nil || args[1] != "b" {
		t.Fatalf("args = %v; want [<nil> b] (opt contributes one nil on failure)", args)
	}
}

func TestOptSucceedsWhenInnerMatches(t *testing.T) {
	ok, args, _, _ := run(t, Opt(LitValue("a")), "a")
	if !ok || len(args) != 1 || args[0] != "a" {
		t.Fatalf("ok=%v args=%v; want true, [a]", ok, args)
	}
}

func TestListRequiresAtLeastOne(t *testing.T) {
	ok, _, _, errs := run(t, List(LitValue("a")), "bbb")
	if ok || errs != 1 {
		t.Fatalf("ok=%v errs=%d; want false, 1", ok, errs)
	}
}

func TestListMatchesAsManyAsPossible(t *testing.T) {
	ok, args, pos, _ := run(t, List(LitValue("a")), "aaab")
	if !ok || pos != 3 {
		t.Fatalf("ok=%v pos=%d; want true, 3", ok, pos)
	}
	if len(args) != 3 {
		t.Fatalf("args = %v; want 3 elements", args)
	}
}

func TestOptListAllowsZero(t *testing.T) {
	ok, args, pos, _ := run(t, OptList(LitValue("a")), "xyz")
	if !ok || pos != 0 || len(args) != 0 {
		t.Fatalf("ok=%v pos=%d args=%v; want true, 0, []", ok, pos, args)
	}
}

func TestListSepRejectsTrailingSeparator(t *testing.T) {
	ok, _, _, errs := run(t, ListSep(LitValue("a"), Lit(",")), "a,a,")
	if ok || errs != 1 {
		t.Fatalf("ok=%v errs=%d; want false, 1 (dangling separator)", ok, errs)
	}
}

func TestListTrailingSepAcceptsTrailingSeparator(t *testing.T) {
	ok, args, pos, _ := run(t, ListTrailingSep(LitValue("a"), Lit(",")), "a,a,")
	if !ok || pos != 4 || len(args) != 2 {
		t.Fatalf("ok=%v pos=%d args=%v; want true, 4, 2 elements", ok, pos, args)
	}
}

func TestParenthesizedReportsUnclosedBracket(t *testing.T) {
	ok, _, _, errs := run(t, Parenthesized(LitValue("x")), "(x")
	if ok || errs != 1 {
		t.Fatalf("ok=%v errs=%d; want false, 1", ok, errs)
	}
}

func TestParenthesizedMatches(t *testing.T) {
	ok, args, pos, _ := run(t, Parenthesized(LitValue("x")), "(x)")
	if !ok || pos != 3 || len(args) != 1 || args[0] != "x" {
		t.Fatalf("ok=%v pos=%d args=%v; want true, 3, [x]", ok, pos, args)
	}
}

func TestTryUndoesPartialConsumptionOnFailure(t *testing.T) {
	rl := Choice(
		Try(Seq(LitValue("a"), Lit("never"))),
		LitValue("a"),
	)
	ok, args, pos, _ := run(t, rl, "a")
	if !ok || pos != 1 {
		t.Fatalf("ok=%v pos=%d; want true, 1", ok, pos)
	}
	if len(args) != 1 || args[0] != "a" {
		t.Fatalf("args = %v; want [a] (Try's partial append undone)", args)
	}
}

func TestRecoverAlwaysSucceedsAndScansToSync(t *testing.T) {
	rl := Recover(Lit("good"), Lit(";"))
	ok, _, pos, errs := run(t, rl, "bad stuff;")
	if !ok {
		t.Fatalf("Recover did not succeed")
	}
	if errs != 1 {
		t.Fatalf("errs = %d; want 1 (body's failure reported)", errs)
	}
	// Recover stops right before the sync token without consuming it.
	if pos != len("bad stuff") {
		t.Fatalf("pos = %d; want %d (scanned up to, not past, sync)", pos, len("bad stuff"))
	}
}

func TestFindSurrendersAtLimitWithoutConsumingIt(t *testing.T) {
	// "}" (the limit) appears before ";" (the sync): Find must give up
	// right at "}", not scan through it looking for a ";" that lies
	// beyond the enclosing region.
	ok, _, pos, _ := run(t, Find(Lit(";"), Lit("}")), "junk}more;")
	if ok {
		t.Fatalf("Find unexpectedly found sync past a limit token")
	}
	if pos != len("junk") {
		t.Fatalf("pos = %d; want %d (stopped at, not past, the limit)", pos, len("junk"))
	}
}

func TestFindReachesSyncWhenNoLimitIntervenes(t *testing.T) {
	ok, _, pos, _ := run(t, Find(Lit(";"), Lit("}")), "junk;more")
	if !ok || pos != len("junk") {
		t.Fatalf("ok=%v pos=%d; want true, %d", ok, pos, len("junk"))
	}
}

func TestRecoverSurrendersAtLimit(t *testing.T) {
	rl := Recover(Lit("good"), Lit(";"), Lit("}"))
	ok, _, pos, errs := run(t, rl, "bad}more;")
	if !ok || errs != 1 {
		t.Fatalf("ok=%v errs=%d; want true, 1", ok, errs)
	}
	if pos != len("bad") {
		t.Fatalf("pos = %d; want %d (Recover surrendered at the limit)", pos, len("bad"))
	}
}

func TestLimitStopsRecursion(t *testing.T) {
	var inner Rule
	limited := Func("x", func(ctx *Context, r *reader.Reader, args *Args) bool {
		return Run(inner, ctx, r, args)
	})
	inner = Limit(3, Choice(Seq(Lit("a"), limited), Nothing()))

	ok, _, _, errs := run(t, inner, "aaaaaaaa")
	if ok || errs == 0 {
		t.Fatalf("ok=%v errs=%d; want false, >0 (recursion limit hit)", ok, errs)
	}
}

func TestEOF(t *testing.T) {
	ok, _, _, _ := run(t, EOF(), "")
	if !ok {
		t.Fatalf("EOF() failed on empty input")
	}
	ok, _, _, _ = run(t, EOF(), "x")
	if ok {
		t.Fatalf("EOF() unexpectedly succeeded on non-empty input")
	}
}

func TestAny(t *testing.T) {
	ok, args, pos, _ := run(t, Any(), "é")
	if !ok || pos != 2 || args[0] != 'é' {
		t.Fatalf("ok=%v pos=%d args=%v; want true, 2, ['é']", ok, pos, args)
	}
}

func TestKeywordVetoesIdentifierPrefix(t *testing.T) {
	kw := Keyword("int", IdentTail)
	ok, _, pos, _ := run(t, kw, "interval")
	if ok {
		t.Fatalf("Keyword matched \"int\" inside \"interval\" (pos=%d)", pos)
	}
}

func TestIdentifier(t *testing.T) {
	ident := Identifier(AsciiAlpha, IdentTail)
	ok, args, pos, _ := run(t, ident, "foo_bar2 ")
	if !ok || pos != 8 || args[0] != "foo_bar2" {
		t.Fatalf("ok=%v pos=%d args=%v; want true, 8, [foo_bar2]", ok, pos, args)
	}
}

func TestWhitespaceSkippedBetweenTokens(t *testing.T) {
	rl := WithWhitespace(Char("ws", AsciiSpace), Seq(LitValue("a"), LitValue("b")))
	ok, args, pos, _ := run(t, rl, "a   b")
	if !ok || pos != 5 || len(args) != 2 {
		t.Fatalf("ok=%v pos=%d args=%v; want true, 5, 2 elems", ok, pos, args)
	}
}

func TestNoWhitespaceSuppressesSkipping(t *testing.T) {
	rl := WithWhitespace(Char("ws", AsciiSpace), NoWhitespace(Seq(LitValue("a"), LitValue("b"))))
	ok, _, _, _ := run(t, rl, "a b")
	if ok {
		t.Fatalf("NoWhitespace unexpectedly allowed whitespace between tokens")
	}
}

func TestDigitsStopsAtNonDigit(t *testing.T) {
	ok, args, pos, _ := run(t, Digits(10, 0), "1234x")
	if !ok || pos != 4 || args[0] != "1234" {
		t.Fatalf("ok=%v pos=%d args=%v; want true, 4, [1234]", ok, pos, args)
	}
}

func TestForbiddenLeadingZero(t *testing.T) {
	rl := ForbiddenLeadingZero(Digits(10, 0))
	ok, _, _, _ := run(t, rl, "0123")
	if ok {
		t.Fatalf("ForbiddenLeadingZero accepted a leading-zero number")
	}
	ok, _, _, _ = run(t, rl, "123")
	if !ok {
		t.Fatalf("ForbiddenLeadingZero rejected a valid non-zero-leading number")
	}
}

func TestPeekSucceedsWithoutConsuming(t *testing.T) {
	rl := Seq(Func("peek", func(ctx *Context, r *reader.Reader, args *Args) bool {
		return Peek(Lit("ab")).run(ctx, r, args)
	}), LitValue("ab"))
	ok, args, pos, _ := run(t, rl, "ab")
	if !ok || pos != 2 {
		t.Fatalf("ok=%v pos=%d; want true, 2 (Peek must not consume)", ok, pos)
	}
	if len(args) != 1 || args[0] != "ab" {
		t.Fatalf("args = %v; want [ab] (Peek appends nothing)", args)
	}
}

func TestPeekFailsWithoutConsuming(t *testing.T) {
	ok, _, pos, _ := run(t, Peek(Lit("xy")), "ab")
	if ok || pos != 0 {
		t.Fatalf("ok=%v pos=%d; want false, 0", ok, pos)
	}
}

func TestPeekNotInvertsResult(t *testing.T) {
	ok, _, pos, _ := run(t, PeekNot(Lit("xy")), "ab")
	if !ok || pos != 0 {
		t.Fatalf("ok=%v pos=%d; want true, 0 (PeekNot succeeds when inner would fail)", ok, pos)
	}
	ok, _, _, _ = run(t, PeekNot(Lit("ab")), "ab")
	if ok {
		t.Fatalf("PeekNot unexpectedly succeeded when inner would match")
	}
}

func TestRefResolvesToItsTarget(t *testing.T) {
	ref := NewRef()
	ref.Set(LitValue("x"))
	ok, args, pos, _ := run(t, ref, "x")
	if !ok || pos != 1 || len(args) != 1 || args[0] != "x" {
		t.Fatalf("ok=%v pos=%d args=%v; want true, 1, [x]", ok, pos, args)
	}
}

func TestRefSupportsRecursiveGrammar(t *testing.T) {
	// balanced(x) -> "(" balanced(x) ")" | "x"
	ref := NewRef()
	ref.Set(Choice(Seq(Lit("("), ref, Lit(")")), LitValue("x")))

	ok, _, pos, _ := run(t, ref, "((x))")
	if !ok || pos != 5 {
		t.Fatalf("ok=%v pos=%d; want true, 5", ok, pos)
	}
}

func TestQuotedMatchesSimpleBody(t *testing.T) {
	ok, args, pos, _ := run(t, Quoted(`"`, Single('"'), nil), `"hello"`)
	if !ok || pos != 7 {
		t.Fatalf("ok=%v pos=%d; want true, 7", ok, pos)
	}
	if len(args) != 1 || args[0] != "hello" {
		t.Fatalf("args = %v; want [hello]", args)
	}
}

func TestQuotedReportsUnclosedString(t *testing.T) {
	ok, _, _, errs := run(t, Quoted(`"`, Single('"'), nil), `"hello`)
	if ok || errs != 1 {
		t.Fatalf("ok=%v errs=%d; want false, 1", ok, errs)
	}
}

func TestQuotedAppliesEscape(t *testing.T) {
	esc := Escape('\\', map[rune]rune{'n': '\n', '"': '"'})
	ok, args, _, _ := run(t, Quoted(`"`, Single('"'), esc), `"a\nb"`)
	if !ok || len(args) != 1 || args[0] != "a\nb" {
		t.Fatalf("ok=%v args=%v; want true, [a\\nb]", ok, args)
	}
}

func TestEscapeRejectsUnknownIntroducer(t *testing.T) {
	esc := Escape('\\', map[rune]rune{'n': '\n'})
	ok, _, pos, _ := run(t, esc, `\q`)
	if ok || pos != 0 {
		t.Fatalf("ok=%v pos=%d; want false, 0 (unknown escape leaves reader untouched)", ok, pos)
	}
}

func TestDelimitedSuppressesWhitespaceInside(t *testing.T) {
	rl := Delimited("<", ">", LitValue("a b"))
	ok, _, pos, _ := run(t, rl, "<a b>")
	if !ok || pos != 5 {
		t.Fatalf("ok=%v pos=%d; want true, 5", ok, pos)
	}
}

func TestTerminatorConsumesTerminatorAndStopsJustPastIt(t *testing.T) {
	rl := Terminator(Lit("."), Any())
	ok, args, pos, _ := run(t, rl, "abc.")
	if !ok || pos != 4 {
		t.Fatalf("ok=%v pos=%d; want true, 4 (stops just past the terminator)", ok, pos)
	}
	if len(args) != 3 || args[0] != 'a' || args[1] != 'b' || args[2] != 'c' {
		t.Fatalf("args = %v; want [a b c] (terminator itself appends nothing)", args)
	}
}

func TestTerminatorReportsBodyFailureWithoutTerminator(t *testing.T) {
	ok, _, _, errs := run(t, Terminator(Lit(";"), Lit("x")), "yz")
	if ok || errs != 1 {
		t.Fatalf("ok=%v errs=%d; want false, 1", ok, errs)
	}
}

func TestLineCommentSkipsToAndThroughNewline(t *testing.T) {
	rl := Seq(LineComment("#"), LitValue("next"))
	ok, args, pos, _ := run(t, rl, "# a comment\nnext")
	if !ok || pos != len("# a comment\nnext") {
		t.Fatalf("ok=%v pos=%d; want true, %d", ok, pos, len("# a comment\nnext"))
	}
	if len(args) != 1 || args[0] != "next" {
		t.Fatalf("args = %v; want [next]", args)
	}
}

func TestLineCommentStopsAtEOFWithoutTrailingNewline(t *testing.T) {
	ok, _, pos, _ := run(t, LineComment("#"), "# no newline here")
	if !ok || pos != len("# no newline here") {
		t.Fatalf("ok=%v pos=%d; want true, %d", ok, pos, len("# no newline here"))
	}
}

func TestBacktickedMatchesRawBody(t *testing.T) {
	ok, args, pos, _ := run(t, Backticked(), "`raw\\ntext`")
	if !ok || pos != len("`raw\\ntext`") {
		t.Fatalf("ok=%v pos=%d; want true, %d", ok, pos, len("`raw\\ntext`"))
	}
	if len(args) != 1 || args[0] != `raw\ntext` {
		t.Fatalf("args = %v; want [raw\\ntext] (Backticked does not interpret escapes)", args)
	}
}
