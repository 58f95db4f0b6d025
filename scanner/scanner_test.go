package scanner

import (
	"testing"

	"github.com/ava12/pcomb/reader"
	"github.com/ava12/pcomb/rule"
)

func TestParseAdvancesOnSuccess(t *testing.T) {
	s := New(reader.FromString("abc", reader.ASCII), nil, nil)
	var args rule.Args
	if !s.Parse(rule.LitValue("ab"), &args) {
		t.Fatalf("Parse() failed")
	}
	if s.State() != OK {
		t.Fatalf("State() = %v; want OK", s.State())
	}
	if len(args.Values()) != 1 || args.Values()[0] != "ab" {
		t.Fatalf("args = %v; want [ab]", args.Values())
	}
	if string(s.Remaining()) != "c" {
		t.Fatalf("Remaining() = %q; want \"c\"", s.Remaining())
	}
}

func TestParseFailureLeavesPositionUnchanged(t *testing.T) {
	s := New(reader.FromString("abc", reader.ASCII), nil, nil)
	mark := s.Position()
	var args rule.Args
	if s.Parse(rule.Lit("xyz"), &args) {
		t.Fatalf("Parse() unexpectedly succeeded")
	}
	if s.State() != Failed {
		t.Fatalf("State() = %v; want Failed", s.State())
	}
	if s.Position() != mark {
		t.Fatalf("position changed on a failed Parse")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	s := New(reader.FromString("abc", reader.ASCII), nil, nil)
	if !s.Peek(rule.Lit("ab")) {
		t.Fatalf("Peek() = false; want true")
	}
	if string(s.Remaining()) != "abc" {
		t.Fatalf("Remaining() = %q; want \"abc\" (Peek must not consume)", s.Remaining())
	}
}

func TestBranchCommitsToFirstMatch(t *testing.T) {
	s := New(reader.FromString("bcd", reader.ASCII), nil, nil)
	var args rule.Args
	if !s.Branch(&args, rule.LitValue("ab"), rule.LitValue("bc")) {
		t.Fatalf("Branch() failed")
	}
	if args.Values()[0] != "bc" {
		t.Fatalf("args = %v; want [bc]", args.Values())
	}
}

func TestResetRestoresPosition(t *testing.T) {
	s := New(reader.FromString("abc", reader.ASCII), nil, nil)
	mark := s.Position()
	var args rule.Args
	s.Parse(rule.LitValue("ab"), &args)
	s.Reset(mark)
	if string(s.Remaining()) != "abc" {
		t.Fatalf("Remaining() after Reset = %q; want \"abc\"", s.Remaining())
	}
}

func TestBeginRecoveryThenFinishResynchronizes(t *testing.T) {
	s := New(reader.FromString("garbage;rest", reader.ASCII), nil, nil)
	id := s.BeginRecovery(rule.Lit(";"))
	if s.State() != Recovering {
		t.Fatalf("State() = %v; want Recovering", s.State())
	}
	if id.String() == "" {
		t.Fatalf("BeginRecovery returned a zero uuid")
	}
	s.Finish()
	if s.State() != OK {
		t.Fatalf("State() = %v; want OK", s.State())
	}
	// Finish scans up to the sync token but does not consume it, so the
	// next parse step can match it normally.
	if string(s.Remaining()) != ";rest" {
		t.Fatalf("Remaining() = %q; want \";rest\"", s.Remaining())
	}
}

func TestFailedScannerNoOpsOnFurtherParse(t *testing.T) {
	s := New(reader.FromString("abcd", reader.ASCII), nil, nil)
	var args rule.Args
	if s.Parse(rule.Lit("xyz"), &args) {
		t.Fatalf("Parse() unexpectedly succeeded")
	}
	if s.State() != Failed {
		t.Fatalf("State() = %v; want Failed", s.State())
	}
	mark := s.Position()
	// A Failed scanner must not run rl at all, let alone let a
	// matching rule reset it back to OK.
	if s.Parse(rule.LitValue("ab"), &args) {
		t.Fatalf("Parse() succeeded on a Failed scanner")
	}
	if s.State() != Failed {
		t.Fatalf("State() = %v; want Failed (a Failed scanner must stay Failed)", s.State())
	}
	if s.Position() != mark {
		t.Fatalf("position moved while Failed")
	}
}

func TestRecoveringScannerStaysRecoveringOnFailure(t *testing.T) {
	s := New(reader.FromString("abc", reader.ASCII), nil, nil)
	s.BeginRecovery(rule.Lit(";"))
	var args rule.Args
	if s.Parse(rule.Lit("xyz"), &args) {
		t.Fatalf("Parse() unexpectedly succeeded")
	}
	if s.State() != Recovering {
		t.Fatalf("State() = %v; want Recovering (a failure during recovery must not drop to Failed)", s.State())
	}
}

func TestFinishSurrendersAtRecoveryLimit(t *testing.T) {
	s := New(reader.FromString("junk}more;rest", reader.ASCII), nil, nil)
	s.BeginRecovery(rule.Lit(";"), rule.Lit("}"))
	s.Finish()
	if s.State() != OK {
		t.Fatalf("State() = %v; want OK", s.State())
	}
	if string(s.Remaining()) != "}more;rest" {
		t.Fatalf("Remaining() = %q; want \"}more;rest\" (stopped at the limit, not the sync beyond it)", s.Remaining())
	}
}

func TestCancelLeavesScannerFailed(t *testing.T) {
	s := New(reader.FromString("garbage;rest", reader.ASCII), nil, nil)
	s.BeginRecovery(rule.Lit(";"))
	s.Cancel()
	if s.State() != Failed {
		t.Fatalf("State() = %v; want Failed", s.State())
	}
	if string(s.Remaining()) != "garbage;rest" {
		t.Fatalf("Remaining() = %q; want unchanged (Cancel must not scan forward)", s.Remaining())
	}
}

func TestErrorMarksFailedAndReports(t *testing.T) {
	var got []string
	h := &capturingHandler{onError: func(production string, err error) {
		got = append(got, err.Error())
	}}
	s := New(reader.FromString("x", reader.ASCII), nil, h)
	s.Error("demo", "bad thing: %s", "oops")
	if s.State() != Failed {
		t.Fatalf("State() = %v; want Failed", s.State())
	}
	if len(got) != 1 {
		t.Fatalf("handler saw %d errors; want 1", len(got))
	}
}

type capturingHandler struct {
	rule.NopHandler
	onError func(production string, err error)
}

func (h *capturingHandler) HandleError(production string, err error) {
	h.onError(production, err)
}
