package tracelog_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/framegrace/texelkit/core"
	"github.com/framegrace/texelkit/tracelog"
)

func TestTraceRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	tl, err := tracelog.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tl.Close()

	now := time.Now()
	want := []core.DispatchTrace{
		{Seq: 3, Time: now, Kind: core.TraceMouse, Detail: "4,2", Consumed: false, Target: "*core.Canvas[int]"},
		{Seq: 2, Time: now, Kind: core.TraceFocus, Detail: "forward", Consumed: true, Target: "*core.Canvas[int]"},
		{Seq: 1, Time: now, Kind: core.TraceKey, Detail: "Tab", Consumed: true, Target: ""},
	}
	for i := len(want) - 1; i >= 0; i-- {
		tl.TraceDispatch(want[i])
	}
	tl.Flush()

	got, err := tl.Tail(10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(core.DispatchTrace{}, "Time")); diff != "" {
		t.Errorf("Tail (-want +got):\n%s", diff)
	}
}

func TestCountConsumed(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	tl, err := tracelog.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tl.Close()

	tl.TraceDispatch(core.DispatchTrace{Seq: 1, Time: time.Now(), Kind: core.TraceKey, Consumed: true})
	tl.TraceDispatch(core.DispatchTrace{Seq: 2, Time: time.Now(), Kind: core.TraceKey, Consumed: false})
	tl.TraceDispatch(core.DispatchTrace{Seq: 3, Time: time.Now(), Kind: core.TraceMouse, Consumed: true})
	tl.Flush()

	n, err := tl.CountConsumed()
	if err != nil {
		t.Fatalf("CountConsumed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountConsumed = %d, want 2", n)
	}
}

func TestTailLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	tl, err := tracelog.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tl.Close()

	for i := 1; i <= 5; i++ {
		tl.TraceDispatch(core.DispatchTrace{Seq: uint64(i), Time: time.Now(), Kind: core.TraceKey})
	}
	tl.Flush()

	got, err := tl.Tail(2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Tail(2) returned %d traces", len(got))
	}
	if got[0].Seq != 5 || got[1].Seq != 4 {
		t.Errorf("Tail order = %d, %d; want newest first", got[0].Seq, got[1].Seq)
	}
}

func TestTracesSurviveReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	tl, err := tracelog.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tl.TraceDispatch(core.DispatchTrace{Seq: 1, Time: time.Now(), Kind: core.TraceResize, Detail: "80x24", Consumed: true})
	if err := tl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tl2, err := tracelog.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tl2.Close()

	got, err := tl2.Tail(10)
	if err != nil {
		t.Fatalf("Tail after reopen: %v", err)
	}
	if len(got) != 1 || got[0].Detail != "80x24" {
		t.Errorf("persisted traces = %+v, want the resize record", got)
	}
}

func TestSmallBatchesFlushOnTimeout(t *testing.T) {
	cfg := tracelog.DefaultConfig(filepath.Join(t.TempDir(), "trace.db"))
	cfg.BatchSize = 2
	cfg.BatchTimeout = 10 * time.Millisecond
	tl, err := tracelog.OpenWithConfig(cfg)
	if err != nil {
		t.Fatalf("OpenWithConfig: %v", err)
	}
	defer tl.Close()

	tl.TraceDispatch(core.DispatchTrace{Seq: 1, Time: time.Now(), Kind: core.TraceKey})

	deadline := time.After(2 * time.Second)
	for {
		got, err := tl.Tail(1)
		if err != nil {
			t.Fatalf("Tail: %v", err)
		}
		if len(got) == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("single trace never flushed on timeout")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
