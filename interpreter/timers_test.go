package interpreter

import (
	"testing"

	"github.com/example/formjs/runtime"
)

func recorder(ctx *Context, log *[]string, tag string) *runtime.Value {
	return ctx.NewNativeFunction(tag, func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		entry := tag
		for _, a := range args {
			entry += " " + a.ToString()
		}
		*log = append(*log, entry)
		return runtime.Undefined, nil
	})
}

func TestDrainRunsQueuedEntriesInOrder(t *testing.T) {
	ctx := NewContext(nil)
	var log []string
	ctx.Schedule(recorder(ctx, &log, "a"), nil)
	ctx.Schedule(recorder(ctx, &log, "b"), []*runtime.Value{runtime.NewNumber(7)})

	if err := ctx.DrainTimers(); err != nil {
		t.Fatalf("DrainTimers: %v", err)
	}
	if len(log) != 2 || log[0] != "a" || log[1] != "b 7" {
		t.Errorf("expected [a, b 7], got %v", log)
	}

	// one-shot entries do not run again
	log = nil
	if err := ctx.DrainTimers(); err != nil {
		t.Fatalf("DrainTimers: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("expected empty second round, got %v", log)
	}
}

// Entries scheduled during a drain wait for the next drain.
func TestDrainSnapshotsQueue(t *testing.T) {
	ctx := NewContext(nil)
	var log []string
	inner := recorder(ctx, &log, "inner")
	outer := ctx.NewNativeFunction("outer", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		log = append(log, "outer")
		ctx.Schedule(inner, nil)
		return runtime.Undefined, nil
	})
	ctx.Schedule(outer, nil)

	if err := ctx.DrainTimers(); err != nil {
		t.Fatal(err)
	}
	if len(log) != 1 || log[0] != "outer" {
		t.Errorf("first drain must run only the pre-queued entry, got %v", log)
	}

	if err := ctx.DrainTimers(); err != nil {
		t.Fatal(err)
	}
	if len(log) != 2 || log[1] != "inner" {
		t.Errorf("second drain must run the entry queued mid-drain, got %v", log)
	}
}

func TestRepeatingEntryRequeues(t *testing.T) {
	ctx := NewContext(nil)
	var log []string
	handle := ctx.ScheduleRepeating(recorder(ctx, &log, "tick"), nil)

	for i := 0; i < 3; i++ {
		if err := ctx.DrainTimers(); err != nil {
			t.Fatal(err)
		}
	}
	if len(log) != 3 {
		t.Fatalf("expected 3 ticks, got %v", log)
	}

	ctx.CancelRepeating(handle)
	if err := ctx.DrainTimers(); err != nil {
		t.Fatal(err)
	}
	if len(log) != 3 {
		t.Errorf("cancelled entry must not fire, got %v", log)
	}
}

// Clearing a handle before its queued entry is drained cancels that run too.
func TestCancelBeforeFirstDrain(t *testing.T) {
	ctx := NewContext(nil)
	var log []string
	handle := ctx.ScheduleRepeating(recorder(ctx, &log, "never"), nil)
	ctx.CancelRepeating(handle)

	if err := ctx.DrainTimers(); err != nil {
		t.Fatal(err)
	}
	if len(log) != 0 {
		t.Errorf("expected no runs, got %v", log)
	}
}

func TestCancelFromInsideCallback(t *testing.T) {
	ctx := NewContext(nil)
	var runs int
	var handle int
	fn := ctx.NewNativeFunction("once", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		runs++
		ctx.CancelRepeating(handle)
		return runtime.Undefined, nil
	})
	handle = ctx.ScheduleRepeating(fn, nil)

	for i := 0; i < 3; i++ {
		if err := ctx.DrainTimers(); err != nil {
			t.Fatal(err)
		}
	}
	if runs != 1 {
		t.Errorf("expected exactly 1 run, got %d", runs)
	}
}

// The first uncaught error is reported after the whole round runs.
func TestDrainReportsFirstErrorAfterRound(t *testing.T) {
	ctx := NewContext(nil)
	var log []string
	failing := ctx.NewNativeFunction("failing", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return nil, runtime.Throwf("first failure")
	})
	ctx.Schedule(failing, nil)
	ctx.Schedule(recorder(ctx, &log, "after"), nil)

	err := ctx.DrainTimers()
	if err == nil {
		t.Fatal("expected the callback error to surface")
	}
	thrown, ok := err.(*runtime.Thrown)
	if !ok || thrown.Value.ToString() != "first failure" {
		t.Errorf("expected first failure, got %v", err)
	}
	if len(log) != 1 {
		t.Errorf("later entries must still run, got %v", log)
	}
}

func TestScheduledScriptFunction(t *testing.T) {
	ctx := NewContext(nil)
	_, _, err := Execute("var fired = 0; function onTick(n) { fired = n; }", ctx)
	if err != nil {
		t.Fatal(err)
	}
	fn, _ := ctx.Global.Get("onTick")
	ctx.Schedule(fn, []*runtime.Value{runtime.NewNumber(9)})

	if err := ctx.DrainTimers(); err != nil {
		t.Fatal(err)
	}
	fired, _ := ctx.Global.Get("fired")
	if fired.Number != 9 {
		t.Errorf("expected fired=9, got %v", fired)
	}
}
