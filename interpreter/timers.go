package interpreter

import "github.com/example/formjs/runtime"

// The deferred-call queue emulates delayed and repeating callbacks without
// real concurrency: scripts register work, and it runs only when the host
// explicitly drains the queue. There is no implicit event loop.

type deferredCall struct {
	fn     *runtime.Value
	args   []*runtime.Value
	handle int // 0 for a one-shot entry
}

type repeatingEntry struct {
	fn     *runtime.Value
	args   []*runtime.Value
	active bool
}

type timerQueue struct {
	queue      []deferredCall
	repeating  map[int]*repeatingEntry
	nextTicket int
}

// Schedule appends a one-shot entry and returns an opaque ticket.
func (ctx *Context) Schedule(fn *runtime.Value, args []*runtime.Value) int {
	ctx.timers.nextTicket++
	ctx.timers.queue = append(ctx.timers.queue, deferredCall{fn: fn, args: args})
	return ctx.timers.nextTicket
}

// ScheduleRepeating registers a repeating entry and returns its handle.
func (ctx *Context) ScheduleRepeating(fn *runtime.Value, args []*runtime.Value) int {
	if ctx.timers.repeating == nil {
		ctx.timers.repeating = make(map[int]*repeatingEntry)
	}
	ctx.timers.nextTicket++
	handle := ctx.timers.nextTicket
	ctx.timers.repeating[handle] = &repeatingEntry{fn: fn, args: args, active: true}
	ctx.timers.queue = append(ctx.timers.queue, deferredCall{fn: fn, args: args, handle: handle})
	return handle
}

// CancelRepeating deactivates a handle. Clearing it before the entry is next
// drained cancels it.
func (ctx *Context) CancelRepeating(handle int) {
	if entry, ok := ctx.timers.repeating[handle]; ok {
		entry.active = false
		delete(ctx.timers.repeating, handle)
	}
}

// DrainTimers processes exactly the entries queued at the moment it is
// invoked. Entries scheduled during the drain (including re-queued repeating
// entries) wait for a future call. The first uncaught scripted error is
// reported after the round completes.
func (ctx *Context) DrainTimers() error {
	n := len(ctx.timers.queue)
	if n == 0 {
		return nil
	}
	batch := ctx.timers.queue[:n]
	ctx.timers.queue = ctx.timers.queue[n:]

	rt := newRuntime(ctx)
	var firstErr error
	for _, call := range batch {
		if call.handle != 0 {
			entry, ok := ctx.timers.repeating[call.handle]
			if !ok || !entry.active {
				continue
			}
			_, err := rt.Call(call.fn, runtime.Undefined, call.args)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if entry, ok := ctx.timers.repeating[call.handle]; ok && entry.active {
				ctx.timers.queue = append(ctx.timers.queue, call)
			}
			continue
		}
		_, err := rt.Call(call.fn, runtime.Undefined, call.args)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
