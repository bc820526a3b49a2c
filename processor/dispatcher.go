package processor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/logging"
	"github.com/hupe1980/dialogmesh/validator"
)

// actionCallLogger is implemented by loggers with a dedicated action call
// record (logging.DialogLogger).
type actionCallLogger interface {
	LogActionCall(action, mode string, dur time.Duration, success bool, err error)
}

// Dispatcher executes validated action calls. It is safe for concurrent use.
type Dispatcher struct {
	logger logging.Logger
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher creates a Dispatcher logging to logger (nil discards).
func NewDispatcher(logger logging.Logger) *Dispatcher {
	return &Dispatcher{logger: logging.OrNoOp(logger)}
}

// Dispatch runs calls in encounter order against the merged action inventory
// and returns the directives produced, in call order. The result is never nil.
//
// Effect calls are started on a context detached from ctx cancellation and
// are not awaited.
func (d *Dispatcher) Dispatch(ctx context.Context, sess core.SessionContext, actions core.Actions, calls []core.ActionCall) []core.Directive {
	directives := make([]core.Directive, 0)
	for _, call := range calls {
		act, ok := actions[call.Name]
		if !ok {
			d.logger.Warn("dispatch.action.unknown", "session_id", sess.ID, "action", call.Name, "error", core.ErrUnknownAction.Error())
			continue
		}
		args, err := validator.Validate(act.Descriptor, call.Parameters)
		if err != nil {
			d.logger.Warn("dispatch.action.invalid", "session_id", sess.ID, "action", call.Name, "error", err.Error())
			continue
		}

		switch act.Binding.Mode() {
		case core.ModeDirective:
			if dir, ok := d.callDirective(ctx, sess, act.Binding, call.Name, args); ok {
				directives = append(directives, dir)
			}
		default:
			d.startEffect(ctx, sess, act.Binding, call.Name, args, call.Schedule)
		}
	}
	return directives
}

func (d *Dispatcher) callDirective(ctx context.Context, sess core.SessionContext, b core.FunctionBinding, name string, args core.Arguments) (dir core.Directive, ok bool) {
	start := time.Now()
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
				d.logger.Error("dispatch.directive.panic", "session_id", sess.ID, "action", name, "provider", b.Name(), "recover", r)
			}
		}()
		dir, err = b.CallDirective(ctx, sess, name, args)
	}()
	d.record(name, b.Mode(), time.Since(start), err)
	if err != nil {
		d.logger.Warn("dispatch.directive.failed", "session_id", sess.ID, "action", name, "provider", b.Name(), "error", err.Error())
		return core.Directive{}, false
	}
	return dir, true
}

func (d *Dispatcher) startEffect(ctx context.Context, sess core.SessionContext, b core.FunctionBinding, name string, args core.Arguments, delay time.Duration) {
	effCtx := context.WithoutCancel(ctx)
	if delay > 0 {
		d.logger.Info("dispatch.effect.scheduled", "session_id", sess.ID, "action", name, "delay_ms", delay.Milliseconds())
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("dispatch.effect.rejected", "session_id", sess.ID, "action", name, "provider", b.Name(), "error", ErrClosed.Error())
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		if delay > 0 {
			t := time.NewTimer(delay)
			<-t.C
		}
		start := time.Now()
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = panicError(r)
					d.logger.Error("dispatch.effect.panic", "session_id", sess.ID, "action", name, "provider", b.Name(), "recover", r)
				}
			}()
			err = b.CallEffect(effCtx, sess, name, args)
		}()
		d.record(name, b.Mode(), time.Since(start), err)
		if err != nil {
			d.logger.Warn("dispatch.effect.failed", "session_id", sess.ID, "action", name, "provider", b.Name(), "error", err.Error())
		}
	}()
}

func (d *Dispatcher) record(name string, mode core.DispatchMode, dur time.Duration, err error) {
	if l, ok := d.logger.(actionCallLogger); ok {
		l.LogActionCall(name, mode.String(), dur, err == nil, err)
		return
	}
	d.logger.Debug("dispatch.action.done", "action", name, "mode", mode.String(), "duration_ms", dur.Milliseconds(), "success", err == nil)
}

// Close stops accepting effects and waits for the started ones. Effects
// dispatched after Close are logged and dropped.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Wait(ctx)
}

// Wait blocks until every started effect has finished or ctx is done. It
// must not race with Dispatch; use Close while turns may still be running.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ErrClosed is reported for effects dispatched after Close.
var ErrClosed = errors.New("dispatcher closed")

// ErrPanic marks errors converted from a recovered panic.
var ErrPanic = errors.New("panic recovered")

func panicError(r any) error {
	return fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack())
}
