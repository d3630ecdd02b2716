// Package program implements ProgramRunner (spec §4.5): the Idle/Running/
// Exited state machine for Program services, deferring a verdict until the
// launched command exits or times out.
package program

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/predicate"
)

// maxOutputBytes bounds the captured stderr/stdout buffer (spec §4.5 "The
// output buffer is capped; bytes beyond the cap are discarded").
const maxOutputBytes = 4096

// processState is the OS-level handle kept outside model.Service, per the
// design-notes guidance to separate intrusive C state from optional Go
// fields (spec §9).
type processState struct {
	cmd       *exec.Cmd
	startTime time.Time
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	done      chan struct{} // closed once WaitAndReap has reaped this process
}

// Runner owns every Program service's in-flight process handle.
type Runner struct {
	mu    sync.Mutex
	procs map[string]*processState
}

// NewRunner returns an empty Runner.
func NewRunner() *Runner { return &Runner{procs: make(map[string]*processState)} }

// EventPoster is the subset of event.Bridge the runner needs; declared
// locally to avoid program importing event (which would create an import
// cycle were event ever to need program).
type EventPoster interface {
	Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string)
}

// Tick advances one Program service's state machine by one cycle (spec
// §4.5). command is the shell command line to run; timeout bounds the
// Running state.
func (r *Runner) Tick(svc *model.Service, command string, timeout time.Duration, bridge EventPoster) {
	r.mu.Lock()
	ps, running := r.procs[svc.Name]
	r.mu.Unlock()

	if running {
		elapsed := time.Since(ps.startTime)
		if elapsed <= timeout {
			// Still Running; defer verdict to a later cycle.
			return
		}
		// Timed out: kill, then let the WaitAndReap goroutine spawned by
		// start observe the exit, post status events, and clear the
		// handle — Wait must only ever be called once per *exec.Cmd.
		_ = ps.cmd.Process.Kill()
		<-ps.done
		r.start(svc, command, bridge)
		return
	}

	// Idle: nothing running yet, or the previous run was already reaped by
	// its WaitAndReap goroutine. Either way, start fresh.
	r.start(svc, command, bridge)
}

// start launches the configured command (Idle -> Running) and spawns
// WaitAndReap in its own goroutine so a fast-exiting command is evaluated
// as soon as it exits rather than only after the timeout elapses.
func (r *Runner) start(svc *model.Service, command string, bridge EventPoster) {
	cmd := exec.Command("sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &boundedWriter{buf: &stdout, max: maxOutputBytes}
	cmd.Stderr = &boundedWriter{buf: &stderr, max: maxOutputBytes}

	if err := cmd.Start(); err != nil {
		bridge.Post(svc, model.EventStatus, model.StateFailed, model.ActionExec,
			fmt.Sprintf("program %q failed to start: %v", command, err))
		return
	}

	bridge.Post(svc, model.EventStatus, model.StateSucceeded, model.ActionExec,
		fmt.Sprintf("program %q started, pid=%d", command, cmd.Process.Pid))

	ps := &processState{cmd: cmd, startTime: time.Now(), stdout: &stdout, stderr: &stderr, done: make(chan struct{})}
	r.mu.Lock()
	r.procs[svc.Name] = ps
	r.mu.Unlock()

	go r.WaitAndReap(context.Background(), svc, bridge)
}

// finishExited reads the exit status and captured output, then evaluates
// every status rule against it (spec §4.5 "Exited").
func (r *Runner) finishExited(svc *model.Service, ps *processState, bridge EventPoster) {
	exitCode := ps.cmd.ProcessState.ExitCode()

	output := ps.stderr.String()
	if output == "" {
		output = ps.stdout.String()
	}
	if output == "" {
		output = "(no output)"
	}

	for _, rule := range svc.Status {
		if predicate.Eval(rule.Op, int64(exitCode), int64(rule.Value)) {
			bridge.Post(svc, model.EventStatus, model.StateFailed, rule.Action,
				fmt.Sprintf("exit status %d %s %d: %s", exitCode, rule.Op, rule.Value, output))
		} else {
			bridge.Post(svc, model.EventStatus, model.StateSucceeded, rule.Action,
				fmt.Sprintf("exit status %d", exitCode))
		}
	}
}

// WaitAndReap blocks until the service's running command exits — naturally
// or via a Kill from Tick's timeout path — then evaluates status rules and
// clears the handle so the next Tick starts a fresh run. start spawns this
// in its own goroutine per launch so a short-lived command is reaped as
// soon as it exits rather than only noticed on a later Tick, without
// forcing every Tick to block on Wait.
func (r *Runner) WaitAndReap(ctx context.Context, svc *model.Service, bridge EventPoster) {
	r.mu.Lock()
	ps, ok := r.procs[svc.Name]
	r.mu.Unlock()
	if !ok {
		return
	}

	waited := make(chan struct{})
	go func() {
		_ = ps.cmd.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		r.finishExited(svc, ps, bridge)
		r.mu.Lock()
		delete(r.procs, svc.Name)
		r.mu.Unlock()
		close(ps.done)
	case <-ctx.Done():
	}
}

// boundedWriter discards bytes once max is reached (spec §4.5 output cap).
type boundedWriter struct {
	buf *bytes.Buffer
	max int
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	remaining := w.max - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
	} else {
		w.buf.Write(p)
	}
	return len(p), nil
}
