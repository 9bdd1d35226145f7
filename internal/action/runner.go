// Package action runs one user action at a time off the request path and
// keeps its last status for the UI to poll.
package action

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"jobfinder-engine/internal/domain"
)

var ErrBusy = errors.New("action already running")

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

type Status struct {
	Action string `json:"action"`
	State  State  `json:"state"`
	// Message is the status line text.
	Message string `json:"message"`
	// Error is the failure text shown to the user in a dialog.
	Error string `json:"error,omitempty"`
	// Notice is a success text shown to the user in a dialog.
	Notice     string     `json:"notice,omitempty"`
	ErrorKind  string     `json:"error_kind,omitempty"`
	Run        uint64     `json:"run"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (s Status) Running() bool { return s.State == StateRunning }

// Result is what a successful run reports. An empty Message keeps the status
// line from before the run.
type Result struct {
	Message string
	Notice  string
}

// Done is a Result with only a status line.
func Done(msg string) Result { return Result{Message: msg} }

type Func func(ctx context.Context) (Result, error)

type Runner struct {
	name    string
	failMsg string
	onDone  func(Status)

	mu   sync.Mutex
	st   Status
	done chan struct{}
}

// NewRunner returns an idle runner. failMsg replaces the status line when a
// run fails; when empty the error text is used. onDone is called after every
// run with the final status.
func NewRunner(name, failMsg string, onDone func(Status)) *Runner {
	return &Runner{
		name:    name,
		failMsg: failMsg,
		onDone:  onDone,
		st:      Status{Action: name, State: StateIdle},
	}
}

func (r *Runner) Name() string { return r.name }

// Start begins a run unless one is already in flight. ctx must outlive the
// caller's request; it bounds the run itself.
func (r *Runner) Start(ctx context.Context, runningMsg string, fn Func) error {
	r.mu.Lock()
	if r.st.State == StateRunning {
		r.mu.Unlock()
		return ErrBusy
	}
	prev := r.st.Message
	now := time.Now().UTC()
	r.st = Status{
		Action:    r.name,
		State:     StateRunning,
		Message:   runningMsg,
		Run:       r.st.Run + 1,
		StartedAt: &now,
	}
	done := make(chan struct{})
	r.done = done
	run := r.st.Run
	r.mu.Unlock()

	log.Printf("[%s] run=%d started", r.name, run)
	go r.exec(ctx, run, prev, fn, done)
	return nil
}

func (r *Runner) exec(ctx context.Context, run uint64, prev string, fn Func, done chan struct{}) {
	defer close(done)

	res, err := r.call(ctx, fn)

	r.mu.Lock()
	now := time.Now().UTC()
	st := r.st
	st.FinishedAt = &now
	if err != nil {
		st.State = StateFailed
		st.Error = err.Error()
		st.ErrorKind = domain.Kind(err)
		st.Message = r.failMsg
		if st.Message == "" {
			st.Message = st.Error
		}
	} else {
		st.State = StateSucceeded
		st.Message = res.Message
		st.Notice = res.Notice
		if res.Message == "" {
			st.Message = prev
		}
	}
	r.st = st
	r.mu.Unlock()

	if err != nil {
		log.Printf("[%s] run=%d failed kind=%s err=%v", r.name, run, st.ErrorKind, err)
	} else {
		log.Printf("[%s] run=%d ok msg=%q dur_ms=%d", r.name, run, st.Message, now.Sub(*st.StartedAt).Milliseconds())
	}
	if r.onDone != nil {
		r.onDone(st)
	}
}

func (r *Runner) call(ctx context.Context, fn Func) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(ctx)
}

func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st
}

// Wait blocks until the current run, if any, has finished and its completion
// hook has returned.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}
