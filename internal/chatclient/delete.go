package chatclient

import (
	"context"
	"errors"
	"sync"
)

type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeletePendingConfirmation
	DeleteInProgress
)

func (s DeleteState) String() string {
	switch s {
	case DeleteIdle:
		return "idle"
	case DeletePendingConfirmation:
		return "pending_confirmation"
	case DeleteInProgress:
		return "deleting"
	default:
		return "unknown"
	}
}

var (
	ErrDeleteBusy       = errors.New("a delete is already in progress")
	ErrNothingToConfirm = errors.New("no delete is awaiting confirmation")
)

// DeleteFlow asks for confirmation before removing a session. Only one
// delete runs at a time.
type DeleteFlow struct {
	transcript *Transcript

	mu     sync.Mutex
	state  DeleteState
	target string
}

func NewDeleteFlow(transcript *Transcript) *DeleteFlow {
	return &DeleteFlow{transcript: transcript}
}

func (f *DeleteFlow) State() (DeleteState, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.target
}

// Request moves to PendingConfirmation for id. A newer request replaces an
// unconfirmed one.
func (f *DeleteFlow) Request(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == DeleteInProgress {
		return ErrDeleteBusy
	}
	f.state = DeletePendingConfirmation
	f.target = id
	return nil
}

func (f *DeleteFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == DeletePendingConfirmation {
		f.state = DeleteIdle
		f.target = ""
	}
}

// Confirm deletes the pending target. The flow returns to Idle whether or not
// the call succeeds.
func (f *DeleteFlow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != DeletePendingConfirmation {
		f.mu.Unlock()
		return ErrNothingToConfirm
	}
	f.state = DeleteInProgress
	target := f.target
	f.mu.Unlock()

	err := f.transcript.api.DeleteSession(ctx, target)
	if err == nil {
		f.transcript.forget(target)
	}

	f.mu.Lock()
	f.state = DeleteIdle
	f.target = ""
	f.mu.Unlock()
	return err
}
