package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when a transaction is finished twice
var ErrInvalidTransition = errors.New("invalid transaction transition")

type TxState int

const (
	TxPending TxState = iota
	TxConfirmed
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxConfirmed:
		return "confirmed"
	case TxRolledBack:
		return "rolled back"
	}
	return fmt.Sprintf("TxState(%d)", int(s))
}

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Txn is one optimistic mutation. Snapshot holds the cache as it was before
// the tentative change was applied.
type Txn[R Record] struct {
	ID        string
	Op        Op
	Key       string
	State     TxState
	Snapshot  []Entry[R]
	Err       error
	StartedAt time.Time
	EndedAt   time.Time
}

// history kept after transactions finish
const txHistory = 50

// TxLog tracks optimistic mutations. It is not safe for concurrent use; the
// controller calls it under its own lock.
type TxLog[R Record] struct {
	pending map[string]*Txn[R]
	done    []*Txn[R]
	now     func() time.Time
}

func NewTxLog[R Record]() *TxLog[R] {
	return &TxLog[R]{
		pending: make(map[string]*Txn[R]),
		now:     time.Now,
	}
}

// Begin opens a pending transaction over a copy of snapshot
func (l *TxLog[R]) Begin(op Op, key string, snapshot []Entry[R]) *Txn[R] {
	tx := &Txn[R]{
		ID:        uuid.NewString(),
		Op:        op,
		Key:       key,
		State:     TxPending,
		Snapshot:  append([]Entry[R](nil), snapshot...),
		StartedAt: l.now(),
	}
	l.pending[tx.ID] = tx
	return tx
}

func (l *TxLog[R]) Confirm(id string) error {
	tx, err := l.finish(id, TxConfirmed)
	if err != nil {
		return err
	}
	tx.Snapshot = nil
	return nil
}

// Rollback marks the transaction failed and returns the snapshot to restore
func (l *TxLog[R]) Rollback(id string, cause error) ([]Entry[R], error) {
	tx, err := l.finish(id, TxRolledBack)
	if err != nil {
		return nil, err
	}
	tx.Err = cause
	snapshot := tx.Snapshot
	tx.Snapshot = nil
	return snapshot, nil
}

func (l *TxLog[R]) finish(id string, to TxState) (*Txn[R], error) {
	tx, ok := l.pending[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not pending", ErrInvalidTransition, id)
	}

	delete(l.pending, id)
	tx.State = to
	tx.EndedAt = l.now()

	l.done = append(l.done, tx)
	if len(l.done) > txHistory {
		l.done = l.done[len(l.done)-txHistory:]
	}
	return tx, nil
}

// Pending returns the number of unfinished transactions
func (l *TxLog[R]) Pending() int {
	return len(l.pending)
}

// History returns finished transactions, oldest first
func (l *TxLog[R]) History() []Txn[R] {
	out := make([]Txn[R], len(l.done))
	for i, tx := range l.done {
		out[i] = *tx
	}
	return out
}
