package admin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/visacms/internal/models"
)

func TestTxLogConfirm(t *testing.T) {
	log := NewTxLog[models.Visa]()
	tx := log.Begin(OpCreate, "", nil)

	assert.Equal(t, TxPending, tx.State)
	assert.Equal(t, 1, log.Pending())

	require.NoError(t, log.Confirm(tx.ID))
	assert.Equal(t, 0, log.Pending())
	assert.Equal(t, TxConfirmed, log.History()[0].State)
}

func TestTxLogRollbackReturnsSnapshot(t *testing.T) {
	log := NewTxLog[models.Visa]()
	snapshot := []Entry[models.Visa]{{Record: models.Visa{Slug: "work", Name: "Work"}}}

	tx := log.Begin(OpDelete, "work", snapshot)
	snapshot[0].Record.Name = "mutated after begin"

	cause := errors.New("boom")
	restored, err := log.Rollback(tx.ID, cause)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, "Work", restored[0].Record.Name)

	history := log.History()
	require.Len(t, history, 1)
	assert.Equal(t, TxRolledBack, history[0].State)
	assert.ErrorIs(t, history[0].Err, cause)
}

func TestTxLogInvalidTransitions(t *testing.T) {
	log := NewTxLog[models.Visa]()
	tx := log.Begin(OpUpdate, "work", nil)
	require.NoError(t, log.Confirm(tx.ID))

	assert.ErrorIs(t, log.Confirm(tx.ID), ErrInvalidTransition)
	_, err := log.Rollback(tx.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, log.Confirm("unknown"), ErrInvalidTransition)
}

func TestTxLogHistoryBounded(t *testing.T) {
	log := NewTxLog[models.Visa]()
	for i := 0; i < txHistory+10; i++ {
		require.NoError(t, log.Confirm(log.Begin(OpCreate, "", nil).ID))
	}
	assert.Len(t, log.History(), txHistory)
}

func TestTxStateString(t *testing.T) {
	assert.Equal(t, "pending", TxPending.String())
	assert.Equal(t, "rolled back", TxRolledBack.String())
}
