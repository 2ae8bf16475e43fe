package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bilgisen/visacms/internal/models"
)

var (
	// ErrProvisional is returned when acting on an entry whose save is still in flight
	ErrProvisional = errors.New("record is still being saved")
	// ErrCancelled is returned when the user declines a destructive action
	ErrCancelled = errors.New("action cancelled")
)

// Record is a content record the controller can edit
type Record interface {
	RecordKey() string
	Label() string
	Validate() error
}

// Gateway is the remote collection behind the controller
type Gateway[R Record] interface {
	List(ctx context.Context) ([]R, error)
	Create(ctx context.Context, rec R) (R, error)
	Update(ctx context.Context, key string, rec R) (R, error)
	Delete(ctx context.Context, key string) (R, error)
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

type Mode int

const (
	Creating Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "creating"
}

// Form is the state of the edit form. Key is set only while editing.
type Form[R Record] struct {
	Mode  Mode
	Key   string
	Draft R
}

// Entry is a cached record. Provisional entries stand in for a save that
// has not been confirmed yet.
type Entry[R Record] struct {
	Record      R
	Provisional bool
	TxID        string
}

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

// Controller holds one editing session over a collection. Mutations are
// applied to the local copy first and rolled back if the gateway rejects them.
type Controller[R Record] struct {
	kind    string
	gw      Gateway[R]
	confirm Confirmer
	log     zerolog.Logger

	// serializes mutations so a rollback never clobbers another change
	opMu sync.Mutex

	mu      sync.Mutex
	entries []Entry[R]
	form    Form[R]
	tx      *TxLog[R]
	notices []Notice
}

// New creates a controller. kind names the records in notices, e.g. "News".
func New[R Record](kind string, gw Gateway[R], confirm Confirmer, log zerolog.Logger) *Controller[R] {
	return &Controller[R]{
		kind:    kind,
		gw:      gw,
		confirm: confirm,
		log:     log.With().Str("component", "admin").Str("kind", kind).Logger(),
		tx:      NewTxLog[R](),
	}
}

// Refresh replaces the local copy with the remote collection
func (c *Controller[R]) Refresh(ctx context.Context) error {
	if err := c.reload(ctx); err != nil {
		c.mu.Lock()
		c.notify(NoticeError, fmt.Sprintf("Failed to load %s.", strings.ToLower(c.kind)), err)
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Controller[R]) reload(ctx context.Context) error {
	items, err := c.gw.List(ctx)
	if err != nil {
		return err
	}

	entries := make([]Entry[R], 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.RecordKey()) == "" || strings.TrimSpace(item.Label()) == "" {
			c.log.Debug().Str("key", item.RecordKey()).Msg("skipping incomplete record")
			continue
		}
		entries = append(entries, Entry[R]{Record: item})
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

// Entries returns a copy of the local collection
func (c *Controller[R]) Entries() []Entry[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry[R](nil), c.entries...)
}

func (c *Controller[R]) Form() Form[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetDraft replaces the draft without changing the mode
func (c *Controller[R]) SetDraft(draft R) {
	c.mu.Lock()
	c.form.Draft = draft
	c.mu.Unlock()
}

// SelectForEdit loads the record stored under key into the form. Any unsaved
// draft is discarded.
func (c *Controller[R]) SelectForEdit(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(key)
	if i < 0 {
		return models.ErrNotFound
	}
	if c.entries[i].Provisional {
		return ErrProvisional
	}

	c.form = Form[R]{Mode: Editing, Key: key, Draft: c.entries[i].Record}
	return nil
}

// Cancel abandons the current edit and returns to an empty create form
func (c *Controller[R]) Cancel() {
	c.mu.Lock()
	c.form = Form[R]{Mode: Creating}
	c.mu.Unlock()
}

// Submit saves the draft: a create in Creating mode, an update of Form.Key in
// Editing mode. On failure the draft is kept so the user can retry.
func (c *Controller[R]) Submit(ctx context.Context) (R, error) {
	var zero R

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	form := c.form
	if err := form.Draft.Validate(); err != nil {
		c.notify(NoticeError, err.Error(), err)
		c.mu.Unlock()
		return zero, err
	}

	var tx *Txn[R]
	switch form.Mode {
	case Editing:
		i := c.indexOf(form.Key)
		if i < 0 {
			c.notify(NoticeError, fmt.Sprintf("%s no longer exists.", c.kind), models.ErrNotFound)
			c.mu.Unlock()
			return zero, models.ErrNotFound
		}
		tx = c.tx.Begin(OpUpdate, form.Key, c.entries)
		c.entries[i] = Entry[R]{Record: form.Draft, Provisional: true, TxID: tx.ID}
	default:
		tx = c.tx.Begin(OpCreate, "", c.entries)
		placeholder := Entry[R]{Record: form.Draft, Provisional: true, TxID: tx.ID}
		c.entries = append([]Entry[R]{placeholder}, c.entries...)
	}
	c.mu.Unlock()

	var saved R
	var err error
	if form.Mode == Editing {
		saved, err = c.gw.Update(ctx, form.Key, form.Draft)
	} else {
		saved, err = c.gw.Create(ctx, form.Draft)
	}

	c.mu.Lock()
	if err != nil {
		c.rollback(tx, err)
		c.notify(NoticeError, fmt.Sprintf("Failed to save %s: %v", strings.ToLower(c.kind), err), err)
		c.mu.Unlock()
		return zero, err
	}

	c.replaceProvisional(tx.ID, saved)
	if cerr := c.tx.Confirm(tx.ID); cerr != nil {
		c.log.Error().Err(cerr).Str("tx", tx.ID).Msg("confirming transaction")
	}
	c.form = Form[R]{Mode: Creating}
	if form.Mode == Editing {
		c.notify(NoticeSuccess, fmt.Sprintf("%s updated successfully!", c.kind), nil)
	} else {
		c.notify(NoticeSuccess, fmt.Sprintf("%s added successfully!", c.kind), nil)
	}
	c.mu.Unlock()

	c.reloadAfterCommit(ctx)
	return saved, nil
}

// Delete removes the record stored under key after the user confirms it
func (c *Controller[R]) Delete(ctx context.Context, key string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	i := c.indexOf(key)
	if i < 0 {
		c.mu.Unlock()
		return models.ErrNotFound
	}
	if c.entries[i].Provisional {
		c.mu.Unlock()
		return ErrProvisional
	}
	label := c.entries[i].Record.Label()
	c.mu.Unlock()

	if c.confirm != nil && !c.confirm.Confirm(ctx, fmt.Sprintf("Delete %s %q?", strings.ToLower(c.kind), label)) {
		return ErrCancelled
	}

	c.mu.Lock()
	i = c.indexOf(key)
	if i < 0 {
		c.mu.Unlock()
		return models.ErrNotFound
	}
	tx := c.tx.Begin(OpDelete, key, c.entries)
	c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
	c.mu.Unlock()

	_, err := c.gw.Delete(ctx, key)

	c.mu.Lock()
	if err != nil {
		c.rollback(tx, err)
		c.notify(NoticeError, fmt.Sprintf("Failed to delete %s: %v", strings.ToLower(c.kind), err), err)
		c.mu.Unlock()
		return err
	}

	if cerr := c.tx.Confirm(tx.ID); cerr != nil {
		c.log.Error().Err(cerr).Str("tx", tx.ID).Msg("confirming transaction")
	}
	if c.form.Mode == Editing && c.form.Key == key {
		c.form = Form[R]{Mode: Creating}
	}
	c.notify(NoticeSuccess, fmt.Sprintf("%s deleted successfully!", c.kind), nil)
	c.mu.Unlock()

	c.reloadAfterCommit(ctx)
	return nil
}

// Notices returns the notifications recorded so far, oldest first
func (c *Controller[R]) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.notices...)
}

// History returns the finished transactions of this session
func (c *Controller[R]) History() []Txn[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tx.History()
}

func (c *Controller[R]) reloadAfterCommit(ctx context.Context) {
	if err := c.reload(ctx); err != nil {
		c.log.Warn().Err(err).Msg("refresh after save failed, keeping local copy")
	}
}

// must hold c.mu
func (c *Controller[R]) rollback(tx *Txn[R], cause error) {
	snapshot, err := c.tx.Rollback(tx.ID, cause)
	if err != nil {
		c.log.Error().Err(err).Str("tx", tx.ID).Msg("rolling back transaction")
		return
	}
	c.entries = snapshot
	c.log.Warn().Err(cause).Str("tx", tx.ID).Str("op", string(tx.Op)).Msg("rolled back")
}

// must hold c.mu
func (c *Controller[R]) replaceProvisional(txID string, rec R) {
	for i := range c.entries {
		if c.entries[i].TxID == txID {
			c.entries[i] = Entry[R]{Record: rec}
			return
		}
	}
	c.entries = append([]Entry[R]{{Record: rec}}, c.entries...)
}

// must hold c.mu
func (c *Controller[R]) indexOf(key string) int {
	for i := range c.entries {
		if c.entries[i].Record.RecordKey() == key {
			return i
		}
	}
	return -1
}

// must hold c.mu
func (c *Controller[R]) notify(kind NoticeKind, msg string, err error) {
	c.notices = append(c.notices, Notice{Kind: kind, Message: msg, Err: err})
}
