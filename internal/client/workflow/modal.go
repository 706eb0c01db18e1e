package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/events"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/protodesk/internal/common"
	"github.com/dmitrijs2005/protodesk/internal/logging"
)

const (
	LoadFailedMessage   = "Failed to load prototype."
	SubmitFailedMessage = "Failed to submit. Please try again."
)

var (
	ErrNotReady  = errors.New("modal is not ready")
	ErrReadOnly  = errors.New("view has nothing to submit")
	ErrDiscarded = errors.New("response discarded: modal was closed or retargeted")
)

// Gateway is the subset of the API the workflows use.
type Gateway interface {
	GetPrototype(ctx context.Context, id int64) (models.Prototype, error)
	CreatePrototype(ctx context.Context, form *client.PrototypeForm) (models.Prototype, error)
	UpdatePrototype(ctx context.Context, id int64, form *client.PrototypeForm) (models.Prototype, error)
	ReviewPrototype(ctx context.Context, id int64, feedback string) error
	AssignStorage(ctx context.Context, id int64, location string) error
	ApprovePrototype(ctx context.Context, id int64) error
}

// Options configures a Modal. Drafts and Events may be nil.
type Options struct {
	Drafts drafts.Repository
	Events events.Publisher
	Logger logging.Logger

	// OnSuccess is called once per successful submit or approve, after the
	// modal has closed. The list view uses it to refetch.
	OnSuccess func(kind Kind, prototypeID int64)
}

// Modal runs one workflow view at a time. It is safe for concurrent use;
// network calls are made without holding the lock.
type Modal struct {
	gw   Gateway
	opts Options

	mu       sync.Mutex
	kind     Kind
	target   int64
	state    State
	record   models.Prototype
	fields   Fields
	restored bool
	err      string
	gen      uint64
}

func NewModal(gw Gateway, opts Options) *Modal {
	if opts.Events == nil {
		opts.Events = events.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Modal{gw: gw, opts: opts}
}

// Snapshot is a copy of the modal state.
type Snapshot struct {
	Kind     Kind
	Target   int64
	State    State
	Record   models.Prototype
	Fields   Fields
	Restored bool
	Err      string
}

func (m *Modal) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Kind:     m.kind,
		Target:   m.target,
		State:    m.state,
		Record:   m.record,
		Fields:   m.fields,
		Restored: m.restored,
		Err:      m.err,
	}
}

func (m *Modal) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Open shows the modal for kind on prototype id (ignored for KindSubmit)
// and loads the record. It returns once the modal is Ready or in Error.
func (m *Modal) Open(ctx context.Context, kind Kind, id int64) error {
	if kind == KindApprove {
		return fmt.Errorf("%s has no modal view", kind)
	}

	m.mu.Lock()
	m.kind = kind
	if kind == KindSubmit {
		id = 0
	}
	m.target = id
	gen := m.resetLocked()
	m.mu.Unlock()

	return m.load(ctx, gen)
}

// Retarget switches an open modal to another prototype and reloads it.
func (m *Modal) Retarget(ctx context.Context, id int64) error {
	m.mu.Lock()
	if m.state == Closed {
		m.mu.Unlock()
		return ErrNotReady
	}
	m.target = id
	gen := m.resetLocked()
	m.mu.Unlock()

	return m.load(ctx, gen)
}

// Hide closes the modal but remembers its kind and target for Show.
func (m *Modal) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.state = Closed
}

// Show reopens a hidden modal, refetching the record.
func (m *Modal) Show(ctx context.Context) error {
	m.mu.Lock()
	kind, id := m.kind, m.target
	m.mu.Unlock()
	return m.Open(ctx, kind, id)
}

// Close discards the modal state. It is the only way out of Error.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.state = Closed
	m.record = models.Prototype{}
	m.fields = Fields{}
	m.restored = false
	m.err = ""
}

// SetFields edits the form. It is allowed in Ready only.
func (m *Modal) SetFields(fn func(f *Fields)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Ready {
		return ErrNotReady
	}
	fn(&m.fields)
	return nil
}

func (m *Modal) resetLocked() uint64 {
	m.gen++
	m.record = models.Prototype{}
	m.fields = Fields{}
	m.restored = false
	m.err = ""
	if m.kind.needsRecord() {
		m.state = Loading
	} else {
		m.state = Ready
	}
	return m.gen
}

func (m *Modal) load(ctx context.Context, gen uint64) error {
	m.mu.Lock()
	kind, id := m.kind, m.target
	m.mu.Unlock()

	var (
		record models.Prototype
		err    error
	)
	if kind.needsRecord() {
		record, err = m.gw.GetPrototype(ctx, id)
	}

	fields := seed(kind, record)
	restored := false
	if err == nil {
		restored = m.restoreDraft(ctx, kind, id, &fields)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return ErrDiscarded
	}
	if err != nil {
		m.opts.Logger.Warn(ctx, "failed to load prototype", "kind", kind.String(), "id", id, "error", err.Error())
		m.state = Error
		m.err = client.UserMessage(err, LoadFailedMessage)
		return err
	}

	m.record = record
	m.fields = fields
	m.restored = restored
	m.state = Ready
	return nil
}

// Submit validates the form and sends it. Validation failures return a
// *ValidationError and leave the modal untouched. A failed request returns
// the modal to Ready with the message set; typed fields are kept and file
// selections are cleared.
func (m *Modal) Submit(ctx context.Context) error {
	m.mu.Lock()
	if m.state != Ready {
		m.mu.Unlock()
		return ErrNotReady
	}
	kind, id := m.kind, m.target
	if kind == KindViewDetail {
		m.mu.Unlock()
		return ErrReadOnly
	}

	m.fields.trim()
	fields := m.fields
	if err := validate(kind, fields); err != nil {
		m.err = err.Error()
		m.mu.Unlock()
		return err
	}

	m.state = Submitting
	m.err = ""
	gen := m.gen
	m.mu.Unlock()

	resultID, err := m.send(ctx, kind, id, fields)

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return ErrDiscarded
	}
	if err != nil {
		m.state = Ready
		m.err = client.UserMessage(err, SubmitFailedMessage)
		m.fields.clearFiles()
		m.mu.Unlock()

		m.opts.Logger.Warn(ctx, "workflow submit failed", "kind", kind.String(), "id", id, "error", err.Error())
		m.saveDraft(ctx, kind, id, fields)
		return err
	}

	m.state = Closed
	m.record = models.Prototype{}
	m.fields = Fields{}
	m.restored = false
	m.mu.Unlock()

	m.deleteDraft(ctx, kind, id)
	m.succeeded(ctx, kind, resultID)
	return nil
}

func (m *Modal) send(ctx context.Context, kind Kind, id int64, f Fields) (int64, error) {
	switch kind {
	case KindSubmit:
		p, err := m.gw.CreatePrototype(ctx, f.Prototype.form())
		return p.ID, err
	case KindEdit:
		_, err := m.gw.UpdatePrototype(ctx, id, f.Prototype.form())
		return id, err
	case KindReview:
		return id, m.gw.ReviewPrototype(ctx, id, f.Review.Feedback)
	case KindAssignStorage:
		return id, m.gw.AssignStorage(ctx, id, f.Storage.StorageLocation)
	default:
		return id, fmt.Errorf("unsupported workflow kind %s", kind)
	}
}

// Approve marks a prototype approved. It does not open the modal.
func (m *Modal) Approve(ctx context.Context, id int64) error {
	if err := m.gw.ApprovePrototype(ctx, id); err != nil {
		m.opts.Logger.Warn(ctx, "approve failed", "id", id, "error", err.Error())
		return err
	}
	m.succeeded(ctx, KindApprove, id)
	return nil
}

func (m *Modal) succeeded(ctx context.Context, kind Kind, id int64) {
	if err := m.opts.Events.Publish(ctx, events.New(kind.String(), id)); err != nil {
		m.opts.Logger.Warn(ctx, "failed to publish workflow event", "kind", kind.String(), "error", err.Error())
	}
	if m.opts.OnSuccess != nil {
		m.opts.OnSuccess(kind, id)
	}
}

func (m *Modal) saveDraft(ctx context.Context, kind Kind, id int64, f Fields) {
	if m.opts.Drafts == nil {
		return
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return
	}
	d := &models.Draft{Kind: kind.String(), PrototypeID: id, Payload: payload, UpdatedAt: time.Now().UTC()}
	if err := m.opts.Drafts.Save(ctx, d); err != nil {
		m.opts.Logger.Warn(ctx, "failed to save draft", "kind", kind.String(), "id", id, "error", err.Error())
	}
}

func (m *Modal) deleteDraft(ctx context.Context, kind Kind, id int64) {
	if m.opts.Drafts == nil {
		return
	}
	if err := m.opts.Drafts.Delete(ctx, kind.String(), id); err != nil {
		m.opts.Logger.Warn(ctx, "failed to delete draft", "kind", kind.String(), "id", id, "error", err.Error())
	}
}

// restoreDraft overlays a saved draft onto freshly seeded fields.
func (m *Modal) restoreDraft(ctx context.Context, kind Kind, id int64, f *Fields) bool {
	if m.opts.Drafts == nil || kind == KindViewDetail {
		return false
	}
	d, err := m.opts.Drafts.Get(ctx, kind.String(), id)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			m.opts.Logger.Warn(ctx, "failed to read draft", "kind", kind.String(), "id", id, "error", err.Error())
		}
		return false
	}

	var saved Fields
	if err := json.Unmarshal(d.Payload, &saved); err != nil {
		return false
	}
	*f = saved
	return true
}
