//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"fitting-scheduler/internal/domain/availability"
	"fitting-scheduler/internal/domain/owner"
	"fitting-scheduler/internal/domain/schedule"
	"fitting-scheduler/internal/domain/slot"
	"fitting-scheduler/internal/infra"
	"fitting-scheduler/internal/notify"
	"fitting-scheduler/internal/pkg/clock"
	"fitting-scheduler/internal/usecase/queries"
	"fitting-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type scheduleRow struct {
	shared.ScheduleSnapshot
	Products json.RawMessage
}

// memStore keeps all rows behind one mutex. A transaction holds the lock for
// its whole body, so concurrent writers serialize the same way row locks
// serialize them in the real store: the second Acquire on a slot always sees
// the first one's committed flip.
type memStore struct {
	mu        sync.Mutex
	settings  map[uuid.UUID]shared.SettingsSnapshot
	templates map[uuid.UUID]*availability.Template
	slots     map[uuid.UUID]shared.SlotSnapshot
	schedules map[uuid.UUID]scheduleRow
}

func newMemStore() *memStore {
	return &memStore{
		settings:  make(map[uuid.UUID]shared.SettingsSnapshot),
		templates: make(map[uuid.UUID]*availability.Template),
		slots:     make(map[uuid.UUID]shared.SlotSnapshot),
		schedules: make(map[uuid.UUID]scheduleRow),
	}
}

type storeState struct {
	settings  map[uuid.UUID]shared.SettingsSnapshot
	templates map[uuid.UUID]*availability.Template
	slots     map[uuid.UUID]shared.SlotSnapshot
	schedules map[uuid.UUID]scheduleRow
}

func (s *memStore) cloneState() storeState {
	st := storeState{
		settings:  make(map[uuid.UUID]shared.SettingsSnapshot, len(s.settings)),
		templates: make(map[uuid.UUID]*availability.Template, len(s.templates)),
		slots:     make(map[uuid.UUID]shared.SlotSnapshot, len(s.slots)),
		schedules: make(map[uuid.UUID]scheduleRow, len(s.schedules)),
	}
	for k, v := range s.settings {
		st.settings[k] = v
	}
	for k, v := range s.templates {
		st.templates[k] = v
	}
	for k, v := range s.slots {
		st.slots[k] = v
	}
	for k, v := range s.schedules {
		st.schedules[k] = v
	}
	return st
}

func (s *memStore) restore(st storeState) {
	s.settings = st.settings
	s.templates = st.templates
	s.slots = st.slots
	s.schedules = st.schedules
}

// memUoW implements shared.UnitOfWork: every Within is atomic, a returned
// error rolls the store back to the state at transaction start.
type memUoW struct {
	store *memStore
}

func (u *memUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	backup := u.store.cloneState()
	if err := fn(ctx, &memTx{store: u.store}); err != nil {
		u.store.restore(backup)
		return err
	}
	return nil
}

func (u *memUoW) Reads() shared.CommandReads {
	return &memReads{store: u.store, locking: true}
}

type memTx struct {
	store *memStore
}

func (t *memTx) Settings() shared.SettingsRepository  { return &memSettingsRepo{t.store} }
func (t *memTx) Templates() shared.TemplateRepository { return &memTemplateRepo{t.store} }
func (t *memTx) Slots() shared.SlotRepository         { return &memSlotRepo{t.store} }
func (t *memTx) Schedules() shared.ScheduleRepository { return &memScheduleRepo{t.store} }
func (t *memTx) Reads() shared.CommandReads           { return &memReads{store: t.store, locking: false} }

type memSettingsRepo struct{ store *memStore }

func (r *memSettingsRepo) Upsert(_ context.Context, s *owner.Settings) error {
	r.store.settings[s.OwnerID()] = shared.SettingsSnapshot{
		OwnerID:            s.OwnerID(),
		AppointmentMinutes: s.AppointmentMinutes(),
		AutoConfirm:        s.AutoConfirm(),
	}
	return nil
}

type memTemplateRepo struct{ store *memStore }

func (r *memTemplateRepo) Create(_ context.Context, t *availability.Template) (uuid.UUID, error) {
	for _, existing := range r.store.templates {
		if existing.OwnerID() == t.OwnerID() && existing.DayOfWeek() == t.DayOfWeek() {
			return uuid.Nil, infra.WrapRepoErr("duplicate template day", nil, infra.KindDuplicateKey)
		}
	}
	r.store.templates[t.ID()] = t
	return t.ID(), nil
}

func (r *memTemplateRepo) Update(_ context.Context, t *availability.Template) error {
	if _, ok := r.store.templates[t.ID()]; !ok {
		return infra.WrapRepoErr("template not found", nil, infra.KindNotFound)
	}
	for id, existing := range r.store.templates {
		if id != t.ID() && existing.OwnerID() == t.OwnerID() && existing.DayOfWeek() == t.DayOfWeek() {
			return infra.WrapRepoErr("duplicate template day", nil, infra.KindDuplicateKey)
		}
	}
	r.store.templates[t.ID()] = t
	return nil
}

func (r *memTemplateRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.templates[id]; !ok {
		return infra.WrapRepoErr("template not found", nil, infra.KindNotFound)
	}
	delete(r.store.templates, id)
	return nil
}

type memSlotRepo struct{ store *memStore }

func (r *memSlotRepo) Insert(_ context.Context, s *slot.Slot) (bool, error) {
	for _, existing := range r.store.slots {
		if existing.OwnerID == s.OwnerID() && existing.StartsAt.Equal(s.StartsAt()) {
			return false, nil
		}
	}
	r.store.slots[s.ID()] = shared.SlotSnapshot{
		ID:          s.ID(),
		OwnerID:     s.OwnerID(),
		StartsAt:    s.StartsAt(),
		DurationMin: s.DurationMin(),
		IsBooked:    s.IsBooked(),
		AutoConfirm: s.AutoConfirm(),
	}
	return true, nil
}

func (r *memSlotRepo) Acquire(_ context.Context, id uuid.UUID) (bool, error) {
	row, ok := r.store.slots[id]
	if !ok || row.IsBooked {
		return false, nil
	}
	row.IsBooked = true
	r.store.slots[id] = row
	return true, nil
}

func (r *memSlotRepo) Release(_ context.Context, id uuid.UUID) error {
	row, ok := r.store.slots[id]
	if !ok {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	row.IsBooked = false
	r.store.slots[id] = row
	return nil
}

func (r *memSlotRepo) UpdateUnbooked(_ context.Context, id uuid.UUID, startsAt time.Time, autoConfirm bool) (bool, error) {
	row, ok := r.store.slots[id]
	if !ok || row.IsBooked {
		return false, nil
	}
	for otherID, existing := range r.store.slots {
		if otherID != id && existing.OwnerID == row.OwnerID && existing.StartsAt.Equal(startsAt) {
			return false, infra.WrapRepoErr("slot time taken", nil, infra.KindDuplicateKey)
		}
	}
	row.StartsAt = startsAt
	row.AutoConfirm = autoConfirm
	r.store.slots[id] = row
	return true, nil
}

func (r *memSlotRepo) DeleteUnbooked(_ context.Context, id uuid.UUID) (bool, error) {
	row, ok := r.store.slots[id]
	if !ok || row.IsBooked {
		return false, nil
	}
	delete(r.store.slots, id)
	return true, nil
}

type memScheduleRepo struct{ store *memStore }

func (r *memScheduleRepo) Create(_ context.Context, s *schedule.Schedule) error {
	for _, existing := range r.store.schedules {
		if existing.SlotID == s.SlotID() && existing.Status != schedule.StatusCancelled {
			return infra.WrapRepoErr("slot already has an active schedule", nil, infra.KindDuplicateKey)
		}
	}
	r.store.schedules[s.ID()] = scheduleRow{
		ScheduleSnapshot: shared.ScheduleSnapshot{
			ID:         s.ID(),
			SlotID:     s.SlotID(),
			CustomerID: s.CustomerID(),
			Status:     s.Status(),
		},
		Products: s.Products(),
	}
	return nil
}

func (r *memScheduleRepo) UpdateStatus(_ context.Context, id uuid.UUID, status schedule.Status) error {
	row, ok := r.store.schedules[id]
	if !ok {
		return infra.WrapRepoErr("schedule not found", nil, infra.KindNotFound)
	}
	row.Status = status
	r.store.schedules[id] = row
	return nil
}

func (r *memScheduleRepo) MoveToSlot(_ context.Context, id, newSlotID uuid.UUID) error {
	row, ok := r.store.schedules[id]
	if !ok {
		return infra.WrapRepoErr("schedule not found", nil, infra.KindNotFound)
	}
	for otherID, existing := range r.store.schedules {
		if otherID != id && existing.SlotID == newSlotID && existing.Status != schedule.StatusCancelled {
			return infra.WrapRepoErr("slot already has an active schedule", nil, infra.KindDuplicateKey)
		}
	}
	row.SlotID = newSlotID
	r.store.schedules[id] = row
	return nil
}

type memReads struct {
	store   *memStore
	locking bool
}

func (r *memReads) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memReads) SettingsByOwner(_ context.Context, ownerID uuid.UUID) (*shared.SettingsSnapshot, error) {
	defer r.lock()()
	snap, ok := r.store.settings[ownerID]
	if !ok {
		return nil, infra.WrapRepoErr("settings not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (r *memReads) ActiveTemplates(_ context.Context, ownerID uuid.UUID) ([]*availability.Template, error) {
	defer r.lock()()
	var out []*availability.Template
	for _, t := range r.store.templates {
		if t.OwnerID() == ownerID && t.Enabled() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memReads) TemplateByID(_ context.Context, id uuid.UUID) (*availability.Template, error) {
	defer r.lock()()
	t, ok := r.store.templates[id]
	if !ok {
		return nil, infra.WrapRepoErr("template not found", nil, infra.KindNotFound)
	}
	return t, nil
}

func (r *memReads) SlotByID(_ context.Context, id uuid.UUID) (*shared.SlotSnapshot, error) {
	defer r.lock()()
	snap, ok := r.store.slots[id]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (r *memReads) ScheduleByID(_ context.Context, id uuid.UUID) (*shared.ScheduleSnapshot, error) {
	defer r.lock()()
	row, ok := r.store.schedules[id]
	if !ok {
		return nil, infra.WrapRepoErr("schedule not found", nil, infra.KindNotFound)
	}
	snap := row.ScheduleSnapshot
	return &snap, nil
}

// memViews serves the read side the way the SQL join does: schedule joined
// with its slot.
type memViews struct {
	store *memStore
}

func (v *memViews) FindByID(_ context.Context, id uuid.UUID) (*queries.ScheduleView, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()

	row, ok := v.store.schedules[id]
	if !ok {
		return nil, infra.WrapRepoErr("schedule not found", nil, infra.KindNotFound)
	}
	slotRow, ok := v.store.slots[row.SlotID]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return &queries.ScheduleView{
		ID:          row.ID,
		SlotID:      row.SlotID,
		OwnerID:     slotRow.OwnerID,
		CustomerID:  row.CustomerID,
		StartsAt:    slotRow.StartsAt,
		DurationMin: slotRow.DurationMin,
		Status:      row.Status.String(),
		Products:    row.Products,
	}, nil
}

func (v *memViews) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]*queries.ScheduleListItem, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()

	var out []*queries.ScheduleListItem
	for _, row := range v.store.schedules {
		if row.CustomerID != customerID {
			continue
		}
		slotRow := v.store.slots[row.SlotID]
		out = append(out, &queries.ScheduleListItem{
			ID:         row.ID,
			SlotID:     row.SlotID,
			OwnerID:    slotRow.OwnerID,
			CustomerID: row.CustomerID,
			StartsAt:   slotRow.StartsAt,
			Status:     row.Status.String(),
		})
	}
	return out, nil
}

func (v *memViews) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*queries.ScheduleListItem, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()

	var out []*queries.ScheduleListItem
	for _, row := range v.store.schedules {
		slotRow, ok := v.store.slots[row.SlotID]
		if !ok || slotRow.OwnerID != ownerID {
			continue
		}
		out = append(out, &queries.ScheduleListItem{
			ID:         row.ID,
			SlotID:     row.SlotID,
			OwnerID:    slotRow.OwnerID,
			CustomerID: row.CustomerID,
			StartsAt:   slotRow.StartsAt,
			Status:     row.Status.String(),
		})
	}
	return out, nil
}

type memDirectory struct {
	store *memStore
}

func (d *memDirectory) ListOwnerIDs(_ context.Context) ([]uuid.UUID, error) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	out := make([]uuid.UUID, 0, len(d.store.settings))
	for id := range d.store.settings {
		out = append(out, id)
	}
	return out, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event notify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) kinds() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Kind)
	}
	return out
}

type env struct {
	store      *memStore
	uow        *memUoW
	views      *memViews
	directory  *memDirectory
	dispatcher *recordingDispatcher
	clock      *clock.MockClock
}

func newEnv() *env {
	store := newMemStore()
	return &env{
		store:      store,
		uow:        &memUoW{store: store},
		views:      &memViews{store: store},
		directory:  &memDirectory{store: store},
		dispatcher: &recordingDispatcher{},
		// 2026-03-02 is a Monday.
		clock: clock.NewMockClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
	}
}

func (e *env) seedSettings(ownerID uuid.UUID, minutes int, autoConfirm bool) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.settings[ownerID] = shared.SettingsSnapshot{
		OwnerID:            ownerID,
		AppointmentMinutes: minutes,
		AutoConfirm:        autoConfirm,
	}
}

func (e *env) seedTemplate(t *testing.T, ownerID uuid.UUID, dayOfWeek, startMin, endMin int) uuid.UUID {
	t.Helper()
	tpl, err := availability.NewTemplate(ownerID, dayOfWeek, true, startMin, endMin)
	require.NoError(t, err)

	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.templates[tpl.ID()] = tpl
	return tpl.ID()
}

func (e *env) seedSlot(ownerID uuid.UUID, startsAt time.Time, durationMin int, autoConfirm, booked bool) uuid.UUID {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	id := uuid.New()
	e.store.slots[id] = shared.SlotSnapshot{
		ID:          id,
		OwnerID:     ownerID,
		StartsAt:    startsAt,
		DurationMin: durationMin,
		IsBooked:    booked,
		AutoConfirm: autoConfirm,
	}
	return id
}

func (e *env) seedSchedule(slotID, customerID uuid.UUID, status schedule.Status) uuid.UUID {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	id := uuid.New()
	e.store.schedules[id] = scheduleRow{
		ScheduleSnapshot: shared.ScheduleSnapshot{
			ID:         id,
			SlotID:     slotID,
			CustomerID: customerID,
			Status:     status,
		},
		Products: json.RawMessage(`[]`),
	}
	return id
}

func (e *env) slotRow(t *testing.T, id uuid.UUID) shared.SlotSnapshot {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	row, ok := e.store.slots[id]
	require.True(t, ok, "slot %s not in store", id)
	return row
}

func (e *env) scheduleRowByID(t *testing.T, id uuid.UUID) scheduleRow {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	row, ok := e.store.schedules[id]
	require.True(t, ok, "schedule %s not in store", id)
	return row
}
