//go:build unit || e2e

// Package memuow is an in-memory UnitOfWork for use case and worker tests.
// A failed transaction restores the state it started from.
package memuow

import (
	"context"
	"sort"
	"sync"
	"time"

	"smart-parking/internal/domain/booking"
	"smart-parking/internal/domain/promo"
	"smart-parking/internal/domain/slot"
	"smart-parking/internal/domain/tariff"
	"smart-parking/internal/domain/vehicle"
	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/errs"
	"smart-parking/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrInjected = errs.New("injected failure")

type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobSent    JobStatus = "sent"
	JobFailed  JobStatus = "failed"
)

type Job struct {
	shared.NotificationJob
	Status    JobStatus
	LastError string
}

type state struct {
	slots        map[uuid.UUID]slot.Slot
	vehicles     map[uuid.UUID]vehicle.Vehicle
	plans        []tariff.Plan
	promos       map[uuid.UUID]promo.PromoCode
	bookings     map[uuid.UUID]booking.Snapshot
	availability map[uuid.UUID]slot.Availability
	logs         []booking.StatusLog
	jobs         []Job
}

func (s state) clone() state {
	c := state{
		slots:        make(map[uuid.UUID]slot.Slot, len(s.slots)),
		vehicles:     make(map[uuid.UUID]vehicle.Vehicle, len(s.vehicles)),
		plans:        append([]tariff.Plan(nil), s.plans...),
		promos:       make(map[uuid.UUID]promo.PromoCode, len(s.promos)),
		bookings:     make(map[uuid.UUID]booking.Snapshot, len(s.bookings)),
		availability: make(map[uuid.UUID]slot.Availability, len(s.availability)),
		logs:         append([]booking.StatusLog(nil), s.logs...),
		jobs:         append([]Job(nil), s.jobs...),
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.vehicles {
		c.vehicles[k] = v
	}
	for k, v := range s.promos {
		c.promos[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.availability {
		c.availability[k] = v
	}
	return c
}

// Store serializes transactions with one mutex, like a table lock.
type Store struct {
	mu    sync.Mutex
	st    state
	fail  map[string]bool
	Calls []string
}

func NewStore() *Store {
	return &Store{
		st: state{
			slots:        map[uuid.UUID]slot.Slot{},
			vehicles:     map[uuid.UUID]vehicle.Vehicle{},
			promos:       map[uuid.UUID]promo.PromoCode{},
			bookings:     map[uuid.UUID]booking.Snapshot{},
			availability: map[uuid.UUID]slot.Availability{},
		},
		fail: map[string]bool{},
	}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.st.clone()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.st = backup
		return err
	}
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.st.clone()
	err := fn(ctx, &memTx{s: s})
	s.st = backup
	return err
}

// FailOn makes the named repository call, e.g. "SlotAvailability.Create", fail.
func (s *Store) FailOn(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = true
}

func (s *Store) call(op string) error {
	s.Calls = append(s.Calls, op)
	if s.fail[op] {
		return errs.Wrap(ErrInjected, op)
	}
	return nil
}

// Seeding and inspection helpers lock the store and must not be used inside a transaction.

func (s *Store) PutSlot(v slot.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.slots[v.ID] = v
}

func (s *Store) PutVehicle(v vehicle.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.vehicles[v.ID] = v
}

func (s *Store) PutPlan(p tariff.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.plans = append(s.st.plans, p)
}

func (s *Store) PutPromo(p promo.PromoCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.promos[p.ID] = p
}

func (s *Store) PutBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.bookings[b.ID()] = b.Snapshot()
}

func (s *Store) PutAvailability(a slot.Availability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.availability[*a.BookingID] = a
}

func (s *Store) PutJob(j shared.NotificationJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.jobs = append(s.st.jobs, Job{NotificationJob: j, Status: JobPending})
}

func (s *Store) Slot(id uuid.UUID) slot.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.slots[id]
}

func (s *Store) Promo(id uuid.UUID) promo.PromoCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.promos[id]
}

func (s *Store) Booking(id uuid.UUID) (booking.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.bookings[id]
	return b, ok
}

func (s *Store) Bookings() []booking.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]booking.Snapshot, 0, len(s.st.bookings))
	for _, b := range s.st.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) Availability() []slot.Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]slot.Availability, 0, len(s.st.availability))
	for _, a := range s.st.availability {
		out = append(out, a)
	}
	return out
}

func (s *Store) StatusLogs() []booking.StatusLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]booking.StatusLog(nil), s.st.logs...)
}

func (s *Store) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.st.jobs...)
}

type memTx struct {
	s *Store
}

func (t *memTx) Bookings() shared.BookingRepository                 { return bookingRepo{t.s} }
func (t *memTx) Slots() shared.SlotRepository                       { return slotRepo{t.s} }
func (t *memTx) SlotAvailability() shared.SlotAvailabilityRepository { return availabilityRepo{t.s} }
func (t *memTx) Vehicles() shared.VehicleRepository                 { return vehicleRepo{t.s} }
func (t *memTx) Tariffs() tariff.PlanSource                         { return planSource{t.s} }
func (t *memTx) Promos() shared.PromoRepository                     { return promoRepo{t.s} }
func (t *memTx) StatusLogs() shared.StatusLogRepository             { return statusLogRepo{t.s} }
func (t *memTx) Notifications() shared.NotificationRepository       { return notificationRepo{t.s} }

type bookingRepo struct{ s *Store }

func (r bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if err := r.s.call("Bookings.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.st.bookings {
		if existing.Reference == b.Reference() {
			return infra.WrapRepoErr("failed to insert booking", nil, infra.KindDuplicateKey)
		}
	}
	r.s.st.bookings[b.ID()] = b.Snapshot()
	return nil
}

func (r bookingRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	if err := r.s.call("Bookings.FindByIDForUpdate"); err != nil {
		return nil, err
	}
	snap, ok := r.s.st.bookings[id]
	if !ok {
		return nil, infra.NotFound("booking not found")
	}
	return booking.Reconstruct(snap), nil
}

func (r bookingRepo) UpdateStatus(_ context.Context, b *booking.Booking) error {
	if err := r.s.call("Bookings.UpdateStatus"); err != nil {
		return err
	}
	if _, ok := r.s.st.bookings[b.ID()]; !ok {
		return infra.NotFound("booking not found")
	}
	r.s.st.bookings[b.ID()] = b.Snapshot()
	return nil
}

func (r bookingRepo) HasActiveOverlap(_ context.Context, slotID uuid.UUID, iv booking.Interval) (bool, error) {
	if err := r.s.call("Bookings.HasActiveOverlap"); err != nil {
		return false, err
	}
	for _, snap := range r.s.st.bookings {
		if snap.SlotID != slotID {
			continue
		}
		b := booking.Reconstruct(snap)
		if b.HoldsSlot() && b.Interval().Overlaps(iv) {
			return true, nil
		}
	}
	return false, nil
}

func (r bookingRepo) ListStalePendingForUpdate(_ context.Context, cutoff time.Time, limit uint64) ([]*booking.Booking, error) {
	if err := r.s.call("Bookings.ListStalePendingForUpdate"); err != nil {
		return nil, err
	}
	var out []*booking.Booking
	for _, snap := range r.s.st.bookings {
		if snap.Status == booking.StatusPending && snap.CreatedAt.Before(cutoff) {
			out = append(out, booking.Reconstruct(snap))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	if limit > 0 && uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type slotRepo struct{ s *Store }

func (r slotRepo) FindByID(_ context.Context, id uuid.UUID) (*slot.Slot, error) {
	if err := r.s.call("Slots.FindByID"); err != nil {
		return nil, err
	}
	v, ok := r.s.st.slots[id]
	if !ok {
		return nil, infra.NotFound("slot not found")
	}
	return &v, nil
}

func (r slotRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*slot.Slot, error) {
	if err := r.s.call("Slots.FindByIDForUpdate"); err != nil {
		return nil, err
	}
	v, ok := r.s.st.slots[id]
	if !ok {
		return nil, infra.NotFound("slot not found")
	}
	return &v, nil
}

func (r slotRepo) SetReserved(_ context.Context, id uuid.UUID, reserved bool) error {
	if err := r.s.call("Slots.SetReserved"); err != nil {
		return err
	}
	v, ok := r.s.st.slots[id]
	if !ok {
		return infra.NotFound("slot not found")
	}
	v.IsReserved = reserved
	r.s.st.slots[id] = v
	return nil
}

type availabilityRepo struct{ s *Store }

func (r availabilityRepo) Create(_ context.Context, a slot.Availability) error {
	if err := r.s.call("SlotAvailability.Create"); err != nil {
		return err
	}
	r.s.st.availability[*a.BookingID] = a
	return nil
}

func (r availabilityRepo) DeleteByBooking(_ context.Context, bookingID uuid.UUID) error {
	if err := r.s.call("SlotAvailability.DeleteByBooking"); err != nil {
		return err
	}
	delete(r.s.st.availability, bookingID)
	return nil
}

type vehicleRepo struct{ s *Store }

func (r vehicleRepo) FindOwned(_ context.Context, id, userID uuid.UUID) (*vehicle.Vehicle, error) {
	if err := r.s.call("Vehicles.FindOwned"); err != nil {
		return nil, err
	}
	v, ok := r.s.st.vehicles[id]
	if !ok || !v.OwnedBy(userID) || !v.IsActive {
		return nil, infra.NotFound("vehicle not found")
	}
	return &v, nil
}

type planSource struct{ s *Store }

func (r planSource) PlansForPlace(_ context.Context, placeID uuid.UUID) ([]tariff.Plan, error) {
	if err := r.s.call("Tariffs.PlansForPlace"); err != nil {
		return nil, err
	}
	var out []tariff.Plan
	for _, p := range r.s.st.plans {
		if p.PlaceID == placeID {
			out = append(out, p)
		}
	}
	return out, nil
}

type promoRepo struct{ s *Store }

func (r promoRepo) FindByID(_ context.Context, id uuid.UUID) (*promo.PromoCode, error) {
	return r.find("Promos.FindByID", id)
}

func (r promoRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*promo.PromoCode, error) {
	return r.find("Promos.FindByIDForUpdate", id)
}

func (r promoRepo) find(op string, id uuid.UUID) (*promo.PromoCode, error) {
	if err := r.s.call(op); err != nil {
		return nil, err
	}
	p, ok := r.s.st.promos[id]
	if !ok {
		return nil, infra.NotFound("promo code not found")
	}
	return &p, nil
}

func (r promoRepo) IncrementUsage(_ context.Context, id uuid.UUID) error {
	if err := r.s.call("Promos.IncrementUsage"); err != nil {
		return err
	}
	p, ok := r.s.st.promos[id]
	if !ok || (p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit) {
		return infra.NotFound("promo code not found or usage limit reached")
	}
	p.UsageCount++
	r.s.st.promos[id] = p
	return nil
}

type statusLogRepo struct{ s *Store }

func (r statusLogRepo) Append(_ context.Context, log booking.StatusLog) error {
	if err := r.s.call("StatusLogs.Append"); err != nil {
		return err
	}
	r.s.st.logs = append(r.s.st.logs, log)
	return nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	if err := r.s.call("Notifications.CreateJob"); err != nil {
		return err
	}
	r.s.st.jobs = append(r.s.st.jobs, Job{
		NotificationJob: shared.NotificationJob{
			ID:      uuid.New(),
			Kind:    kind,
			Topic:   topic,
			Payload: payload,
			RunAt:   runAt,
		},
		Status: JobPending,
	})
	return nil
}

func (r notificationRepo) ClaimDue(_ context.Context, now time.Time, limit uint64) ([]shared.NotificationJob, error) {
	if err := r.s.call("Notifications.ClaimDue"); err != nil {
		return nil, err
	}
	var out []shared.NotificationJob
	for _, j := range r.s.st.jobs {
		if j.Status != JobPending || j.RunAt.After(now) {
			continue
		}
		out = append(out, j.NotificationJob)
		if limit > 0 && uint64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (r notificationRepo) MarkSent(_ context.Context, id uuid.UUID) error {
	if err := r.s.call("Notifications.MarkSent"); err != nil {
		return err
	}
	return r.update(id, func(j *Job) { j.Status = JobSent })
}

func (r notificationRepo) MarkFailed(_ context.Context, id uuid.UUID, lastError string, retryAt time.Time, giveUp bool) error {
	if err := r.s.call("Notifications.MarkFailed"); err != nil {
		return err
	}
	return r.update(id, func(j *Job) {
		j.Attempts++
		j.LastError = lastError
		j.RunAt = retryAt
		if giveUp {
			j.Status = JobFailed
		}
	})
}

func (r notificationRepo) update(id uuid.UUID, fn func(j *Job)) error {
	for i := range r.s.st.jobs {
		if r.s.st.jobs[i].ID == id {
			fn(&r.s.st.jobs[i])
			return nil
		}
	}
	return infra.NotFound("notification job not found")
}
