package appointment

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

// Snapshot is one session's copy of the doctors and appointments the
// dashboard table is computed from. It changes only through Replace,
// ApplyStatus and Prepend.
type Snapshot struct {
	mu           sync.RWMutex
	doctors      []model.Doctor
	appointments []model.Appointment
	loadedAt     time.Time
}

func (s *Snapshot) Replace(doctors []model.Doctor, appointments []model.Appointment, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = append([]model.Doctor(nil), doctors...)
	s.appointments = append([]model.Appointment(nil), appointments...)
	s.loadedAt = at
}

func (s *Snapshot) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

// All returns copies of the held lists.
func (s *Snapshot) All() ([]model.Doctor, []model.Appointment) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Doctor(nil), s.doctors...), append([]model.Appointment(nil), s.appointments...)
}

// ApplyStatus sets the status of the appointment with the given id.
// It reports whether such an appointment was held.
func (s *Snapshot) ApplyStatus(id string, status model.AppointmentStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i].Status = status
			return true
		}
	}
	return false
}

// Prepend puts a newly booked appointment at the top of the list.
func (s *Snapshot) Prepend(a model.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append([]model.Appointment{a}, s.appointments...)
}

// SnapshotStore hands out one Snapshot per session. Idle snapshots expire.
type SnapshotStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSnapshotStore(ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{cache: cache.New(ttl, ttl)}
}

// For returns the session's snapshot, creating an empty one on first use.
func (st *SnapshotStore) For(sessionID string) *Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	if v, ok := st.cache.Get(sessionID); ok {
		// refresh the idle timer
		st.cache.SetDefault(sessionID, v)
		return v.(*Snapshot)
	}
	snap := &Snapshot{}
	st.cache.SetDefault(sessionID, snap)
	return snap
}

func (st *SnapshotStore) Drop(sessionID string) {
	st.cache.Delete(sessionID)
}
