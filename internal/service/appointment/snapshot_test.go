package appointment

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

func TestSnapshotStore_ForReturnsSameSnapshot(t *testing.T) {
	st := NewSnapshotStore(time.Hour)
	a := st.For("s1")
	assert.Same(t, a, st.For("s1"))
	assert.NotSame(t, a, st.For("s2"))

	st.Drop("s1")
	assert.NotSame(t, a, st.For("s1"))
}

func TestSnapshot_AllReturnsCopies(t *testing.T) {
	var snap Snapshot
	assert.False(t, snap.Loaded())

	snap.Replace(nil, []model.Appointment{{ID: "a1", Status: model.AppointmentStatusScheduled}}, time.Now())
	assert.True(t, snap.Loaded())

	_, all := snap.All()
	all[0].Status = model.AppointmentStatusCancelled

	_, again := snap.All()
	assert.Equal(t, model.AppointmentStatusScheduled, again[0].Status)
	assert.False(t, snap.ApplyStatus("missing", model.AppointmentStatusCompleted))
}

func TestSnapshot_ConcurrentUpdates(t *testing.T) {
	var snap Snapshot
	snap.Replace(nil, []model.Appointment{{ID: "a1"}}, time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			snap.ApplyStatus("a1", model.AppointmentStatusCompleted)
		}()
		go func() {
			defer wg.Done()
			snap.Prepend(model.Appointment{ID: "new"})
		}()
	}
	wg.Wait()

	_, all := snap.All()
	assert.Len(t, all, 21)
	assert.Equal(t, "a1", all[20].ID)
	assert.Equal(t, model.AppointmentStatusCompleted, all[20].Status)
}
