package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
)

// cachedDoctorRepository keeps each session's doctor list for a short while;
// the booking form asks for it on every doctor pick. Writes through this
// repository drop the cached list.
type cachedDoctorRepository struct {
	next  repository.DoctorRepository
	cache *cache.Cache
}

func NewCachedDoctorRepository(next repository.DoctorRepository, ttl time.Duration) repository.DoctorRepository {
	if ttl <= 0 {
		return next
	}
	return &cachedDoctorRepository{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func listKey(sess *model.Session) string {
	if sess == nil {
		return "doctors:"
	}
	return "doctors:" + sess.ID
}

func (r *cachedDoctorRepository) List(ctx context.Context, sess *model.Session) ([]model.Doctor, error) {
	if v, ok := r.cache.Get(listKey(sess)); ok {
		return cloneDoctors(v.([]model.Doctor)), nil
	}
	doctors, err := r.next.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(listKey(sess), cloneDoctors(doctors))
	return doctors, nil
}

// Get prefers the cached list and falls back to the backend.
func (r *cachedDoctorRepository) Get(ctx context.Context, sess *model.Session, id string) (*model.Doctor, error) {
	if v, ok := r.cache.Get(listKey(sess)); ok {
		for _, d := range v.([]model.Doctor) {
			if d.ID == id {
				d.Availability = d.Availability.Clone()
				return &d, nil
			}
		}
	}
	return r.next.Get(ctx, sess, id)
}

func (r *cachedDoctorRepository) Create(ctx context.Context, sess *model.Session, doctor *model.Doctor) (*model.Doctor, error) {
	defer r.cache.Delete(listKey(sess))
	return r.next.Create(ctx, sess, doctor)
}

func (r *cachedDoctorRepository) Update(ctx context.Context, sess *model.Session, doctor *model.Doctor) (*model.Doctor, error) {
	defer r.cache.Delete(listKey(sess))
	return r.next.Update(ctx, sess, doctor)
}

func (r *cachedDoctorRepository) Delete(ctx context.Context, sess *model.Session, id string) error {
	defer r.cache.Delete(listKey(sess))
	return r.next.Delete(ctx, sess, id)
}

func cloneDoctors(in []model.Doctor) []model.Doctor {
	out := make([]model.Doctor, len(in))
	for i, d := range in {
		d.Availability = d.Availability.Clone()
		out[i] = d
	}
	return out
}
