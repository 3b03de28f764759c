// Package memory holds in-process implementations backed by go-cache.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

type sessionRepository struct {
	cache      *cache.Cache
	defaultTTL time.Duration
	now        func() time.Time
}

// NewSessionRepository keeps sessions in process memory. Sessions without an
// expiry live for defaultTTL.
func NewSessionRepository(defaultTTL time.Duration) repository.SessionRepository {
	return &sessionRepository{
		cache:      cache.New(defaultTTL, 10*time.Minute),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (r *sessionRepository) Save(ctx context.Context, sess *model.Session) error {
	if sess.ID == "" {
		return apperrors.BadRequest("session id is required", nil)
	}
	ttl := sess.TTL(r.now())
	if sess.ExpiresAt.IsZero() {
		ttl = r.defaultTTL
	}
	if ttl <= 0 {
		return apperrors.BadRequest("session already expired", nil)
	}
	stored := *sess
	r.cache.Set(sess.ID, &stored, ttl)
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, apperrors.NotFound("session", nil)
	}
	sess := *v.(*model.Session)
	if sess.Expired(r.now()) {
		r.cache.Delete(id)
		return nil, apperrors.NotFound("session", nil)
	}
	return &sess, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

// Count reports how many sessions are held, for the sessions gauge.
func (r *sessionRepository) Count() int {
	return r.cache.ItemCount()
}
