package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
	"github.com/jwalitptl/clinic-dashboard/pkg/security"
)

type sessionRepository struct {
	client     redis.Cmdable
	prefix     string
	defaultTTL time.Duration
	sealer     security.Encryptor
	now        func() time.Time
}

// NewSessionRepository stores sessions as JSON under "<prefix>session:<id>"
// with the session's remaining lifetime as the key TTL. A non-nil sealer
// encrypts the record, which carries the backend bearer token.
func NewSessionRepository(client redis.Cmdable, prefix string, defaultTTL time.Duration, sealer security.Encryptor) repository.SessionRepository {
	return &sessionRepository{client: client, prefix: prefix, defaultTTL: defaultTTL, sealer: sealer, now: time.Now}
}

func (r *sessionRepository) key(id string) string {
	return r.prefix + "session:" + id
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

	payload, err := json.Marshal(sess)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("encode session: %w", err))
	}
	if r.sealer != nil {
		if payload, err = r.sealer.Encrypt(payload); err != nil {
			return apperrors.Internal(fmt.Errorf("seal session: %w", err))
		}
	}
	if err := r.client.Set(ctx, r.key(sess.ID), payload, ttl).Err(); err != nil {
		return apperrors.Internal(fmt.Errorf("save session: %w", err))
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	payload, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NotFound("session", nil)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("load session: %w", err))
	}
	if r.sealer != nil {
		// Records sealed under a rotated key can no longer be read: treat as logged out.
		if payload, err = r.sealer.Decrypt(payload); err != nil {
			return nil, apperrors.NotFound("session", err)
		}
	}

	var sess model.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("decode session: %w", err))
	}
	if sess.Expired(r.now()) {
		return nil, apperrors.NotFound("session", nil)
	}
	return &sess, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return apperrors.Internal(fmt.Errorf("delete session: %w", err))
	}
	return nil
}
