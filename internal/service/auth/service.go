package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	"github.com/jwalitptl/clinic-dashboard/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
	"github.com/jwalitptl/clinic-dashboard/pkg/logger"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
)

type Service struct {
	authRepo   repository.AuthRepository
	sessions   repository.SessionRepository
	jwtSvc     auth.JWTService
	sessionTTL time.Duration
	metrics    *metrics.Metrics
	logger     *logger.Logger
	now        func() time.Time
}

func NewService(authRepo repository.AuthRepository, sessions repository.SessionRepository,
	jwtSvc auth.JWTService, sessionTTL time.Duration, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		authRepo:   authRepo,
		sessions:   sessions,
		jwtSvc:     jwtSvc,
		sessionTTL: sessionTTL,
		metrics:    m,
		logger:     log,
		now:        time.Now,
	}
}

// Login signs in against the backend and opens a dashboard session. The
// session ends with the backend token or after the configured TTL, whichever
// comes first.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	req.Email = strings.TrimSpace(req.Email)

	res, err := s.authRepo.Login(ctx, req)
	if err != nil {
		s.countLogin(apperrors.Is(err, apperrors.ErrInvalidCredentials))
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.sessionTTL)
	if exp, ok := auth.BackendTokenExpiry(res.Token); ok && exp.Before(expiresAt) {
		expiresAt = exp
	}
	if !expiresAt.After(now) {
		s.countLogin(false)
		return nil, apperrors.Upstream("clinic backend issued an expired token", nil)
	}

	email := res.User.Email
	if email == "" {
		email = req.Email
	}
	sess := &model.Session{
		ID:        uuid.NewString(),
		Token:     res.Token,
		UserID:    res.User.ID,
		UserName:  res.User.Name,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.countLogin(false)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	token, err := s.jwtSvc.GenerateSessionToken(sess.ID, sess.UserID, sess.Email, expiresAt)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		s.countLogin(false)
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.LoginAttempts.WithLabelValues("ok").Inc()
		s.metrics.SessionsActive.Inc()
	}
	s.logger.Info("operator signed in", "user_id", sess.UserID, "session_id", sess.ID)

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
		UserID:      sess.UserID,
		UserName:    sess.UserName,
	}, nil
}

func (s *Service) countLogin(invalid bool) {
	if s.metrics == nil {
		return
	}
	result := "error"
	if invalid {
		result = "invalid"
	}
	s.metrics.LoginAttempts.WithLabelValues(result).Inc()
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.MessageResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		return nil, apperrors.BadRequest("name is required", nil)
	}
	return s.authRepo.Register(ctx, req)
}

// Logout always drops the local session; a backend failure is only logged.
func (s *Service) Logout(ctx context.Context, sess *model.Session) error {
	if err := s.authRepo.Logout(ctx, sess); err != nil {
		s.logger.Warn("backend logout failed", "session_id", sess.ID, "error", err.Error())
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.SessionsActive.Dec()
	}
	return nil
}

// Authenticate resolves a dashboard session token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	claims, err := s.jwtSvc.ValidateSessionToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(err)
		}
		return nil, err
	}
	return sess, nil
}
