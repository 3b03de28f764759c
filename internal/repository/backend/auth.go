package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

type authRepository struct {
	client *Client
}

func NewAuthRepository(client *Client) repository.AuthRepository {
	return &authRepository{client: client}
}

func (r *authRepository) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	var out model.LoginResult
	if err := r.client.do(ctx, nil, "auth_login", http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, loginError(err)
	}
	if out.Token == "" {
		return nil, apperrors.Upstream("clinic backend returned no token", nil)
	}
	return &out, nil
}

// loginError separates bad credentials from everything else. Status codes
// decide first; the message text is only consulted for backends that answer
// a failed login with a plain 400.
func loginError(err error) error {
	var se *StatusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.InvalidCredentials(se)
	case http.StatusBadRequest:
		if strings.Contains(strings.ToLower(se.Message), "invalid") {
			return apperrors.InvalidCredentials(se)
		}
	}
	return err
}

func (r *authRepository) Register(ctx context.Context, req *model.RegisterRequest) (*model.MessageResponse, error) {
	var out model.MessageResponse
	if err := r.client.do(ctx, nil, "auth_register", http.MethodPost, "/auth/register", req, &out); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusBadRequest {
			msg := se.Message
			if msg == "" {
				msg = "user already exists"
			}
			return nil, apperrors.Conflict(msg, se)
		}
		return nil, err
	}
	if out.Message == "" {
		out.Message = "Account created successfully"
	}
	return &out, nil
}

func (r *authRepository) Logout(ctx context.Context, sess *model.Session) error {
	return r.client.do(ctx, sess, "auth_logout", http.MethodPost, "/auth/logout", nil, nil)
}
