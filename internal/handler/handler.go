// Package handler holds helpers shared by the resource handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/clinic-dashboard/internal/middleware"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
	"github.com/jwalitptl/clinic-dashboard/pkg/httputil"
)

var fieldMessages = map[string]string{
	"required": "Field is required",
	"email":    "Invalid email format",
	"min":      "Value is too short",
	"max":      "Value is too long",
	"gte":      "Value is too small",
	"oneof":    "Value is not allowed",
	"weekday":  "Unknown day of the week",
	"ddmmyyyy": "Date must be DD/MM/YYYY",
	"hhmm":     "Time must be HH:MM",
}

// Bind decodes the JSON body into req. On failure it answers 400 and
// returns false.
func Bind(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	_ = c.Error(err).SetType(gin.ErrorTypeBind)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]httputil.FieldError, 0, len(verrs))
		for _, e := range verrs {
			msg := fieldMessages[e.Tag()]
			if msg == "" {
				msg = e.Error()
			}
			details = append(details, httputil.FieldError{Field: e.Field(), Message: msg})
		}
		httputil.RespondWithValidation(c, details)
		return false
	}

	msg := "invalid request body"
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		msg = "request body is required"
	case errors.As(err, &syntaxErr):
		msg = fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		msg = fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}
	httputil.RespondWithError(c, apperrors.BadRequest(msg, err))
	return false
}

// Fail records err on the context for the error logger and answers with it.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	httputil.RespondWithError(c, err)
}

// Session returns the authenticated session. Without one it answers 401.
func Session(c *gin.Context) (*model.Session, bool) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return nil, false
	}
	return sess, true
}

// QueryInt reads a positive integer query parameter, def when absent.
func QueryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.BadRequest(fmt.Sprintf("%s must be a positive integer", key), err)
	}
	return n, nil
}

// QueryBool reads true/false/1/0 query parameters.
func QueryBool(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.BadRequest(fmt.Sprintf("%s must be true or false", key), err)
	}
	return b, nil
}
