package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func probe(t *testing.T, h *Handler, path string) (int, map[string]interface{}) {
	t.Helper()
	r := gin.New()
	h.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestLiveness(t *testing.T) {
	code, body := probe(t, NewHandler(nil, 0), "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UP", body["status"])
}

func TestReadiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("breaker open") }

	code, body := probe(t, NewHandler(map[string]Check{"backend": ok, "redis": ok}, time.Second), "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UP", body["status"])

	code, body = probe(t, NewHandler(map[string]Check{"backend": down, "redis": ok}, time.Second), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "DOWN", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "breaker open", checks["backend"])
	assert.Equal(t, "UP", checks["redis"])
}

func TestReadiness_CheckTimeout(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	code, _ := probe(t, NewHandler(map[string]Check{"redis": slow}, 10*time.Millisecond), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
