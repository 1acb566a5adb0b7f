package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailWritesEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	Fail(rr, http.StatusBadRequest, "Required fields are missing")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":true,"message":"Required fields are missing"}`, rr.Body.String())
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", fmt.Errorf("get: %w", ErrNotFound), http.StatusNotFound, `{"error":true,"message":"gone"}`},
		{"validation", fmt.Errorf("bad id: %w", ErrValidation), http.StatusBadRequest, `{"error":true,"message":"bad id: validation failed"}`},
		{"internal", errors.New("dial tcp: refused"), http.StatusInternalServerError, `{"error":true,"message":"Internal Server Error"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondError(rr, tc.err, "gone")
			assert.Equal(t, tc.status, rr.Code)
			assert.JSONEq(t, tc.body, rr.Body.String())
		})
	}
}
