package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/services/auth"
	"github.com/mcoot/clickgame-go/internal/services/progress"
)

func TestWriteErrorMapping(t *testing.T) {
	rejected := &auth.ExchangeError{Provider: "wechat", Code: "40029", Message: "invalid code"}

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"missing code", auth.ErrMissingCode, http.StatusBadRequest, CodeInvalidRequest, "code is required"},
		{"provider rejection", fmt.Errorf("%w: %w", auth.ErrLoginFailed, rejected), http.StatusUnauthorized, CodeLoginFailed, "login failed: invalid code"},
		{"transport failure", fmt.Errorf("%w: %w", auth.ErrLoginFailed, errors.New("dial tcp: timeout")), http.StatusUnauthorized, CodeLoginFailed, "login failed"},
		{"invalid session", auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized, "invalid or expired token"},
		{"validation", &progress.ValidationError{Field: "assistants", Reason: "assistants empty"}, http.StatusBadRequest, CodeValidationFailed, "assistants empty"},
		{"persistence", fmt.Errorf("%w: %w", model.ErrPersistence, errors.New("conn refused")), http.StatusInternalServerError, CodeSaveFailed, "save failed"},
		{"token required", NewUnauthorizedError(), http.StatusUnauthorized, CodeUnauthorized, "token required"},
		{"invalid request", NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest, "bad body"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, tt.status, StatusOf(tt.err))
		})
	}
}
