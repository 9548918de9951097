package http

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "stayhost/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantError      string
		wantMessage    string
		wantRetryAfter string
	}{
		{
			name:           "rate limited sets retry after",
			err:            apperrors.RateLimited("Riprova tra 2 minuti.", 120),
			wantStatus:     http.StatusTooManyRequests,
			wantError:      apperrors.TitleRateLimited,
			wantRetryAfter: "120",
		},
		{
			name:       "timeout is 408",
			err:        apperrors.Timeout("troppo lento", nil),
			wantStatus: http.StatusRequestTimeout,
			wantError:  apperrors.TitleTimeout,
		},
		{
			name:       "plain error hides its text",
			err:        errors.New("secret database detail"),
			wantStatus:  http.StatusInternalServerError,
			wantError:   apperrors.TitleInternal,
			wantMessage: apperrors.MsgUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, WriteError(w, tt.err))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantRetryAfter, w.Header().Get("Retry-After"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["message"])
			}
			assert.NotContains(t, w.Body.String(), "secret database detail")
		})
	}
}

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "defaults", query: "", wantLimit: DefaultPageLimit, wantOffset: 0},
		{name: "explicit", query: "?limit=25&offset=50", wantLimit: 25, wantOffset: 50},
		{name: "limit capped", query: "?limit=1000", wantLimit: MaxPageLimit},
		{name: "negative offset clamped", query: "?offset=-3", wantLimit: DefaultPageLimit},
		{name: "alphabetic limit", query: "?limit=abc", wantErr: true},
		{name: "alphabetic offset", query: "?offset=xyz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/accommodations"+tt.query, nil)
			limit, offset, err := ExtractLimitOffset(r)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestRequestOrigin(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://casevacanza.it/api/v1/assistant", nil)
	assert.Equal(t, "http://casevacanza.it", RequestOrigin(r))

	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://casevacanza.it", RequestOrigin(r))

	r.Header.Set("X-Forwarded-Proto", "https, http")
	r.Header.Set("X-Forwarded-Host", "www.casevacanza.it")
	assert.Equal(t, "https://www.casevacanza.it", RequestOrigin(r))
}
