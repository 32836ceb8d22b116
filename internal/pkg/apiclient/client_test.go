package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func newClient(t *testing.T, h http.HandlerFunc, retryMax uint64, token string) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		BaseURL:  srv.URL + "/",
		Timeout:  2 * time.Second,
		RetryMax: retryMax,
		Tokens:   staticToken(token),
		UUID:     fixedID("cid-1"),
	})
	require.NoError(t, err)
	return c
}

func writeEnvelope(w http.ResponseWriter, status int, v map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "  "})
	assert.Error(t, err)
}

func TestClient_PostDecodesData(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/otp/send", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "cid-1", r.Header.Get(instrument.HeaderCorrelationID))
		assert.Equal(t, "idem-1", r.Header.Get(HeaderIdempotencyKey))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "62", in["country_code"])

		writeEnvelope(w, http.StatusOK, map[string]any{
			"message": "ok",
			"data":    map[string]any{"session_reference": "ref-1", "expires_in": 60},
		})
	}, 0, "tok")

	var out struct {
		SessionReference string `json:"session_reference"`
		ExpiresIn        int    `json:"expires_in"`
	}
	err := c.Post(context.Background(), "/api/v1/auth/otp/send",
		map[string]string{"country_code": "62"}, &out, WithIdempotencyKey("idem-1"))

	require.NoError(t, err)
	assert.Equal(t, "ref-1", out.SessionReference)
	assert.Equal(t, 60, out.ExpiresIn)
}

func TestClient_UsesContextCorrelationID(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "from-ctx", r.Header.Get(instrument.HeaderCorrelationID))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}, 0, "")

	ctx := instrument.SetCorrelationID(context.Background(), "from-ctx")
	require.NoError(t, c.Put(ctx, "api/v1/profile", map[string]string{}, nil))
}

func TestClient_MapsErrorEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   goerror.Code
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, code: goerror.CodeUnauthorized},
		{name: "gone", status: http.StatusGone, code: goerror.CodeExpired},
		{name: "session expired", status: goerror.StatusSessionExpired, code: goerror.CodeExpired},
		{name: "validation", status: http.StatusUnprocessableEntity, code: goerror.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeEnvelope(w, tt.status, map[string]any{
					"message": "nope",
					"error":   map[string]string{"email": "email must be a valid email address"},
				})
			}, 0, "")

			err := c.Post(context.Background(), "/x", map[string]string{}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.code, goerror.CodeOf(err))
			assert.Equal(t, "nope", goerror.MessageOf(err))

			var gerr *goerror.Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, "email must be a valid email address", gerr.Fields()["email"])
		})
	}
}

func TestClient_GetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			writeEnvelope(w, http.StatusServiceUnavailable, map[string]any{"message": "busy"})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"message": "ok", "data": []string{"a", "b"}})
	}, 2, "")

	var out []string
	require.NoError(t, c.Get(context.Background(), "/api/v1/packages", &out))
	assert.Equal(t, []string{"a", "b"}, out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_GetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeEnvelope(w, http.StatusNotFound, map[string]any{"message": "missing"})
	}, 3, "")

	err := c.Get(context.Background(), "/api/v1/cart", nil)
	assert.Equal(t, goerror.CodeNotFound, goerror.CodeOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Post(context.Background(), "/x", nil, nil)
	require.Error(t, err)
	assert.Equal(t, goerror.CodeInternal, goerror.CodeOf(err))
	assert.Contains(t, err.Error(), "POST /x")
}
