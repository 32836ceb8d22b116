package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/config"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/pkg/jwt"
	"github.com/shandysiswandi/myfarm/internal/pkg/uid"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func newTestRouter(t *testing.T, yaml string) (*Router, *jwt.Symmetric) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "test",
		AccessTTL: time.Minute,
		Clock:     clock.New(),
		UUID:      uid.NewUUID(),
	})
	require.NoError(t, err)

	r := NewRouter(Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		JWT:        signer,
		Instrument: instrument.NewNoop(),
		PublicEndpoints: map[string][]string{
			http.MethodPost: {"/public"},
		},
	})

	return r, signer
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	//nolint:errcheck // some responses have no body
	json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRouter_PublicEndpointAndEnvelope(t *testing.T) {
	r, _ := newTestRouter(t, "")
	r.POST("/public", func(req *Request) (any, error) {
		var body struct {
			Name string `json:"name"`
		}
		if err := req.DecodeBody(&body); err != nil {
			return nil, err
		}
		return map[string]string{"hello": body.Name}, nil
	})

	rec, env := serve(r, httptest.NewRequest(http.MethodPost, "/public", strings.NewReader(`{"name":"farm"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "request has been successfully", env.Message)
	assert.JSONEq(t, `{"hello":"farm"}`, string(env.Data))
	assert.NotEmpty(t, rec.Header().Get(instrument.HeaderCorrelationID))
}

func TestRouter_RejectsUnknownFields(t *testing.T) {
	r, _ := newTestRouter(t, "")
	r.POST("/public", func(req *Request) (any, error) {
		var body struct{}
		return nil, req.DecodeBody(&body)
	})

	rec, env := serve(r, httptest.NewRequest(http.MethodPost, "/public", strings.NewReader(`{"x":1}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", env.Message)
}

func TestRouter_AuthRequired(t *testing.T) {
	r, signer := newTestRouter(t, "")
	r.GET("/private", func(req *Request) (any, error) {
		return map[string]string{"phone": jwt.GetAuth(req.Context()).Phone}, nil
	})

	rec, env := serve(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", env.Message)

	token, err := signer.Generate("+6281234567", jwt.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, env = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"phone":"+6281234567"}`, string(env.Data))

	refresh, err := signer.Generate("+6281234567", jwt.KindRefresh)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec, _ = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ErrorCodec(t *testing.T) {
	r, _ := newTestRouter(t, "")
	r.POST("/public", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(validator.V10ValidationError{"code": "code is required"})
	})

	rec, env := serve(r, httptest.NewRequest(http.MethodPost, "/public", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Validation error", env.Message)
	assert.Equal(t, map[string]string{"code": "code is required"}, env.Error)
}

func TestRouter_Maintenance(t *testing.T) {
	r, _ := newTestRouter(t, "sandbox:\n  maintenance:\n    endpoints: /public\n")
	r.POST("/public", func(*Request) (any, error) { return map[string]string{}, nil })

	rec, env := serve(r, httptest.NewRequest(http.MethodPost, "/public", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "service is under maintenance", env.Message)
}

func TestRouter_RecoversPanic(t *testing.T) {
	r, _ := newTestRouter(t, "")
	r.POST("/public", func(*Request) (any, error) { panic("boom") })

	rec, env := serve(r, httptest.NewRequest(http.MethodPost, "/public", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", env.Message)
}

func TestRouter_NotFoundAndWelcome(t *testing.T) {
	r, _ := newTestRouter(t, "")

	rec, env := serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "endpoint not found", env.Message)

	rec, env = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to MyFarm sandbox API", env.Message)
}

func TestNormalizeCID(t *testing.T) {
	assert.Empty(t, normalizeCID("a\r\nb"))
	assert.Equal(t, "abc", normalizeCID("  abc "))
	assert.Len(t, normalizeCID(strings.Repeat("x", 300)), maxCorrelationIDLen)
}
