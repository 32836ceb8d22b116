package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, h http.HandlerFunc) *API {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	return NewAPI(c, instrument.NewNoop())
}

func respond(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestAPI_SendOTP(t *testing.T) {
	a := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathSendOTP, r.URL.Path)

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, map[string]string{"phone_suffix": "81234567", "country_code": "62"}, in)

		respond(w, http.StatusOK, map[string]any{
			"message": "OTP sent",
			"data":    map[string]any{"session_reference": "ref-1", "expires_in": 60},
		})
	})

	ch, err := a.SendOTP(context.Background(), entity.SendOTP{PhoneSuffix: "81234567", CountryCode: "62"})
	require.NoError(t, err)
	assert.Equal(t, &entity.Challenge{SessionReference: "ref-1", ExpiresIn: 60}, ch)
}

func TestAPI_VerifyOTP(t *testing.T) {
	a := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathVerifyOTP, r.URL.Path)

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "12345", in["code"])
		assert.Equal(t, "ref-1", in["session_reference"])

		respond(w, http.StatusOK, map[string]any{
			"message": "ok",
			"data":    map[string]any{"status_code": 419},
		})
	})

	v, err := a.VerifyOTP(context.Background(), "12345", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSessionExpired, v.StatusCode)
	assert.Equal(t, entity.OutcomeExpired, v.StatusCode.Outcome())
}

func TestAPI_VerifyOTPMissingStatus(t *testing.T) {
	a := newAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, map[string]any{"message": "ok", "data": map[string]any{}})
	})

	_, err := a.VerifyOTP(context.Background(), "12345", "ref-1")
	assert.Error(t, err)
}

func TestAPI_ErrorEnvelope(t *testing.T) {
	a := newAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusTooManyRequests, map[string]any{"message": "Too many OTP requests"})
	})

	_, err := a.SendOTP(context.Background(), entity.SendOTP{PhoneSuffix: "81234567", CountryCode: "62"})
	assert.Equal(t, goerror.CodeTooManyRequest, goerror.CodeOf(err))
	assert.Equal(t, "Too many OTP requests", goerror.MessageOf(err))
}
