package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode Code
		wantType Type
	}{
		{name: "bad request", status: http.StatusBadRequest, wantCode: CodeInvalidFormat, wantType: TypeValidation},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, wantCode: CodeInvalidInput, wantType: TypeValidation},
		{name: "unauthorized", status: http.StatusUnauthorized, wantCode: CodeUnauthorized, wantType: TypeBusiness},
		{name: "gone", status: http.StatusGone, wantCode: CodeExpired, wantType: TypeBusiness},
		{name: "session expired", status: StatusSessionExpired, wantCode: CodeExpired, wantType: TypeBusiness},
		{name: "unavailable", status: http.StatusServiceUnavailable, wantCode: CodeUnavailable, wantType: TypeServer},
		{name: "teapot", status: http.StatusTeapot, wantCode: CodeInternal, wantType: TypeServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatusCode(tt.status, "", nil)

			var gerr *Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tt.wantCode, gerr.Code())
			assert.Equal(t, tt.wantType, gerr.Type())
		})
	}
}

func TestFromStatusCode_KeepsMessageAndFields(t *testing.T) {
	err := FromStatusCode(http.StatusUnprocessableEntity, "Validation error", map[string]string{"email": "email must be a valid email address"})

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Validation error", gerr.Error())
	assert.Equal(t, http.StatusUnprocessableEntity, gerr.StatusCode())
	assert.Equal(t, "email must be a valid email address", gerr.Fields()["email"])
}

func TestStatusCode_RoundTrip(t *testing.T) {
	assert.Equal(t, http.StatusGone, NewBusiness("code expired", CodeExpired).(*Error).StatusCode())
	assert.Equal(t, http.StatusServiceUnavailable, NewBusiness("down", CodeUnavailable).(*Error).StatusCode())
}

func TestCodeOfAndMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("call failed: %w", NewBusiness("Invalid code", CodeUnauthorized))

	assert.Equal(t, CodeUnauthorized, CodeOf(wrapped))
	assert.Equal(t, "Invalid code", MessageOf(wrapped))

	plain := errors.New("dial tcp: connection refused")
	assert.Equal(t, CodeInternal, CodeOf(plain))
	assert.Equal(t, "dial tcp: connection refused", MessageOf(plain))
}

func TestNewInvalidInput_Pairs(t *testing.T) {
	err := NewInvalidInput(nil, "code", "Please enter all 5 digits")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, CodeInvalidInput, gerr.Code())
	assert.Equal(t, map[string]string{"code": "Please enter all 5 digits"}, gerr.Fields())

	odd := NewInvalidInput(nil, "only-key")
	require.ErrorAs(t, odd, &gerr)
	assert.Equal(t, CodeInvalidFormat, gerr.Code())
}

func TestNewIncomplete(t *testing.T) {
	err := NewIncomplete("Please enter all 5 digits")

	assert.Equal(t, "Please enter all 5 digits", err.Error())
	assert.Equal(t, CodeInvalidInput, CodeOf(err))
}

type valuesErr map[string]string

func (v valuesErr) Error() string             { return "invalid" }
func (v valuesErr) Values() map[string]string { return v }

func TestFieldsOf(t *testing.T) {
	assert.Equal(t, map[string]string{"email": "bad"}, FieldsOf(NewInvalidInput(valuesErr{"email": "bad"})))
	assert.Equal(t, map[string]string{"birth_date": "future"}, FieldsOf(NewInvalidInput(nil, "birth_date", "future")))
	assert.Nil(t, FieldsOf(errors.New("plain")))
}
