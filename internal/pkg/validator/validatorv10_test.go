package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signInForm struct {
	CountryCode string `json:"country_code" validate:"required,countrycode"`
	PhoneSuffix string `json:"phone_suffix" validate:"required,numeric,min=6,max=13"`
}

type profileForm struct {
	FullName   string `json:"full_name" validate:"required,max=100,alphaspace"`
	PostalCode string `validate:"omitempty,numeric,len=5"`
	Code       string `json:"-" validate:"omitempty,otpcode"`
}

func newValidator(t *testing.T) *V10Validator {
	t.Helper()

	v, err := NewV10Validator()
	require.NoError(t, err)
	return v
}

func TestV10Validator_Valid(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Validate(signInForm{CountryCode: "+62", PhoneSuffix: "81234567"}))
	assert.NoError(t, v.Validate(profileForm{FullName: "Siti Aminah", PostalCode: "12345"}))
}

func TestV10Validator_FieldNamesFollowJSONTags(t *testing.T) {
	v := newValidator(t)

	err := v.Validate(signInForm{CountryCode: "62a", PhoneSuffix: "12"})

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "country_code must be a dialing code such as +62", verr["country_code"])
	assert.Contains(t, verr, "phone_suffix")
}

func TestV10Validator_CustomRulesAndSnakeFallback(t *testing.T) {
	v := newValidator(t)

	err := v.Validate(profileForm{FullName: "R2 D2", PostalCode: "12a45"})

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "full_name can contain only letters and spaces", verr.Values()["full_name"])
	assert.Contains(t, verr, "postal_code")
}

func TestV10ValidationError_Error(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
	assert.JSONEq(t, `{"code":"required"}`, V10ValidationError{"code": "required"}.Error())
}
