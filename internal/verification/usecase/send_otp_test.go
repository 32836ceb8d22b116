package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/validator"
	"github.com/shandysiswandi/myfarm/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsecase(t *testing.T) (*Usecase, *fakeAPI) {
	t.Helper()

	h := newHarness(t)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	h.dep.Validator = v
	return New(h.dep), h.api
}

func TestUsecase_SendOTP(t *testing.T) {
	uc, api := newUsecase(t)
	api.sendResp = &entity.Challenge{SessionReference: "ref-1", ExpiresIn: 60}

	out, err := uc.SendOTP(context.Background(), SendOTPInput{PhoneSuffix: " 081234567 ", CountryCode: "+62"})
	require.NoError(t, err)
	assert.Equal(t, "ref-1", out.SessionReference)
	assert.Equal(t, 60, out.ExpiresIn)
	assert.Equal(t, []entity.SendOTP{{PhoneSuffix: "81234567", CountryCode: "62"}}, api.sendCalls)
}

func TestUsecase_SendOTPValidation(t *testing.T) {
	uc, api := newUsecase(t)

	_, err := uc.SendOTP(context.Background(), SendOTPInput{PhoneSuffix: "12ab", CountryCode: "0"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeInvalidInput, goerror.CodeOf(err))

	var verr validator.V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Values(), "phone_suffix")
	assert.Contains(t, verr.Values(), "country_code")
	assert.Empty(t, api.sendCalls)
}

func TestUsecase_SendOTPEmptyReference(t *testing.T) {
	uc, api := newUsecase(t)
	api.sendResp = &entity.Challenge{}

	_, err := uc.SendOTP(context.Background(), SendOTPInput{PhoneSuffix: "81234567", CountryCode: "62"})
	assert.Equal(t, goerror.CodeInternal, goerror.CodeOf(err))
}

func TestUsecase_NewWidget(t *testing.T) {
	uc, _ := newUsecase(t)

	w := uc.NewWidget(Params{PhoneSuffix: "81234567", CountryCode: "62", SessionReference: "ref-1"})
	t.Cleanup(w.Close)

	st := w.Snapshot()
	assert.Equal(t, "81234567", st.PhoneSuffix)
	assert.Len(t, st.Slots, entity.CodeLength)
	assert.False(t, st.Expired)
}
