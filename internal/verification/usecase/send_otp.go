package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/verification/entity"
)

type SendOTPInput struct {
	PhoneSuffix string `json:"phone_suffix" validate:"required,numeric,min=6,max=13"`
	CountryCode string `json:"country_code" validate:"required,countrycode"`
}

type SendOTPOutput struct {
	SessionReference string
	ExpiresIn        int
}

// SendOTP asks the API to deliver a code to the phone number.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.PhoneSuffix = strings.TrimLeft(strings.TrimSpace(in.PhoneSuffix), "0")
	in.CountryCode = strings.TrimPrefix(strings.TrimSpace(in.CountryCode), "+")

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ch, err := s.repoAPI.SendOTP(ctx, entity.SendOTP{
		PhoneSuffix: in.PhoneSuffix,
		CountryCode: in.CountryCode,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send otp", "country_code", in.CountryCode, "error", err)
		return nil, err
	}

	if ch.SessionReference == "" {
		slog.ErrorContext(ctx, "send otp returned an empty session reference", "country_code", in.CountryCode)
		return nil, goerror.NewBusiness("Failed to send OTP code", goerror.CodeInternal)
	}

	return &SendOTPOutput{
		SessionReference: ch.SessionReference,
		ExpiresIn:        ch.ExpiresIn,
	}, nil
}
