package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/pkg/jwt"
	"github.com/shandysiswandi/myfarm/internal/sandbox/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Verification status codes reported in the verify response body.
const (
	StatusVerified       = http.StatusOK
	StatusInvalidCode    = http.StatusUnauthorized
	StatusCodeExpired    = http.StatusGone
	StatusSessionExpired = goerror.StatusSessionExpired
)

type SendOTPInput struct {
	PhoneSuffix string `json:"phone_suffix" validate:"required,numeric,min=6,max=13"`
	CountryCode string `json:"country_code" validate:"required,countrycode"`
}

type SendOTPOutput struct {
	SessionReference string
	ExpiresIn        int
}

// SendOTP opens a verification session and "delivers" the code by logging it.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.PhoneSuffix = strings.TrimLeft(strings.TrimSpace(in.PhoneSuffix), "0")
	in.CountryCode = strings.TrimPrefix(strings.TrimSpace(in.CountryCode), "+")

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	phone := "+" + in.CountryCode + in.PhoneSuffix

	secret, err := s.totp.Secret(phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create otp secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	code, err := s.totp.GenerateCode(secret, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	ref := s.uuid.Generate()
	key, err := s.sessionKey(ref)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session reference", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoStore.SaveSession(ctx, key, entity.OTPSession{
		Phone:    phone,
		Secret:   secret,
		IssuedAt: now,
	}, s.cfg.GetSecond("sandbox.otp.session_ttl_seconds")); err != nil {
		slog.ErrorContext(ctx, "failed to save otp session", "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "sandbox otp sent", "phone", phone, "sandbox_otp", code, "session_reference", ref)

	return &SendOTPOutput{
		SessionReference: ref,
		ExpiresIn:        s.cfg.GetInt("sandbox.otp.period_seconds"),
	}, nil
}

type VerifyOTPInput struct {
	Code             string `json:"code" validate:"required,otpcode"`
	SessionReference string `json:"session_reference" validate:"required"`
}

type VerifyOTPOutput struct {
	Status       int
	AccessToken  string
	RefreshToken string
}

// VerifyOTP checks a code against its session. Outcomes are reported as a
// status in the body: verified, wrong code, code window passed, or session
// gone. Too many wrong codes end the session.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	key, err := s.sessionKey(in.SessionReference)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash session reference", "error", err)
		return nil, goerror.NewServer(err)
	}

	sess, err := s.repoStore.GetSession(ctx, key)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp session not found")
		return s.outcome(ctx, StatusSessionExpired), nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get otp session", "error", err)
		return nil, goerror.NewServer(err)
	}

	period := s.cfg.GetSecond("sandbox.otp.period_seconds")
	if !s.clock.Now().Before(sess.IssuedAt.Add(period)) {
		s.endSession(ctx, key)
		return s.outcome(ctx, StatusCodeExpired), nil
	}

	if !s.totp.Validate(in.Code, sess.Secret, sess.IssuedAt) {
		attempts, err := s.repoStore.IncrementAttempts(ctx, key)
		if errors.Is(err, goerror.ErrNotFound) {
			return s.outcome(ctx, StatusSessionExpired), nil
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to count otp attempt", "error", err)
			return nil, goerror.NewServer(err)
		}

		if attempts >= s.cfg.GetInt("sandbox.otp.max_attempts") {
			slog.WarnContext(ctx, "otp session locked after too many attempts", "phone", sess.Phone)
			s.endSession(ctx, key)
			return s.outcome(ctx, StatusSessionExpired), nil
		}

		return s.outcome(ctx, StatusInvalidCode), nil
	}

	s.endSession(ctx, key)

	access, err := s.jwt.Generate(sess.Phone, jwt.KindAccess)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "error", err)
		return nil, goerror.NewServer(err)
	}

	refresh, err := s.jwt.Generate(sess.Phone, jwt.KindRefresh)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	out := s.outcome(ctx, StatusVerified)
	out.AccessToken = access
	out.RefreshToken = refresh

	return out, nil
}

func (s *Usecase) outcome(ctx context.Context, status int) *VerifyOTPOutput {
	s.verifications.Add(ctx, 1, metric.WithAttributes(attribute.Int("status_code", status)))
	return &VerifyOTPOutput{Status: status}
}

func (s *Usecase) endSession(ctx context.Context, key string) {
	if err := s.repoStore.DeleteSession(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to delete otp session", "error", err)
	}
}
