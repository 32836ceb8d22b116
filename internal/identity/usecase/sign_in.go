package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/myfarm/internal/identity/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
)

type SignInInput struct {
	CountryCode string `json:"country_code" validate:"required,countrycode"`
	PhoneSuffix string `json:"phone_suffix" validate:"required,numeric,min=6,max=13"`
	Remember    bool   `json:"remember"`
}

type SignInOutput struct {
	CountryCode      string
	PhoneSuffix      string
	Remember         bool
	SessionReference string
}

func normalizePhone(countryCode, phoneSuffix string) (string, string) {
	countryCode = strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	phoneSuffix = strings.TrimLeft(strings.TrimSpace(phoneSuffix), "0")
	return countryCode, phoneSuffix
}

// SignIn validates the phone number and sends an OTP to it.
func (s *Usecase) SignIn(ctx context.Context, in SignInInput) (*SignInOutput, error) {
	ctx, span := s.startSpan(ctx, "SignIn")
	defer span.End()

	in.CountryCode, in.PhoneSuffix = normalizePhone(in.CountryCode, in.PhoneSuffix)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ref, err := s.otp.SendOTP(ctx, in.PhoneSuffix, in.CountryCode)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send sign in otp", "country_code", in.CountryCode, "error", err)
		return nil, err
	}

	return &SignInOutput{
		CountryCode:      in.CountryCode,
		PhoneSuffix:      in.PhoneSuffix,
		Remember:         in.Remember,
		SessionReference: ref,
	}, nil
}

type CompleteSignInInput struct {
	CountryCode  string
	PhoneSuffix  string
	Remember     bool
	AccessToken  string
	RefreshToken string
}

// CompleteSignIn stores the tokens of a verified OTP and remembers or forgets
// the phone number as requested.
func (s *Usecase) CompleteSignIn(ctx context.Context, in CompleteSignInInput) error {
	ctx, span := s.startSpan(ctx, "CompleteSignIn")
	defer span.End()

	creds := entity.Credentials{CountryCode: in.CountryCode, PhoneSuffix: in.PhoneSuffix}

	if err := s.session.Start(creds.Phone(), in.AccessToken, in.RefreshToken); err != nil {
		slog.ErrorContext(ctx, "failed to start session", "error", err)
		return goerror.NewServer(err)
	}

	if in.Remember {
		if err := s.repoCredential.Save(ctx, creds); err != nil {
			slog.ErrorContext(ctx, "failed to remember credentials", "error", err)
		}
		tokens := entity.Tokens{Phone: creds.Phone(), AccessToken: in.AccessToken, RefreshToken: in.RefreshToken}
		if err := s.repoCredential.SaveTokens(ctx, tokens); err != nil {
			slog.ErrorContext(ctx, "failed to persist session tokens", "error", err)
		}
		return nil
	}

	if err := s.repoCredential.Forget(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to forget credentials", "error", err)
	}
	if err := s.repoCredential.ForgetTokens(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to forget session tokens", "error", err)
	}

	return nil
}

// RestoreSession starts a session from persisted tokens. It reports false
// when there are none or they have expired.
func (s *Usecase) RestoreSession(ctx context.Context) bool {
	ctx, span := s.startSpan(ctx, "RestoreSession")
	defer span.End()

	tokens, err := s.repoCredential.LoadTokens(ctx)
	if errors.Is(err, entity.ErrNoStoredTokens) {
		return false
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to load session tokens", "error", err)
		return false
	}

	if err := s.session.Start(tokens.Phone, tokens.AccessToken, tokens.RefreshToken); err != nil || !s.session.SignedIn() {
		s.session.Clear()
		if ferr := s.repoCredential.ForgetTokens(ctx); ferr != nil {
			slog.WarnContext(ctx, "failed to drop stale session tokens", "error", ferr)
		}
		return false
	}

	return true
}

// RememberedCredentials returns the remembered phone number, or nil when
// there is none or it cannot be read.
func (s *Usecase) RememberedCredentials(ctx context.Context) *entity.Credentials {
	ctx, span := s.startSpan(ctx, "RememberedCredentials")
	defer span.End()

	creds, err := s.repoCredential.Load(ctx)
	if errors.Is(err, entity.ErrNoRememberedCredentials) {
		return nil
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to load remembered credentials", "error", err)
		return nil
	}

	return creds
}

// SignOut ends the session and optionally forgets the phone number.
func (s *Usecase) SignOut(ctx context.Context, forget bool) error {
	ctx, span := s.startSpan(ctx, "SignOut")
	defer span.End()

	s.session.Clear()

	if err := s.repoCredential.ForgetTokens(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to forget session tokens on sign out", "error", err)
	}

	if !forget {
		return nil
	}

	if err := s.repoCredential.Forget(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to forget credentials on sign out", "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
