package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/myfarm/internal/identity/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
)

// Profile fetches the signed-in user's personal details.
func (s *Usecase) Profile(ctx context.Context) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	if err := s.ensureSignedIn(); err != nil {
		return nil, err
	}

	p, err := s.repoAPI.GetProfile(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get profile", "error", err)
		return nil, err
	}

	return p, nil
}

type ProfileUpdateInput struct {
	FullName   string `json:"full_name" validate:"required,max=100,alphaspace"`
	Email      string `json:"email" validate:"omitempty,email"`
	BirthDate  string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender     string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address    string `json:"address" validate:"omitempty,max=255"`
	PostalCode string `json:"postal_code" validate:"omitempty,numeric,len=5"`
}

// ProfileUpdate validates and saves the personal details. Field errors are
// keyed by the JSON field name.
func (s *Usecase) ProfileUpdate(ctx context.Context, in ProfileUpdateInput) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "ProfileUpdate")
	defer span.End()

	in.FullName = strings.Join(strings.Fields(in.FullName), " ")
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	in.Address = strings.TrimSpace(in.Address)
	in.PostalCode = strings.TrimSpace(in.PostalCode)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.BirthDate != "" {
		bd, _ := time.Parse(time.DateOnly, in.BirthDate)
		if !bd.Before(s.clock.Now()) {
			return nil, goerror.NewInvalidInput(nil, "birth_date", "birth_date must be in the past")
		}
	}

	if err := s.ensureSignedIn(); err != nil {
		return nil, err
	}

	p, err := s.repoAPI.UpdateProfile(ctx, entity.ProfileFields{
		FullName:   in.FullName,
		Email:      in.Email,
		BirthDate:  in.BirthDate,
		Gender:     entity.Gender(in.Gender),
		Address:    in.Address,
		PostalCode: in.PostalCode,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to update profile", "phone", s.session.Phone(), "error", err)
		return nil, err
	}

	return p, nil
}
