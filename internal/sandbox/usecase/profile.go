package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/myfarm/internal/pkg/goerror"
	"github.com/shandysiswandi/myfarm/internal/sandbox/entity"
)

func (s *Usecase) Profile(ctx context.Context) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	phone, err := authPhone(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.repoStore.GetProfile(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get profile", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
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

func (s *Usecase) ProfileUpdate(ctx context.Context, in ProfileUpdateInput) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "ProfileUpdate")
	defer span.End()

	phone, err := authPhone(ctx)
	if err != nil {
		return nil, err
	}

	in.FullName = strings.TrimSpace(in.FullName)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.BirthDate != "" {
		bd, _ := time.Parse(time.DateOnly, in.BirthDate)
		if !bd.Before(s.clock.Now()) {
			return nil, goerror.NewInvalidInput(nil, "birth_date", "birth_date must be in the past")
		}
	}

	p := entity.Profile{
		Phone:      phone,
		FullName:   in.FullName,
		Email:      in.Email,
		BirthDate:  in.BirthDate,
		Gender:     in.Gender,
		Address:    in.Address,
		PostalCode: in.PostalCode,
	}
	if err := s.repoStore.SaveProfile(ctx, p); err != nil {
		slog.ErrorContext(ctx, "failed to save profile", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &p, nil
}
