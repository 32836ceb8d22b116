package api

import (
	"context"

	"github.com/shandysiswandi/myfarm/internal/identity/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

const pathProfile = "/api/v1/profile"

type client interface {
	Get(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error
	Put(ctx context.Context, path string, in, out any, opts ...apiclient.RequestOption) error
}

type profileResponse struct {
	Phone      string `json:"phone"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
}

type profileUpdateRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
}

type API struct {
	client client
	ins    instrument.Instrumentation
}

func NewAPI(c client, ins instrument.Instrumentation) *API {
	return &API{client: c, ins: ins}
}

func (a *API) GetProfile(ctx context.Context) (*entity.Profile, error) {
	ctx, span := a.startSpan(ctx, "GetProfile")
	defer span.End()

	var resp profileResponse
	if err := a.client.Get(ctx, pathProfile, &resp); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return resp.toEntity(), nil
}

func (a *API) UpdateProfile(ctx context.Context, in entity.ProfileFields) (*entity.Profile, error) {
	ctx, span := a.startSpan(ctx, "UpdateProfile")
	defer span.End()

	var resp profileResponse
	if err := a.client.Put(ctx, pathProfile, profileUpdateRequest{
		FullName:   in.FullName,
		Email:      in.Email,
		BirthDate:  in.BirthDate,
		Gender:     string(in.Gender),
		Address:    in.Address,
		PostalCode: in.PostalCode,
	}, &resp); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return resp.toEntity(), nil
}

func (r profileResponse) toEntity() *entity.Profile {
	return &entity.Profile{
		Phone:      r.Phone,
		FullName:   r.FullName,
		Email:      r.Email,
		BirthDate:  r.BirthDate,
		Gender:     entity.Gender(r.Gender),
		Address:    r.Address,
		PostalCode: r.PostalCode,
	}
}

func (a *API) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return a.ins.Tracer("identity.outbound.api").Start(ctx, name)
}
