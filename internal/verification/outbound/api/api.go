package api

import (
	"context"
	"errors"

	"github.com/shandysiswandi/myfarm/internal/pkg/apiclient"
	"github.com/shandysiswandi/myfarm/internal/pkg/instrument"
	"github.com/shandysiswandi/myfarm/internal/verification/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	pathSendOTP   = "/api/v1/auth/otp/send"
	pathVerifyOTP = "/api/v1/auth/otp/verify"
)

type client interface {
	Post(ctx context.Context, path string, in, out any, opts ...apiclient.RequestOption) error
}

type sendOTPRequest struct {
	PhoneSuffix string `json:"phone_suffix"`
	CountryCode string `json:"country_code"`
}

type sendOTPResponse struct {
	SessionReference string `json:"session_reference"`
	ExpiresIn        int    `json:"expires_in"`
}

type verifyOTPRequest struct {
	Code             string `json:"code"`
	SessionReference string `json:"session_reference"`
}

type verifyOTPResponse struct {
	StatusCode   int    `json:"status_code"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type API struct {
	client client
	ins    instrument.Instrumentation
}

func NewAPI(c client, ins instrument.Instrumentation) *API {
	return &API{client: c, ins: ins}
}

func (a *API) SendOTP(ctx context.Context, in entity.SendOTP) (_ *entity.Challenge, err error) {
	ctx, span := a.startSpan(ctx, "SendOTP")
	defer func() { a.endSpan(span, err) }()

	var resp sendOTPResponse
	if err := a.client.Post(ctx, pathSendOTP, sendOTPRequest(in), &resp); err != nil {
		return nil, err
	}

	return &entity.Challenge{
		SessionReference: resp.SessionReference,
		ExpiresIn:        resp.ExpiresIn,
	}, nil
}

func (a *API) VerifyOTP(ctx context.Context, code, sessionReference string) (_ *entity.Verification, err error) {
	ctx, span := a.startSpan(ctx, "VerifyOTP")
	defer func() { a.endSpan(span, err) }()

	var resp verifyOTPResponse
	if err := a.client.Post(ctx, pathVerifyOTP, verifyOTPRequest{
		Code:             code,
		SessionReference: sessionReference,
	}, &resp); err != nil {
		return nil, err
	}

	if resp.StatusCode == 0 {
		return nil, errors.New("verify otp: response has no status code")
	}

	return &entity.Verification{
		StatusCode:   entity.StatusCode(resp.StatusCode),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (a *API) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return a.ins.Tracer("verification.outbound.api").Start(ctx, name)
}

func (a *API) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
