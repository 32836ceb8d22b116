package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/myfarm/internal/pkg/router"
	"github.com/shandysiswandi/myfarm/internal/sandbox/entity"
	"github.com/shandysiswandi/myfarm/internal/sandbox/usecase"
)

type uc interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)

	Profile(ctx context.Context) (*entity.Profile, error)
	ProfileUpdate(ctx context.Context, in usecase.ProfileUpdateInput) (*entity.Profile, error)

	ListPackages(ctx context.Context) ([]entity.Package, error)
	Cart(ctx context.Context) (*entity.Cart, error)
	AddCartItem(ctx context.Context, in usecase.AddCartItemInput) (*entity.Cart, error)
}

// PublicEndpoints are the routes reachable without a bearer token.
var PublicEndpoints = map[string][]string{
	http.MethodPost: {"/api/v1/auth/otp/send", "/api/v1/auth/otp/verify"},
	http.MethodGet:  {"/api/v1/packages"},
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/auth/otp/send", end.SendOTP)
	r.POST("/api/v1/auth/otp/verify", end.VerifyOTP)

	r.GET("/api/v1/profile", end.Profile)
	r.PUT("/api/v1/profile", end.ProfileUpdate)

	r.GET("/api/v1/packages", end.ListPackages)
	r.GET("/api/v1/cart", end.Cart)
	r.POST("/api/v1/cart/items", end.AddCartItem)
}
