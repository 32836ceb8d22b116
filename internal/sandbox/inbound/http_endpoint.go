package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/myfarm/internal/pkg/router"
	"github.com/shandysiswandi/myfarm/internal/sandbox/entity"
	"github.com/shandysiswandi/myfarm/internal/sandbox/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// SendOTP opens a verification session for a phone number.
// @Summary Send OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Phone payload"
// @Success 200 {object} router.successResponse{data=SendOTPResponse}
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/auth/otp/send [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{
		PhoneSuffix: req.PhoneSuffix,
		CountryCode: req.CountryCode,
	})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{SessionReference: out.SessionReference, ExpiresIn: out.ExpiresIn}, nil
}

// VerifyOTP checks a code. The outcome is reported in data.status_code.
// @Summary Verify OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Code payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse}
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/auth/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Code:             req.Code,
		SessionReference: req.SessionReference,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{
		Status:       out.Status,
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	}, nil
}

// Profile returns the caller's profile.
// @Summary Get profile
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse}
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Router /api/v1/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	p, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return newProfileResponse(p), nil
}

// ProfileUpdate replaces the caller's profile fields.
// @Summary Update profile
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ProfileUpdateRequest true "Profile payload"
// @Success 200 {object} router.successResponse{data=ProfileResponse}
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/profile [put]
func (h *HTTPEndpoint) ProfileUpdate(r *router.Request) (any, error) {
	var req ProfileUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	p, err := h.uc.ProfileUpdate(r.Context(), usecase.ProfileUpdateInput{
		FullName:   req.FullName,
		Email:      req.Email,
		BirthDate:  req.BirthDate,
		Gender:     req.Gender,
		Address:    req.Address,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		return nil, err
	}

	return newProfileResponse(p), nil
}

// ListPackages returns the package catalog.
// @Summary List packages
// @Tags Catalog
// @Produce json
// @Success 200 {object} router.successResponse{data=PackagesResponse}
// @Router /api/v1/packages [get]
func (h *HTTPEndpoint) ListPackages(r *router.Request) (any, error) {
	pkgs, err := h.uc.ListPackages(r.Context())
	if err != nil {
		return nil, err
	}

	return PackagesResponse(lo.Map(pkgs, func(p entity.Package, _ int) PackageResponse {
		return PackageResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Unit:        p.Unit,
			Stock:       p.Stock,
			Active:      p.Active,
		}
	})), nil
}

// Cart returns the caller's cart.
// @Summary Get cart
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=CartResponse}
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Router /api/v1/cart [get]
func (h *HTTPEndpoint) Cart(r *router.Request) (any, error) {
	cart, err := h.uc.Cart(r.Context())
	if err != nil {
		return nil, err
	}

	return newCartResponse(cart), nil
}

// AddCartItem adds a package to the caller's cart.
// @Summary Add cart item
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Client generated key"
// @Param request body AddCartItemRequest true "Item payload"
// @Success 201 {object} router.successResponse{data=CartResponse}
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Package not found"
// @Failure 409 {object} router.errorResponse "Conflict"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/cart/items [post]
func (h *HTTPEndpoint) AddCartItem(r *router.Request) (any, error) {
	var req AddCartItemRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	cart, err := h.uc.AddCartItem(r.Context(), usecase.AddCartItemInput{
		IdempotencyKey: r.IdempotencyKey(),
		PackageID:      req.PackageID,
		Qty:            req.Qty,
	})
	if err != nil {
		return nil, err
	}

	return AddCartItemResponse{CartResponse: newCartResponse(cart)}, nil
}
