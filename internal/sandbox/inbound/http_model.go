package inbound

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/myfarm/internal/sandbox/entity"
)

type SendOTPRequest struct {
	PhoneSuffix string `json:"phone_suffix"`
	CountryCode string `json:"country_code"`
}

type SendOTPResponse struct {
	SessionReference string `json:"session_reference"`
	ExpiresIn        int    `json:"expires_in"`
}

func (SendOTPResponse) Message() string { return "Verification code sent" }

type VerifyOTPRequest struct {
	Code             string `json:"code"`
	SessionReference string `json:"session_reference"`
}

// VerifyOTPResponse carries the verification outcome in the body. The HTTP
// status stays 200 for every outcome.
type VerifyOTPResponse struct {
	Status       int    `json:"status_code"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (r VerifyOTPResponse) Message() string {
	switch r.Status {
	case http.StatusOK:
		return "Verification successful"
	case http.StatusUnauthorized:
		return "Invalid code"
	case http.StatusGone:
		return "Code expired"
	default:
		return "Verification session expired"
	}
}

type ProfileUpdateRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
}

type ProfileResponse struct {
	Phone      string `json:"phone"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
}

func newProfileResponse(p *entity.Profile) ProfileResponse {
	return ProfileResponse{
		Phone:      p.Phone,
		FullName:   p.FullName,
		Email:      p.Email,
		BirthDate:  p.BirthDate,
		Gender:     p.Gender,
		Address:    p.Address,
		PostalCode: p.PostalCode,
	}
}

type PackageResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Unit        string `json:"unit"`
	Stock       int    `json:"stock"`
	Active      bool   `json:"active"`
}

type PackagesResponse []PackageResponse

func (r PackagesResponse) Meta() map[string]any {
	return map[string]any{"count": len(r)}
}

type AddCartItemRequest struct {
	PackageID string `json:"package_id"`
	Qty       int    `json:"qty"`
}

type CartItemResponse struct {
	PackageID string `json:"package_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Subtotal  int64  `json:"subtotal"`
}

type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	TotalQty int                `json:"total_qty"`
	Total    int64              `json:"total"`
}

func newCartResponse(c *entity.Cart) CartResponse {
	return CartResponse{
		Items: lo.Map(c.Items, func(i entity.CartItem, _ int) CartItemResponse {
			return CartItemResponse{PackageID: i.PackageID, Name: i.Name, Qty: i.Qty, Subtotal: i.Subtotal}
		}),
		TotalQty: c.TotalQty,
		Total:    c.Total,
	}
}

type AddCartItemResponse struct {
	CartResponse
}

func (AddCartItemResponse) StatusCode() int { return http.StatusCreated }

func (AddCartItemResponse) Message() string { return "Added to cart" }
