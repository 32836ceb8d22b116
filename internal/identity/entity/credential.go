package entity

import "errors"

var ErrNoRememberedCredentials = errors.New("identity: no remembered credentials")

// Credentials is the phone number a user asked the client to remember.
type Credentials struct {
	CountryCode string `json:"country_code"`
	PhoneSuffix string `json:"phone_suffix"`
}

// Phone returns the number in E.164 form, e.g. +6281234567.
func (c Credentials) Phone() string {
	return "+" + c.CountryCode + c.PhoneSuffix
}

var ErrNoStoredTokens = errors.New("identity: no stored session tokens")

// Tokens is a persisted session, kept only for remembered users.
type Tokens struct {
	Phone        string `json:"phone"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
