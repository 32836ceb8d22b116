// Package otp generates and validates time-based one-time codes.
//
// The sandbox API issues one secret per verification session and derives the
// short numeric code a user would receive by SMS from it, so a code naturally
// goes stale when its period rolls over.
package otp
