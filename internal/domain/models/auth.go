package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued by the identity provider.
// Only the subject (the stable user id) is consumed downstream;
// everything else exists for auditing.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
