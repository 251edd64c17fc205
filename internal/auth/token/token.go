package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessType is the "type" claim the bearer middleware accepts.
const AccessType = "access"

// Subject identifies who an access token is issued to.
type Subject struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	Roles      []string
}

// SignAccess issues an HS256 access token for sub valid for ttl from now.
func SignAccess(sub Subject, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":         sub.UserID.String(),
		"business_id": sub.BusinessID.String(),
		"type":        AccessType,
		"roles":       sub.Roles,
		"exp":         now.Add(ttl).Unix(),
		"iat":         now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}
