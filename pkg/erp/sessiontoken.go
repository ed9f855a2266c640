package erp

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StaffClaims are the claims of a session token the ERP login issues to back-office staff.
type StaffClaims struct {
	jwt.RegisteredClaims

	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

type Staff struct {
	User      string
	FullName  string
	Roles     []string
	ExpiresAt time.Time
}

func (s Staff) HasRole(role string) bool {
	for _, r := range s.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// VerifyStaffToken verifies an HS256 staff session token and returns the staff identity.
func VerifyStaffToken(tokenString string, audience string, secret string, now time.Time) (*Staff, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing session secret")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	claims := &StaffClaims{}
	tok, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	user := strings.TrimSpace(claims.Subject)
	if user == "" {
		user = strings.TrimSpace(claims.Email)
	}
	if user == "" {
		return nil, fmt.Errorf("missing staff identity in token")
	}

	return &Staff{
		User:      user,
		FullName:  claims.FullName,
		Roles:     claims.Roles,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
