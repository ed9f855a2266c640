package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"vrent/pkg/config"
	"vrent/pkg/erp"
)

// StaffAuth validates ERP-issued staff session tokens.
//
// Expected header:
//   - Authorization: Bearer <JWT>
//
// Outside prod, a missing Authorization header can fall back to X-Staff-User to keep
// local testing simple.
func StaffAuth(cfg config.Config, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token := strings.TrimSpace(authz[7:])
				staff, err := erp.VerifyStaffToken(token, cfg.ERP.SessionAudience, cfg.ERP.SessionSecret, time.Now())
				if err != nil {
					logger.Debug("staff token rejected", zap.Error(err))
					WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithStaff(r.Context(), staff)))
				return
			}

			// Dev fallback
			if cfg.AppEnv != "prod" {
				if user := strings.TrimSpace(r.Header.Get("X-Staff-User")); user != "" {
					staff := &erp.Staff{User: user, Roles: splitRoles(r.Header.Get("X-Staff-Roles"))}
					next.ServeHTTP(w, r.WithContext(WithStaff(r.Context(), staff)))
					return
				}
			}

			WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token")
		})
	}
}

// RequireRole rejects staff without the role. An empty role allows every staff member.
func RequireRole(role string) func(http.Handler) http.Handler {
	role = strings.TrimSpace(role)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if role == "" {
				next.ServeHTTP(w, r)
				return
			}
			staff := StaffFromContext(r.Context())
			if staff == nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing staff identity")
				return
			}
			if !staff.HasRole(role) {
				WriteError(w, http.StatusForbidden, "FORBIDDEN", "missing role "+role)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func splitRoles(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
