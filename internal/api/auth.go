package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/models"
)

// ActingUser is the identity attached to mutation requests. It is resolved
// once at the request boundary from the bearer token claims; the identity
// provider itself lives outside this service.
type ActingUser struct {
	ID       string
	Username string
	Role     string
}

type ctxKey int

const actingUserKey ctxKey = 0

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (ActingUser, bool) {
	user, ok := ctx.Value(actingUserKey).(ActingUser)
	return user, ok
}

// authenticate parses an optional bearer token. Requests without an
// Authorization header pass through anonymously; malformed or unverifiable
// tokens are rejected outright.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			respondError(w, http.StatusUnauthorized, errors.New("invalid authorization header"))
			return
		}

		user, err := a.parseToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, errors.New("invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), actingUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) parseToken(raw string) (ActingUser, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.config.JWTSigningKey), nil
	})
	if err != nil || !token.Valid {
		return ActingUser{}, errors.New("token verification failed")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ActingUser{}, errors.New("unexpected claims type")
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return ActingUser{}, errors.New("token missing identity claims")
	}

	return ActingUser{ID: sub, Username: username, Role: role}, nil
}

// requireRoles gates a route on the caller's role. Including RolePublic in
// the set admits anonymous callers as well.
func (a *API) requireRoles(roles ...string) func(http.Handler) http.Handler {
	allowAnonymous := false
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if role == models.RolePublic {
			allowAnonymous = true
		}
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				if allowAnonymous {
					next.ServeHTTP(w, r)
					return
				}
				respondError(w, http.StatusUnauthorized, errors.New("authentication required"))
				return
			}

			if _, ok := allowed[user.Role]; !ok && !allowAnonymous {
				respondError(w, http.StatusForbidden, errors.New("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
