package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type contextKey string

const principalContextKey = contextKey("principal")

func (app *Application) contextGetPrincipal(r *http.Request) domain.Principal {
	principal, ok := r.Context().Value(principalContextKey).(domain.Principal)
	if !ok {
		panic("missing principal in request context")
	}

	return principal
}

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requireAuthentication verifies the bearer token and attaches the resulting
// principal to the request context. Handlers downstream trust the principal
// and never look at credentials again.
func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			app.unauthorizedResponse(w, r, "You must be authenticated to access this resource")
			return
		}

		rawToken := strings.TrimPrefix(authHeader, "Bearer ")

		principal, err := app.parseAccessToken(rawToken)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				app.unauthorizedResponse(w, r, "Authentication token has expired")
			default:
				app.unauthorizedResponse(w, r, "Invalid authentication token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *Application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := app.contextGetPrincipal(r)

		if !principal.IsAdmin() {
			app.forbiddenResponse(w, r, "You do not have permission to access this resource")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) parseAccessToken(rawToken string) (domain.Principal, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(app.config.JWT.Secret), nil
	})
	if err != nil {
		return domain.Principal{}, err
	}

	return principalFromClaims(token)
}

func principalFromClaims(token *jwt.Token) (domain.Principal, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Principal{}, errors.New("unexpected token claims")
	}

	userID, ok := claims["id"].(float64)
	if !ok {
		return domain.Principal{}, errors.New("token is missing the id claim")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return domain.Principal{}, errors.New("token is missing the role claim")
	}

	return domain.Principal{UserID: int(userID), Role: role}, nil
}
