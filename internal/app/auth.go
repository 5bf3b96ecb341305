package app

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kinotech/cinema-reservation-system/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type UserResponse struct {
	Id    int    `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Login string `json:"login"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (app *Application) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Login    string `json:"login" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6,max=72"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	user := domain.User{
		Login:        input.Login,
		Email:        strings.ToLower(input.Email),
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}

	err = app.userRepo.Create(r.Context(), &user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			app.errorResponse(w, r, http.StatusBadRequest, "A user with this login or email already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := UserResponse{
		Id:    user.ID,
		Login: user.Login,
		Email: user.Email,
		Role:  user.Role,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Login    string `json:"login" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user, err := app.userRepo.GetByLogin(r.Context(), input.Login)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusBadRequest, "Invalid login or password")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !user.IsActive {
		app.forbiddenResponse(w, r, "This account has been deactivated")
		return
	}

	err = bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(input.Password))
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, "Invalid login or password")
		return
	}

	token, err := app.newAccessToken(user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := LoginResponse{
		Token: token,
		Login: user.Login,
		Role:  user.Role,
		Email: user.Email,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// RefreshToken exchanges a structurally valid (possibly expired) token for a
// fresh one, as long as the user behind it still exists.
func (app *Application) RefreshToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		app.unauthorizedResponse(w, r, "You must be authenticated to access this resource")
		return
	}

	rawToken := strings.TrimPrefix(authHeader, "Bearer ")

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	token, err := parser.Parse(rawToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return []byte(app.config.JWT.Secret), nil
	})
	if err != nil {
		app.unauthorizedResponse(w, r, "Invalid authentication token")
		return
	}

	principal, err := principalFromClaims(token)
	if err != nil {
		app.unauthorizedResponse(w, r, "Invalid authentication token")
		return
	}

	user, err := app.userRepo.GetById(r.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.unauthorizedResponse(w, r, "The user behind this token no longer exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	newToken, err := app.newAccessToken(user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, TokenResponse{Token: newToken}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) newAccessToken(user *domain.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(app.config.JWT.Expiry).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(app.config.JWT.Secret))
}
