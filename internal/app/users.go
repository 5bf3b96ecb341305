package app

import (
	"errors"
	"net/http"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func (app *Application) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal := app.contextGetPrincipal(r)

	user, err := app.userRepo.GetById(r.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
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

func (app *Application) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
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

	principal := app.contextGetPrincipal(r)

	user, err := app.userRepo.GetById(r.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(input.OldPassword))
	if err != nil {
		app.errorResponse(w, r, http.StatusBadRequest, "Old password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcryptCost)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.userRepo.UpdatePassword(r.Context(), user.ID, hash)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, MessageResponse{Message: "Password changed"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	principal := app.contextGetPrincipal(r)

	err := app.userRepo.Deactivate(r.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, MessageResponse{Message: "Account deactivated"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
