package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type ReservationResponse struct {
	Id          int       `json:"id"`
	ScreeningId int       `json:"screeningId"`
	SeatId      int       `json:"seatId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UserReservationResponse struct {
	Id            int       `json:"id"`
	ScreeningId   int       `json:"screeningId"`
	MovieTitle    string    `json:"movieTitle"`
	ScreeningTime time.Time `json:"screeningTime"`
	HallNumber    int       `json:"hallNumber"`
	RowNumber     int       `json:"rowNumber"`
	SeatNumber    int       `json:"seatNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

type UserReservationListResponse struct {
	Reservations []UserReservationResponse `json:"reservations"`
}

// CreateReservation grants a seat on a screening to the requesting user. The
// screening and seat lookups are fast-path validation only: the unique
// constraint on (screening_id, seat_id) is what decides races, surfacing as
// ErrSeatAlreadyReserved from the repository.
func (app *Application) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ScreeningID int `json:"screeningId" validate:"required,gt=0"`
		SeatID      int `json:"seatId" validate:"required,gt=0"`
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

	screening, err := app.screeningRepo.GetById(r.Context(), input.ScreeningID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusBadRequest, "The screening does not exist or has already taken place")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !screening.ScreeningTime.After(time.Now()) {
		app.errorResponse(w, r, http.StatusBadRequest, "The screening does not exist or has already taken place")
		return
	}

	seat, err := app.seatRepo.GetById(r.Context(), input.SeatID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusBadRequest, "The seat does not exist")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// A seat from another hall is indistinguishable from a missing one.
	if seat.HallNumber != screening.HallNumber {
		app.errorResponse(w, r, http.StatusBadRequest, "The seat does not exist")
		return
	}

	reservation := domain.Reservation{
		UserID:      principal.UserID,
		ScreeningID: input.ScreeningID,
		SeatID:      input.SeatID,
	}

	err = app.reservationRepo.Create(r.Context(), &reservation)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyReserved):
			app.errorResponse(w, r, http.StatusBadRequest, "The seat is already taken")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := ReservationResponse{
		Id:          reservation.ID,
		ScreeningId: reservation.ScreeningID,
		SeatId:      reservation.SeatID,
		CreatedAt:   reservation.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	principal := app.contextGetPrincipal(r)

	_, err := app.userRepo.GetById(r.Context(), principal.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	reservations, err := app.reservationRepo.GetAllByUserId(r.Context(), principal.UserID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := UserReservationListResponse{
		Reservations: make([]UserReservationResponse, len(reservations)),
	}

	for i, reservation := range reservations {
		resp.Reservations[i] = UserReservationResponse{
			Id:            reservation.ReservationID,
			ScreeningId:   reservation.ScreeningID,
			MovieTitle:    reservation.MovieTitle,
			ScreeningTime: reservation.ScreeningTime,
			HallNumber:    reservation.HallNumber,
			RowNumber:     reservation.RowNumber,
			SeatNumber:    reservation.SeatNumber,
			CreatedAt:     reservation.CreatedAt,
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	principal := app.contextGetPrincipal(r)

	reservation, err := app.reservationRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if reservation.UserID != principal.UserID {
		app.forbiddenResponse(w, r, "The reservation does not belong to you")
		return
	}

	if !reservation.ScreeningTime.After(time.Now()) {
		app.errorResponse(w, r, http.StatusBadRequest,
			"A reservation for a screening that has already taken place cannot be cancelled")
		return
	}

	err = app.reservationRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, MessageResponse{Message: "Reservation cancelled"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
