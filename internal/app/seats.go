package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type SeatResponse struct {
	SeatId     int  `json:"seatId"`
	RowNumber  int  `json:"rowNumber"`
	SeatNumber int  `json:"seatNumber"`
	Reserved   bool `json:"reserved"`
}

type SeatMapResponse struct {
	ScreeningId int            `json:"screeningId"`
	HallNumber  int            `json:"hallNumber"`
	Seats       []SeatResponse `json:"seats"`
}

// GetSeatsByScreening reports every seat in the screening's hall together
// with its reserved flag. The layout comes from the hall provisioning, the
// flags from the reservation ledger; the merge happens here.
func (app *Application) GetSeatsByScreening(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), id)
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

	seats, err := app.seatRepo.GetSeatsByHall(r.Context(), screening.HallNumber)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	reservedSeatIds, err := app.reservationRepo.GetSeatIdsByScreening(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	reserved := make(map[int]bool, len(reservedSeatIds))
	for _, seatID := range reservedSeatIds {
		reserved[seatID] = true
	}

	resp := SeatMapResponse{
		ScreeningId: id,
		HallNumber:  screening.HallNumber,
		Seats:       make([]SeatResponse, len(seats)),
	}

	for i, seat := range seats {
		resp.Seats[i] = SeatResponse{
			SeatId:     seat.ID,
			RowNumber:  seat.RowNumber,
			SeatNumber: seat.SeatNumber,
			Reserved:   reserved[seat.ID],
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
