package domain

import "errors"

var (
	ErrRecordNotFound           = errors.New("record not found")
	ErrUserAlreadyExists        = errors.New("user already exists")
	ErrSeatAlreadyReserved      = errors.New("seat is already reserved for this screening")
	ErrHallTimeConflict         = errors.New("hall is occupied during the requested time")
	ErrScreeningHasReservations = errors.New("screening already has reservations")
)
