package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	activeScreeningsCacheKey = "screenings:active"
	activeScreeningsCacheTTL = 30 * time.Second
)

type ScreeningResponse struct {
	Id            int       `json:"id"`
	MovieId       int       `json:"movieId"`
	HallNumber    int       `json:"hallNumber"`
	ScreeningTime time.Time `json:"screeningTime"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
}

type ScreeningListResponse struct {
	Screenings []ScreeningResponse `json:"screenings"`
}

type screeningRequest struct {
	MovieID       int       `json:"movieId" validate:"required,gt=0"`
	HallNumber    int       `json:"hallNumber" validate:"required,gt=0"`
	ScreeningTime time.Time `json:"screeningTime" validate:"required"`
}

func (app *Application) GetScreenings(w http.ResponseWriter, r *http.Request) {
	screenings, err := app.screeningRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := ScreeningListResponse{Screenings: toScreeningResponses(screenings)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetActiveScreenings is the unauthenticated browse endpoint, so its payload
// is cached in Redis for a short window. Scheduler writes drop the cache;
// the TTL bounds staleness when an invalidation is lost.
func (app *Application) GetActiveScreenings(w http.ResponseWriter, r *http.Request) {
	if data := app.cachedActiveScreenings(r.Context()); data != nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	screenings, err := app.screeningRepo.GetAllActive(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := ScreeningListResponse{Screenings: toScreeningResponses(screenings)}

	data, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data = append(data, '\n')

	app.storeActiveScreenings(r.Context(), data)

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (app *Application) GetScreeningById(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toScreeningResponse(*screening), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateScreening(w http.ResponseWriter, r *http.Request) {
	var input screeningRequest

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

	if !input.ScreeningTime.After(time.Now()) {
		app.errorResponse(w, r, http.StatusBadRequest, "The screening must be scheduled in the future")
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), input.MovieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusBadRequest, "The referenced movie does not exist")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	hallExists, err := app.seatRepo.HallExists(r.Context(), input.HallNumber)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !hallExists {
		app.errorResponse(w, r, http.StatusBadRequest, "The referenced hall does not exist")
		return
	}

	screening := domain.Screening{
		MovieID:          input.MovieID,
		HallNumber:       input.HallNumber,
		ScreeningTime:    input.ScreeningTime,
		MovieTitle:       movie.Title,
		MovieCategory:    movie.Category,
		MovieDescription: movie.Description,
	}

	err = app.screeningRepo.Create(r.Context(), &screening)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHallTimeConflict):
			app.errorResponse(w, r, http.StatusBadRequest, "The hall is occupied at this time")
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusBadRequest, "The referenced movie does not exist")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.invalidateActiveScreenings(r.Context())

	err = app.writeJSON(w, http.StatusCreated, toScreeningResponse(screening), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateScreening(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input screeningRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	existing, err := app.screeningRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !existing.ScreeningTime.After(time.Now()) {
		app.errorResponse(w, r, http.StatusBadRequest, "The screening has already started and can no longer be edited")
		return
	}

	if !input.ScreeningTime.After(time.Now()) {
		app.errorResponse(w, r, http.StatusBadRequest, "The screening must be scheduled in the future")
		return
	}

	_, err = app.movieRepo.GetById(r.Context(), input.MovieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusBadRequest, "The referenced movie does not exist")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	hallExists, err := app.seatRepo.HallExists(r.Context(), input.HallNumber)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !hallExists {
		app.errorResponse(w, r, http.StatusBadRequest, "The referenced hall does not exist")
		return
	}

	screening := domain.Screening{
		ID:            id,
		MovieID:       input.MovieID,
		HallNumber:    input.HallNumber,
		ScreeningTime: input.ScreeningTime,
	}

	err = app.screeningRepo.Update(r.Context(), &screening)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrScreeningHasReservations):
			app.errorResponse(w, r, http.StatusBadRequest, "The screening already has reservations and can no longer be edited")
		case errors.Is(err, domain.ErrHallTimeConflict):
			app.errorResponse(w, r, http.StatusBadRequest, "The hall is occupied at this time")
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.invalidateActiveScreenings(r.Context())

	err = app.writeJSON(w, http.StatusOK, MessageResponse{Message: "Screening updated"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// DeleteScreening removes the screening unconditionally and cascades to its
// reservations. Unlike editing, deletion is not blocked by existing
// reservations.
func (app *Application) DeleteScreening(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.screeningRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.invalidateActiveScreenings(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) cachedActiveScreenings(ctx context.Context) []byte {
	if app.redis == nil {
		return nil
	}

	data, err := app.redis.Get(ctx, activeScreeningsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			app.logger.Warn("failed to read active screenings cache", "error", err)
		}
		return nil
	}

	return data
}

func (app *Application) storeActiveScreenings(ctx context.Context, data []byte) {
	if app.redis == nil {
		return
	}

	err := app.redis.Set(ctx, activeScreeningsCacheKey, data, activeScreeningsCacheTTL).Err()
	if err != nil {
		app.logger.Warn("failed to store active screenings cache", "error", err)
	}
}

func (app *Application) invalidateActiveScreenings(ctx context.Context) {
	if app.redis == nil {
		return
	}

	err := app.redis.Del(ctx, activeScreeningsCacheKey).Err()
	if err != nil {
		app.logger.Warn("failed to invalidate active screenings cache", "error", err)
	}
}

func toScreeningResponses(screenings []domain.Screening) []ScreeningResponse {
	responses := make([]ScreeningResponse, len(screenings))

	for i, screening := range screenings {
		responses[i] = toScreeningResponse(screening)
	}

	return responses
}

func toScreeningResponse(screening domain.Screening) ScreeningResponse {
	return ScreeningResponse{
		Id:            screening.ID,
		MovieId:       screening.MovieID,
		HallNumber:    screening.HallNumber,
		ScreeningTime: screening.ScreeningTime,
		Title:         screening.MovieTitle,
		Category:      screening.MovieCategory,
		Description:   screening.MovieDescription,
	}
}
