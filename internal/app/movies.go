package app

import (
	"errors"
	"net/http"

	"github.com/kinotech/cinema-reservation-system/internal/domain"
)

type MovieResponse struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type MovieListResponse struct {
	Movies []MovieResponse `json:"movies"`
}

type movieRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Duration    int    `json:"duration" validate:"required,gt=0"`
	Category    string `json:"category" validate:"required,max=50"`
	Description string `json:"description" validate:"required,max=250"`
}

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := app.movieRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := MovieListResponse{Movies: toMovieResponses(movies)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input movieRequest

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

	movie := domain.Movie{
		Title:       input.Title,
		Duration:    input.Duration,
		Category:    input.Category,
		Description: input.Description,
	}

	err = app.movieRepo.Create(r.Context(), &movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input movieRequest

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

	movie, err := app.movieRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// The duration is the one attribute screenings depend on for their
	// overlap windows, so it is locked while any future screening still
	// references this movie. Other fields stay freely editable.
	if movie.Duration != input.Duration {
		locked, err := app.movieRepo.HasFutureScreenings(r.Context(), id)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		if locked {
			app.errorResponse(w, r, http.StatusBadRequest,
				"The movie is referenced by upcoming screenings, its duration cannot be changed")
			return
		}
	}

	movie.Title = input.Title
	movie.Duration = input.Duration
	movie.Category = input.Category
	movie.Description = input.Description

	err = app.movieRepo.Update(r.Context(), movie)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, MessageResponse{Message: "Movie updated"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.movieRepo.Delete(r.Context(), id)
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

func toMovieResponses(movies []domain.Movie) []MovieResponse {
	responses := make([]MovieResponse, len(movies))

	for i, movie := range movies {
		responses[i] = toMovieResponse(movie)
	}

	return responses
}

func toMovieResponse(movie domain.Movie) MovieResponse {
	return MovieResponse{
		Id:          movie.ID,
		Title:       movie.Title,
		Duration:    movie.Duration,
		Category:    movie.Category,
		Description: movie.Description,
	}
}
