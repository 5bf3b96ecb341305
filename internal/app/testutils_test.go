package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kinotech/cinema-reservation-system/internal/domain"
	"github.com/kinotech/cinema-reservation-system/internal/mocks"
	"github.com/kinotech/cinema-reservation-system/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config: Config{
			JWT: JWTConfig{Secret: "test-secret", Expiry: time.Hour},
		},
		validator:       validator.NewValidator(),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		userRepo:        &mocks.MockUserRepo{},
		movieRepo:       &mocks.MockMovieRepo{},
		screeningRepo:   &mocks.MockScreeningRepo{},
		seatRepo:        &mocks.MockSeatRepo{},
		reservationRepo: &mocks.MockReservationRepo{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// withPrincipal attaches a verified identity the way the authentication
// middleware would, so handlers can be exercised directly.
func withPrincipal(r *http.Request, principal domain.Principal) *http.Request {
	ctx := context.WithValue(r.Context(), principalContextKey, principal)
	return r.WithContext(ctx)
}

// withIDParam plants the {id} route parameter that chi would extract from the
// URL pattern when the handler runs behind the router.
func withIDParam(r *http.Request, id int) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", strconv.Itoa(id))
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 || wantErrMessage == "" {
		return
	}

	var errorResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errorResp.Message != wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
	}
}

func checkValidationError(t *testing.T, w *httptest.ResponseRecorder, wantIssue string) {
	t.Helper()

	var resp ValidationErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode validation error response: %v", err)
	}

	for _, vErr := range resp.ValidationErrors {
		if vErr.Issue == wantIssue {
			return
		}
	}

	t.Errorf("Expected validation issue %q not found in response", wantIssue)
}
