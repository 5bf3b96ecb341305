package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"token":     {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore nondeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		switch v := m[k].(type) {
		case map[string]any:
			cleanMap(v)
		case []any:
			for _, item := range v {
				if nested, ok := item.(map[string]any); ok {
					cleanMap(nested)
				}
			}
		}
	}
}

// resetDatabase wipes all application tables and the cache so each scenario
// starts from a known state. Identities restart at 1, so seeded rows get
// predictable ids.
func resetDatabase(t testing.TB, app *TestApp) {
	t.Helper()

	_, err := app.DB.Exec(context.Background(),
		"TRUNCATE reservations, screenings, seats, movies, users RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	require.NoError(t, app.Redis.FlushAll(context.Background()).Err())
}

func (app *TestApp) do(t testing.TB, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := prepareRequest(method, path, reader, headers)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)

	return rec
}

// registerAndLogin provisions a user through the public auth endpoints and
// returns a bearer token for it.
func (app *TestApp) registerAndLogin(t testing.TB, login, password string) string {
	t.Helper()

	registerBody := fmt.Sprintf(`{"login": %q, "email": "%s@example.com", "password": %q}`, login, login, password)
	rec := app.do(t, http.MethodPost, "/auth/register", registerBody, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return app.login(t, login, password)
}

func (app *TestApp) login(t testing.TB, login, password string) string {
	t.Helper()

	loginBody := fmt.Sprintf(`{"login": %q, "password": %q}`, login, password)
	rec := app.do(t, http.MethodPost, "/auth/login", loginBody, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

// adminToken provisions a user, promotes it to admin directly in the
// database, and logs in again so the token carries the admin role.
func (app *TestApp) adminToken(t testing.TB, login, password string) string {
	t.Helper()

	app.registerAndLogin(t, login, password)

	_, err := app.DB.Exec(context.Background(), "UPDATE users SET role = 'ADMIN' WHERE login = $1", login)
	require.NoError(t, err)

	return app.login(t, login, password)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func insertMovie(t testing.TB, db *pgxpool.Pool, title string, duration int) int {
	t.Helper()

	var id int
	err := db.QueryRow(context.Background(),
		"INSERT INTO movies (title, duration, category, description) VALUES ($1, $2, 'Drama', 'Seeded movie') RETURNING id",
		title, duration).Scan(&id)
	require.NoError(t, err)

	return id
}

func insertSeats(t testing.TB, db *pgxpool.Pool, hallNumber, rows, seatsPerRow int) {
	t.Helper()

	for row := 1; row <= rows; row++ {
		for seat := 1; seat <= seatsPerRow; seat++ {
			_, err := db.Exec(context.Background(),
				"INSERT INTO seats (hall_number, row_number, seat_number) VALUES ($1, $2, $3)",
				hallNumber, row, seat)
			require.NoError(t, err)
		}
	}
}

// insertScreening writes directly to the screenings table, bypassing the
// scheduler. Needed for rows the API would reject, like past screenings.
func insertScreening(t testing.TB, db *pgxpool.Pool, movieID, hallNumber int, at time.Time) int {
	t.Helper()

	var id int
	err := db.QueryRow(context.Background(),
		"INSERT INTO screenings (movie_id, hall_number, screening_time) VALUES ($1, $2, $3) RETURNING id",
		movieID, hallNumber, at).Scan(&id)
	require.NoError(t, err)

	return id
}

func seatID(t testing.TB, db *pgxpool.Pool, hallNumber, row, seat int) int {
	t.Helper()

	var id int
	err := db.QueryRow(context.Background(),
		"SELECT id FROM seats WHERE hall_number = $1 AND row_number = $2 AND seat_number = $3",
		hallNumber, row, seat).Scan(&id)
	require.NoError(t, err)

	return id
}

func countRows(t testing.TB, db *pgxpool.Pool, query string, args ...any) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(), query, args...).Scan(&count)
	require.NoError(t, err)

	return count
}
