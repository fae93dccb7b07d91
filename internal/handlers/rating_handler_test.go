package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldiprst/flightreview_be/internal/models"
)

func f64(v float64) *float64 { return &v }

func TestSubmitRatingCreatesThenUpdates(t *testing.T) {
	env := setupTestEnv(t, false)
	airline := env.createAirline("Acme Air")
	flight := env.createFlight(airline.ID, "AA100", "JFK", "LAX", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	_, cookie := env.createUser("u1", "u1@mail.com", "password1", models.RoleUser)

	resp := env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
		FlightID:      flight.ID.String(),
		OverallRating: f64(4),
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	assert.EqualValues(t, 4, body["overallRating"])
	assert.EqualValues(t, 0, body["seatComfort"])
	assert.NotNil(t, body["flight"])

	// second submission for the same (user, flight) must update, not insert
	resp = env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
		FlightID:      flight.ID.String(),
		OverallRating: f64(5),
		SeatComfort:   f64(3),
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var count int64
	env.db.Model(&models.Rating{}).Where("flight_id = ?", flight.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var stored models.Rating
	require.NoError(t, env.db.First(&stored, "flight_id = ?", flight.ID).Error)
	assert.EqualValues(t, 5, stored.OverallRating)
	assert.EqualValues(t, 3, stored.SeatComfort)
	assert.EqualValues(t, 0, stored.CheckIn)
}

func TestSubmitRatingPartialFieldsRetained(t *testing.T) {
	env := setupTestEnv(t, false)
	airline := env.createAirline("Acme Air")
	flight := env.createFlight(airline.ID, "AA100", "JFK", "LAX", time.Now().UTC())
	_, cookie := env.createUser("u1", "u1@mail.com", "password1", models.RoleUser)

	resp := env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
		FlightID:      flight.ID.String(),
		CheckIn:       f64(4),
		CabinCrew:     f64(5),
		OverallRating: f64(4),
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// omitted fields keep their values; an explicit 0 overwrites
	resp = env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
		FlightID:      flight.ID.String(),
		CheckIn:       f64(0),
		OverallRating: f64(3),
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var stored models.Rating
	require.NoError(t, env.db.First(&stored, "flight_id = ?", flight.ID).Error)
	assert.EqualValues(t, 0, stored.CheckIn, "explicit zero must overwrite")
	assert.EqualValues(t, 5, stored.CabinCrew, "omitted field must keep stored value")
	assert.EqualValues(t, 3, stored.OverallRating)

	// an explicit zero overall rating is a valid submission, not a missing one
	resp = env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
		FlightID:      flight.ID.String(),
		OverallRating: f64(0),
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, env.db.First(&stored, "flight_id = ?", flight.ID).Error)
	assert.EqualValues(t, 0, stored.OverallRating)
	assert.EqualValues(t, 5, stored.CabinCrew)

	var count int64
	env.db.Model(&models.Rating{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSubmitRatingErrors(t *testing.T) {
	env := setupTestEnv(t, false)
	airline := env.createAirline("Acme Air")
	flight := env.createFlight(airline.ID, "AA100", "JFK", "LAX", time.Now().UTC())
	_, cookie := env.createUser("u1", "u1@mail.com", "password1", models.RoleUser)

	// no session
	resp := env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
		FlightID:      flight.ID.String(),
		OverallRating: f64(4),
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	assert.Contains(t, body, "error")

	// missing overall rating
	resp = env.request(http.MethodPost, "/api/ratings", map[string]any{
		"flightId": flight.ID.String(),
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// unknown flight
	resp = env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
		FlightID:      "b2f7c0de-0000-0000-0000-000000000000",
		OverallRating: f64(4),
	}, cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	var count int64
	env.db.Model(&models.Rating{}).Count(&count)
	assert.Zero(t, count)
}

func TestListRatingsFiltersAndUserSummary(t *testing.T) {
	env := setupTestEnv(t, false)
	airline := env.createAirline("Acme Air")
	f1 := env.createFlight(airline.ID, "AA100", "JFK", "LAX", time.Now().UTC())
	f2 := env.createFlight(airline.ID, "AA200", "SFO", "ORD", time.Now().UTC())
	u1, c1 := env.createUser("u1", "u1@mail.com", "password1", models.RoleUser)
	_, c2 := env.createUser("u2", "u2@mail.com", "password2", models.RoleUser)

	for _, sub := range []struct {
		cookie string
		flight string
	}{
		{c1, f1.ID.String()},
		{c1, f2.ID.String()},
		{c2, f1.ID.String()},
	} {
		resp := env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
			FlightID:      sub.flight,
			OverallRating: f64(4),
		}, sub.cookie)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := env.request(http.MethodGet, "/api/ratings?flightId="+f1.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]map[string]any](t, resp)
	assert.Len(t, list, 2)

	resp = env.request(http.MethodGet, "/api/ratings?flightId="+f1.ID.String()+"&userId="+u1.ID.String(), nil, "")
	list = decodeBody[[]map[string]any](t, resp)
	require.Len(t, list, 1)

	user, ok := list[0]["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u1@mail.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "role")

	flight, ok := list[0]["flight"].(map[string]any)
	require.True(t, ok)
	assert.NotNil(t, flight["airline"])
}

func TestAverageRatings(t *testing.T) {
	assert.Equal(t, RatingAverages{}, averageRatings(nil), "no ratings averages to zero")

	rs := []models.Rating{
		{CheckIn: 1, SeatComfort: 2, OverallRating: 3},
		{CheckIn: 4, SeatComfort: 0, OverallRating: 5},
		{CheckIn: 1, SeatComfort: 4, OverallRating: 1},
	}
	avg := averageRatings(rs)
	assert.InDelta(t, 2.0, avg.CheckIn, 1e-9)
	assert.InDelta(t, 2.0, avg.SeatComfort, 1e-9)
	assert.InDelta(t, 3.0, avg.OverallRating, 1e-9)
	assert.InDelta(t, 0.0, avg.FoodQuality, 1e-9)
}

// The end-to-end scenario: airline -> flight -> rate -> list -> re-rate -> list.
func TestRatingEndToEnd(t *testing.T) {
	env := setupTestEnv(t, false)
	_, cookie := env.createUser("u1", "u1@mail.com", "password1", models.RoleUser)

	resp := env.request(http.MethodPost, "/api/airlines", AirlineReq{Name: "Acme Air"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	airline := decodeBody[models.Airline](t, resp)

	dep := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	arr := time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)
	resp = env.request(http.MethodPost, "/api/flights", FlightReq{
		FlightNumber:  "AA100",
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureTime: &dep,
		ArrivalTime:   &arr,
		AirlineID:     airline.ID.String(),
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	flight := decodeBody[models.Flight](t, resp)

	resp = env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
		FlightID:      flight.ID.String(),
		OverallRating: f64(4),
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(http.MethodGet, "/api/ratings?flightId="+flight.ID.String(), nil, "")
	list := decodeBody[[]map[string]any](t, resp)
	require.Len(t, list, 1)
	assert.EqualValues(t, 4, list[0]["overallRating"])
	assert.EqualValues(t, 0, list[0]["checkIn"])
	assert.EqualValues(t, 0, list[0]["seatComfort"])

	resp = env.request(http.MethodPost, "/api/ratings", RatingSubmitReq{
		FlightID:      flight.ID.String(),
		OverallRating: f64(5),
		SeatComfort:   f64(3),
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(http.MethodGet, "/api/ratings?flightId="+flight.ID.String(), nil, "")
	list = decodeBody[[]map[string]any](t, resp)
	require.Len(t, list, 1)
	assert.EqualValues(t, 5, list[0]["overallRating"])
	assert.EqualValues(t, 3, list[0]["seatComfort"])
	assert.EqualValues(t, 0, list[0]["checkIn"])
}
