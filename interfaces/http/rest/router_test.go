package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trevelo-backend/application/services"
	"trevelo-backend/domain/entities"
	"trevelo-backend/infrastructure/config"
	"trevelo-backend/infrastructure/messaging/eventbridge"
	"trevelo-backend/infrastructure/persistence/memory"
	"trevelo-backend/infrastructure/persistence/repository"
	"trevelo-backend/interfaces/http/rest"
	"trevelo-backend/pkg/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type stubGenerator struct {
	plan *entities.TripPlan
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (*entities.TripPlan, error) {
	return g.plan, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithLimit(t, 100)
}

func newTestServerWithLimit(t *testing.T, rateLimit int) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Environment:       "test",
		IndexName:         "GSIInvite",
		JWTSecret:         testSecret,
		JWTIssuer:         "trevelo-backend",
		RateLimitRequests: rateLimit,
		RateLimitWindow:   time.Minute,
	}

	logger := zap.NewNop()
	store := memory.NewStore()
	events := eventbridge.NewNoopPublisher()

	jobs := repository.NewJobRepository(store, cfg.IndexName, logger)
	groups := repository.NewGroupRepository(store, cfg.IndexName, logger)
	trips := repository.NewTripRepository(store, logger)
	votes := repository.NewVoteRepository(store, logger)
	users := repository.NewUserRepository(store, logger)

	generator := &stubGenerator{plan: &entities.TripPlan{Mode: entities.PlanModeTrip, TripTitle: "Lisbon"}}

	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	require.NoError(t, err)

	router := rest.NewRouter(
		cfg,
		services.NewItineraryService(jobs, generator, events, logger),
		services.NewGroupService(groups, events, logger),
		services.NewTripService(trips, logger),
		services.NewVoteService(votes, events, logger),
		services.NewUserService(users, logger),
		validator,
		logger,
	)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)
	return server
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "trevelo-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// decodeBody unwraps the response envelope and decodes its data payload
func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStartItineraryAnonymously(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/itineraries/start", "",
		map[string]string{"prompt": "three days in Lisbon"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var started struct {
		JobID string `json:"jobId"`
	}
	decodeBody(t, resp, &started)
	require.NotEmpty(t, started.JobID)

	assert.Eventually(t, func() bool {
		resp, err := http.Get(server.URL + "/api/v1/jobs/" + started.JobID)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var envelope struct {
			Data entities.Job `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return false
		}
		return envelope.Data.Status == entities.JobStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartItineraryRejectsEmptyPrompt(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/itineraries/start", "",
		map[string]string{"prompt": "  "})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPollingOutlivesGenerationBudget(t *testing.T) {
	server := newTestServerWithLimit(t, 2)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/itineraries/start", "",
		map[string]string{"prompt": "three days in Lisbon"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var started struct {
		JobID string `json:"jobId"`
	}
	decodeBody(t, resp, &started)

	// a poll loop runs far past the generation budget without a rejection
	for i := 0; i < 20; i++ {
		resp, err := http.Get(server.URL + "/api/v1/jobs/" + started.JobID)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// while the generation endpoint itself stays limited
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/itineraries/start", "",
		map[string]string{"prompt": "another trip"})
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/itineraries/start", "",
		map[string]string{"prompt": "one trip too many"})
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestPollUnknownJob(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/jobs/no-such-job")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGroupsRequireAuthentication(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/groups", "",
		map[string]string{"name": "Summer Trip Crew"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGroupLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)
	owner := bearerToken(t, "owner-1")
	friend := bearerToken(t, "friend-1")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/groups", owner,
		map[string]string{"name": "Summer Trip Crew"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var group entities.Group
	decodeBody(t, resp, &group)
	require.NotEmpty(t, group.GroupID)
	require.NotEmpty(t, group.InviteCode)

	// a non-member is turned away before any group handler runs
	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/groups/"+group.GroupID, friend, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/groups/join", friend,
		map[string]string{"inviteCode": group.InviteCode})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var membership entities.Membership
	decodeBody(t, resp, &membership)
	assert.Equal(t, group.GroupID, membership.GroupID)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/groups/"+group.GroupID+"/trips", friend,
		map[string]interface{}{"prompt": "long weekend in Porto"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var shared entities.GroupTrip
	decodeBody(t, resp, &shared)
	require.NotEmpty(t, shared.TripID)

	// the itinerary is generated server-side from the prompt
	require.NotNil(t, shared.Itinerary)
	assert.Equal(t, "Lisbon", shared.Itinerary.TripTitle)

	resp = doJSON(t, http.MethodPost,
		server.URL+"/api/v1/groups/"+group.GroupID+"/trips/"+shared.TripID+"/votes", owner,
		map[string]int{"value": 1})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet,
		server.URL+"/api/v1/groups/"+group.GroupID+"/trips/"+shared.TripID+"/votes", friend, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tally entities.Tally
	decodeBody(t, resp, &tally)
	assert.Equal(t, 1, tally.Count)
	assert.Equal(t, 1, tally.Total)
}

func TestShareTripRequiresPrompt(t *testing.T) {
	server := newTestServer(t)
	owner := bearerToken(t, "owner-1")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/groups", owner,
		map[string]string{"name": "Summer Trip Crew"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var group entities.Group
	decodeBody(t, resp, &group)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/groups/"+group.GroupID+"/trips", owner,
		map[string]string{"prompt": "  "})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/groups/"+group.GroupID+"/trips", owner, nil)
	var trips []entities.GroupTrip
	decodeBody(t, resp, &trips)
	assert.Empty(t, trips)
}

func TestCastVoteDefaultsToUpvote(t *testing.T) {
	server := newTestServer(t)
	owner := bearerToken(t, "owner-1")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/groups", owner,
		map[string]string{"name": "Summer Trip Crew"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var group entities.Group
	decodeBody(t, resp, &group)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/groups/"+group.GroupID+"/trips", owner,
		map[string]string{"prompt": "long weekend in Porto"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var shared entities.GroupTrip
	decodeBody(t, resp, &shared)

	voteURL := server.URL + "/api/v1/groups/" + group.GroupID + "/trips/" + shared.TripID + "/votes"

	// an absent value is an upvote
	resp = doJSON(t, http.MethodPost, voteURL, owner, map[string]interface{}{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var vote entities.Vote
	decodeBody(t, resp, &vote)
	assert.Equal(t, 1, vote.Value)

	// an explicit zero is kept as sent
	resp = doJSON(t, http.MethodPost, voteURL, owner, map[string]int{"value": 0})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	decodeBody(t, resp, &vote)
	assert.Equal(t, 0, vote.Value)
}

func TestTripCRUDOverHTTP(t *testing.T) {
	server := newTestServer(t)
	token := bearerToken(t, "user-1")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/trips", token,
		map[string]string{"title": "Andalusia", "prompt": "a week in southern Spain"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var trip entities.Trip
	decodeBody(t, resp, &trip)
	require.NotEmpty(t, trip.TripID)

	resp = doJSON(t, http.MethodPatch, server.URL+"/api/v1/trips/"+trip.TripID, token,
		map[string]string{"title": "Andalusia 2026"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated entities.Trip
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Andalusia 2026", updated.Title)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/v1/trips/"+trip.TripID, token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/trips/"+trip.TripID, token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProfileOverHTTP(t *testing.T) {
	server := newTestServer(t)
	token := bearerToken(t, "user-1")

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/users/me", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, server.URL+"/api/v1/users/me", token,
		map[string]string{"displayName": "Alex"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile entities.UserProfile
	decodeBody(t, resp, &profile)
	assert.Equal(t, "Alex", profile.DisplayName)
}
