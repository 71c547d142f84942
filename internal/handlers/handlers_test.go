package handlers_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/covematch/internal/handlers"
	"github.com/localnerve/covematch/internal/middleware"
	"github.com/localnerve/covematch/internal/services"
	"github.com/localnerve/covematch/internal/testutil"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	aliceID = "a11ce000-0000-4000-8000-000000000001"
	bobID   = "b0b00000-0000-4000-8000-000000000002"
	carolID = "ca201000-0000-4000-8000-000000000003"
	rootID  = "2007a000-0000-4000-8000-000000000004"
)

// fakeSessions maps cookie values to sessions
type fakeSessions map[string]*services.Session

func (f fakeSessions) ValidateSession(cookie string, roles []string) (*services.Session, error) {
	session, ok := f[cookie]
	if !ok {
		return nil, services.ErrInvalidSession
	}
	for _, role := range roles {
		if !session.HasRole(role) {
			return nil, services.ErrInvalidSession
		}
	}
	return session, nil
}

var sessions = fakeSessions{
	"alice": {UserID: aliceID, Email: "alice@example.com", Roles: []string{"user"}},
	"bob":   {UserID: bobID, Roles: []string{"user"}},
	"carol": {UserID: carolID, Roles: []string{"user"}},
	"root":  {UserID: rootID, Roles: []string{"user", "admin"}},
}

// setupApp builds the full API over an in-memory database
func setupApp(t *testing.T, limiter *middleware.RateLimiter) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	handlers.Routes{
		Lifecycle: services.NewLifecycle(db, services.WithLogger(log)),
		Sessions:  sessions,
		Limiter:   limiter,
	}.Register(app)
	app.Use(handlers.NotFound)

	return app, db
}

func do(t *testing.T, app *fiber.App, method, target string, body interface{}, session string) *http.Response {
	t.Helper()
	resp, err := app.Test(testutil.JSONRequest(t, method, target, body, session), -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	return resp
}

func expectError(t *testing.T, resp *http.Response, status int, errorType string) {
	t.Helper()
	testutil.AssertStatus(t, resp, status)

	var result map[string]interface{}
	testutil.ParseJSON(t, resp, &result)
	if result["type"] != errorType {
		t.Errorf("Expected error type %q, got %v", errorType, result["type"])
	}
	if result["ok"] != false {
		t.Errorf("Expected ok=false in error envelope, got %v", result["ok"])
	}
}

var intentionBody = map[string]interface{}{
	"intentionText": "Bouldering this weekend",
	"activities":    "bouldering, coffee",
	"availability":  []string{"saturday"},
	"location":      "Oakland",
}

func createIntention(t *testing.T, app *fiber.App, session string) string {
	t.Helper()
	resp := do(t, app, "POST", "/api/intentions", intentionBody, session)
	testutil.AssertStatus(t, resp, fiber.StatusCreated)

	var result struct {
		Intention struct {
			ID string `json:"id"`
		} `json:"intention"`
	}
	testutil.ParseJSON(t, resp, &result)
	return result.Intention.ID
}

func createMatch(t *testing.T, app *fiber.App, userIDs ...string) string {
	t.Helper()
	resp := do(t, app, "POST", "/api/admin/matches", map[string]interface{}{"userIds": userIDs, "tierUsed": "1"}, "root")
	testutil.AssertStatus(t, resp, fiber.StatusCreated)

	var match struct {
		ID       string `json:"id"`
		TierUsed int    `json:"tierUsed"`
	}
	testutil.ParseJSON(t, resp, &match)
	if match.TierUsed != 1 {
		t.Errorf("Expected tierUsed 1, got %d", match.TierUsed)
	}
	return match.ID
}
