package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/covematch/internal/testutil"
)

// TestMatchFlow walks a pair from intention to accepted match
func TestMatchFlow(t *testing.T) {
	app, _ := setupApp(t, nil)
	createIntention(t, app, "alice")
	createIntention(t, app, "bob")
	matchID := createMatch(t, app, aliceID, bobID)

	resp := do(t, app, "GET", "/api/matches", nil, "alice")
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var matches []map[string]interface{}
	testutil.ParseJSON(t, resp, &matches)
	if len(matches) != 1 || matches[0]["id"] != matchID {
		t.Fatalf("Expected one match %s, got %v", matchID, matches)
	}

	resp = do(t, app, "GET", "/api/matches/"+matchID, nil, "carol")
	expectError(t, resp, fiber.StatusForbidden, "match.forbidden")

	resp = do(t, app, "GET", "/api/matches/"+matchID, nil, "root")
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	resp = do(t, app, "POST", "/api/matches/"+matchID+"/accept", nil, "bob")
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var accepted struct {
		Ok       bool   `json:"ok"`
		MatchID  string `json:"matchId"`
		ThreadID string `json:"threadId"`
	}
	testutil.ParseJSON(t, resp, &accepted)
	if !accepted.Ok || accepted.MatchID != matchID || accepted.ThreadID == "" {
		t.Errorf("Unexpected accept response: %+v", accepted)
	}

	resp = do(t, app, "POST", "/api/matches/"+matchID+"/accept", nil, "alice")
	expectError(t, resp, fiber.StatusConflict, "match.alreadyHandled")

	resp = do(t, app, "GET", "/api/intentions/status", nil, "alice")
	var status map[string]interface{}
	testutil.ParseJSON(t, resp, &status)
	if status["hasIntention"] != false {
		t.Errorf("Expected matched intention to no longer be active, got %v", status)
	}

	resp = do(t, app, "POST", "/api/matches/"+matchID+"/feedback", map[string]interface{}{
		"matchedOn":   "bouldering, coffee",
		"wasAccurate": true,
	}, "alice")
	testutil.AssertStatus(t, resp, fiber.StatusCreated)
	var feedback struct {
		MatchedOn []string `json:"matchedOn"`
	}
	testutil.ParseJSON(t, resp, &feedback)
	if len(feedback.MatchedOn) != 2 {
		t.Errorf("Expected two matchedOn reasons, got %v", feedback.MatchedOn)
	}

	resp = do(t, app, "POST", "/api/matches/"+matchID+"/feedback", map[string]interface{}{"matchedOn": []string{}}, "alice")
	expectError(t, resp, fiber.StatusBadRequest, "feedback.invalid")
}

func TestDeclineMatch(t *testing.T) {
	app, _ := setupApp(t, nil)
	createIntention(t, app, "alice")
	createIntention(t, app, "bob")
	matchID := createMatch(t, app, aliceID, bobID)

	resp := do(t, app, "POST", "/api/matches/"+matchID+"/decline", nil, "carol")
	expectError(t, resp, fiber.StatusForbidden, "match.forbidden")

	resp = do(t, app, "POST", "/api/matches/"+matchID+"/decline", nil, "alice")
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	resp = do(t, app, "POST", "/api/matches/"+matchID+"/decline", nil, "bob")
	expectError(t, resp, fiber.StatusConflict, "match.alreadyHandled")

	resp = do(t, app, "POST", "/api/matches/missing/accept", nil, "bob")
	expectError(t, resp, fiber.StatusNotFound, "match.notFound")
}

func TestListMatchesEmpty(t *testing.T) {
	app, _ := setupApp(t, nil)

	resp := do(t, app, "GET", "/api/matches", nil, "carol")
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var matches []interface{}
	testutil.ParseJSON(t, resp, &matches)
	if matches == nil || len(matches) != 0 {
		t.Errorf("Expected an empty array, got %v", matches)
	}
}
