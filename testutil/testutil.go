// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/dinner-pick/auth"
	"github.com/danielhkuo/dinner-pick/cliparse"
	"github.com/danielhkuo/dinner-pick/election"
	"github.com/danielhkuo/dinner-pick/models"
	"github.com/danielhkuo/dinner-pick/store"
)

// TestCodeword is the group codeword of elections made by CreateTestElection
const TestCodeword = "tacos"

// SetupTestStore opens a SQLite store in a temporary directory. It is
// closed when the test ends.
func SetupTestStore(t *testing.T) store.Repository {
	t.Helper()

	repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

// SetupTestManager returns a Manager over a fresh test store
func SetupTestManager(t *testing.T) *election.Manager {
	t.Helper()
	return election.NewManager(SetupTestStore(t), election.Config{})
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		Store:           string(store.BackendSQLite),
		AdminKeySalt:    "test-admin-salt",
		RetentionWindow: cliparse.DefaultRetentionWindow,
	}
}

// CreateTestElection creates an election and returns its ID and admin key.
// phase should be "nomination", "voting", "completed" or "cancelled".
func CreateTestElection(t *testing.T, mgr *election.Manager, cfg cliparse.Config, phase string) (electionID, adminKey string) {
	t.Helper()
	ctx := context.Background()

	e, err := mgr.CreateElection(ctx, models.NewElection{
		Name:          "Test Dinner",
		AdminName:     "TestAdmin",
		GroupCodeword: TestCodeword,
	})
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	switch phase {
	case models.StateVoting:
		_, err = mgr.StartVoting(ctx, e.ID)
	case models.StateCompleted:
		_, err = mgr.FinalizeElection(ctx, e.ID)
	case models.StateCancelled:
		_, err = mgr.CancelElection(ctx, e.ID)
	}
	if err != nil {
		t.Fatalf("Failed to move test election to %s: %v", phase, err)
	}

	return e.ID, auth.GenerateAdminKey(e.ID, cfg.AdminKeySalt)
}

// AddTestNomination nominates a restaurant and returns the nomination ID
func AddTestNomination(t *testing.T, mgr *election.Manager, electionID, nominator, restaurant string) string {
	t.Helper()

	n, err := mgr.AddNomination(context.Background(), electionID, models.Nomination{
		NominatorName:  nominator,
		RestaurantName: restaurant,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Failed to create test nomination: %v", err)
	}

	return n.ID
}

// SubmitTestVote records a ranked ballot
func SubmitTestVote(t *testing.T, mgr *election.Manager, electionID, voter string, rankings ...string) {
	t.Helper()

	_, err := mgr.AddVote(context.Background(), electionID, models.Vote{
		VoterName: voter,
		Rankings:  rankings,
	})
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// MemberHeaders returns the headers a group member sends
func MemberHeaders() map[string]string {
	return map[string]string{auth.CodewordHeader: TestCodeword}
}

// AdminHeaders returns the headers the admin sends
func AdminHeaders(adminKey string) map[string]string {
	return map[string]string{auth.AdminKeyHeader: adminKey}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
