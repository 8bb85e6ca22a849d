// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/dinner-pick/auth"
	"github.com/danielhkuo/dinner-pick/election"
	"github.com/danielhkuo/dinner-pick/models"
	"github.com/danielhkuo/dinner-pick/testutil"
)

func TestCreateElection(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid election",
			body:           models.CreateElectionRequest{Name: "Friday dinner", AdminName: "Alice", GroupCodeword: "tacos"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "open ballots",
			body:           models.CreateElectionRequest{Name: "Lunch", AdminName: "Alice", GroupCodeword: "tacos", BallotVisibility: "OPEN"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			body:           models.CreateElectionRequest{AdminName: "Alice", GroupCodeword: "tacos"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank admin name",
			body:           models.CreateElectionRequest{Name: "Lunch", AdminName: "   ", GroupCodeword: "tacos"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing codeword",
			body:           models.CreateElectionRequest{Name: "Lunch", AdminName: "Alice"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "name too long",
			body:           models.CreateElectionRequest{Name: strings.Repeat("x", MaxNameLength+1), AdminName: "Alice", GroupCodeword: "tacos"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad visibility",
			body:           models.CreateElectionRequest{Name: "Lunch", AdminName: "Alice", GroupCodeword: "tacos", BallotVisibility: "public"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CreateElection(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var resp models.CreateElectionResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.ElectionID == "" || resp.AdminKey == "" {
				t.Fatal("Expected election_id and admin_key in response")
			}
			if err := auth.ValidateAdminKey(resp.ElectionID, resp.AdminKey, cfg.AdminKeySalt); err != nil {
				t.Errorf("Returned admin key does not validate: %v", err)
			}

			e, err := mgr.GetElection(context.Background(), resp.ElectionID)
			if err != nil {
				t.Fatalf("Created election not stored: %v", err)
			}
			if e.State != models.StateNomination {
				t.Errorf("Expected nomination state, got %s", e.State)
			}
		})
	}
}

func TestCreateElection_TrimsInput(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	handler := NewElectionHandler(mgr, testutil.GetTestConfig())

	body := models.CreateElectionRequest{Name: "  Friday dinner ", AdminName: " Alice", GroupCodeword: " tacos "}
	w := httptest.NewRecorder()
	handler.CreateElection(w, testutil.MakeRequest("POST", "/elections", body, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateElectionResponse
	testutil.AssertJSON(t, w, &resp)

	e, _ := mgr.GetElection(context.Background(), resp.ElectionID)
	if e.Name != "Friday dinner" || e.AdminName != "Alice" || e.GroupCodeword != "tacos" {
		t.Errorf("Expected trimmed fields, got %q %q %q", e.Name, e.AdminName, e.GroupCodeword)
	}
	if e.BallotVisibility != models.VisibilitySecret {
		t.Errorf("Expected secret visibility by default, got %s", e.BallotVisibility)
	}
}

func TestListElections(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	first, _ := testutil.CreateTestElection(t, mgr, cfg, models.StateNomination)
	second, _ := testutil.CreateTestElection(t, mgr, cfg, models.StateVoting)

	w := httptest.NewRecorder()
	handler.ListElections(w, testutil.MakeRequest("GET", "/elections", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if strings.Contains(w.Body.String(), testutil.TestCodeword) {
		t.Error("Listing must not expose group codewords")
	}

	var resp models.ListElectionsResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Elections) != 2 {
		t.Fatalf("Expected 2 elections, got %d", len(resp.Elections))
	}
	phases := map[string]string{}
	for _, s := range resp.Elections {
		phases[s.ID] = s.Phase
	}
	if phases[first] != models.StateNomination || phases[second] != models.StateVoting {
		t.Errorf("Unexpected phases: %v", phases)
	}
}

func TestListElections_Empty(t *testing.T) {
	handler := NewElectionHandler(testutil.SetupTestManager(t), testutil.GetTestConfig())

	w := httptest.NewRecorder()
	handler.ListElections(w, testutil.MakeRequest("GET", "/elections", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if body := strings.TrimSpace(w.Body.String()); body != `{"elections":[]}` {
		t.Errorf("Expected empty list, got %s", body)
	}
}

// adminRequest runs one admin action against the handler
func adminRequest(h *ElectionHandler, action func(*ElectionHandler, http.ResponseWriter, *http.Request), method, path, electionID, adminKey string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, nil, testutil.AdminHeaders(adminKey))
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()
	action(h, w, req)
	return w
}

func TestAdminActions_RequireAdminKey(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	electionID, _ := testutil.CreateTestElection(t, mgr, cfg, models.StateNomination)

	actions := []struct {
		name   string
		method string
		action func(*ElectionHandler, http.ResponseWriter, *http.Request)
	}{
		{"start", "POST", (*ElectionHandler).StartVoting},
		{"finalize", "POST", (*ElectionHandler).FinalizeElection},
		{"cancel", "POST", (*ElectionHandler).CancelElection},
		{"delete", "DELETE", (*ElectionHandler).DeleteElection},
	}

	for _, a := range actions {
		t.Run(a.name, func(t *testing.T) {
			w := adminRequest(handler, a.action, a.method, "/elections/"+electionID, electionID, "wrong-key")
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}

	e, err := mgr.GetElection(context.Background(), electionID)
	if err != nil {
		t.Fatalf("Election should be untouched: %v", err)
	}
	if e.State != models.StateNomination || e.VoteStartTime != nil {
		t.Errorf("Rejected admin actions changed the election: %+v", e)
	}
}

func TestStartVoting(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	electionID, adminKey := testutil.CreateTestElection(t, mgr, cfg, models.StateNomination)

	w := adminRequest(handler, (*ElectionHandler).StartVoting, "POST", "/elections/"+electionID+"/start", electionID, adminKey)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ElectionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Phase != models.StateVoting {
		t.Errorf("Expected voting phase, got %s", resp.Phase)
	}
	if resp.VoteStartTime == nil {
		t.Error("Expected vote_start_time to be set")
	}
}

func TestStartVoting_ClosedElection(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	electionID, adminKey := testutil.CreateTestElection(t, mgr, cfg, models.StateCancelled)

	w := adminRequest(handler, (*ElectionHandler).StartVoting, "POST", "/elections/"+electionID+"/start", electionID, adminKey)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestFinalizeElection(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	electionID, adminKey := testutil.CreateTestElection(t, mgr, cfg, models.StateNomination)
	pho := testutil.AddTestNomination(t, mgr, electionID, "Bob", "Pho Place")
	tacos := testutil.AddTestNomination(t, mgr, electionID, "Carol", "Taqueria")
	mgr.StartVoting(context.Background(), electionID)

	testutil.SubmitTestVote(t, mgr, electionID, "Alice", tacos, pho)
	testutil.SubmitTestVote(t, mgr, electionID, "Bob", pho, tacos)
	testutil.SubmitTestVote(t, mgr, electionID, "Carol", tacos)

	w := adminRequest(handler, (*ElectionHandler).FinalizeElection, "POST", "/elections/"+electionID+"/finalize", electionID, adminKey)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ElectionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.State != models.StateCompleted {
		t.Errorf("Expected completed, got %s", resp.State)
	}
	if resp.Winner == nil || *resp.Winner != tacos {
		t.Fatalf("Expected %s to win, got %v", tacos, resp.Winner)
	}
	if resp.WinnerMethod != models.MethodCondorcet {
		t.Errorf("Expected Condorcet, got %s", resp.WinnerMethod)
	}
	if resp.Votes != nil {
		t.Error("Secret ballots must not be returned")
	}
}

func TestFinalizeElection_Cancelled(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	electionID, adminKey := testutil.CreateTestElection(t, mgr, cfg, models.StateCancelled)

	w := adminRequest(handler, (*ElectionHandler).FinalizeElection, "POST", "/elections/"+electionID+"/finalize", electionID, adminKey)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestCancelElection(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	electionID, adminKey := testutil.CreateTestElection(t, mgr, cfg, models.StateVoting)
	nom := testutil.AddTestNomination(t, mgr, electionID, "Bob", "Pho Place")
	testutil.SubmitTestVote(t, mgr, electionID, "Alice", nom)
	mgr.FinalizeElection(context.Background(), electionID)

	w := adminRequest(handler, (*ElectionHandler).CancelElection, "POST", "/elections/"+electionID+"/cancel", electionID, adminKey)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ElectionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.State != models.StateCancelled {
		t.Errorf("Expected cancelled, got %s", resp.State)
	}
	if resp.Winner != nil || resp.WinnerMethod != "" {
		t.Error("Expected result cleared by cancel")
	}
}

func TestDeleteElection(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	electionID, adminKey := testutil.CreateTestElection(t, mgr, cfg, models.StateNomination)

	w := adminRequest(handler, (*ElectionHandler).DeleteElection, "DELETE", "/elections/"+electionID, electionID, adminKey)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	if _, err := mgr.GetElection(context.Background(), electionID); !errors.Is(err, election.ErrElectionNotFound) {
		t.Errorf("Expected election gone, got %v", err)
	}
}

func TestAdminActions_UnknownElection(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(mgr, cfg)

	// A valid key for an ID that was never created
	adminKey := auth.GenerateAdminKey("missing", cfg.AdminKeySalt)

	w := adminRequest(handler, (*ElectionHandler).FinalizeElection, "POST", "/elections/missing/finalize", "missing", adminKey)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
