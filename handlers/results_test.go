// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/dinner-pick/models"
	"github.com/danielhkuo/dinner-pick/testutil"
)

func TestGetElection(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(mgr)

	electionID, _ := testutil.CreateTestElection(t, mgr, cfg, models.StateNomination)
	testutil.AddTestNomination(t, mgr, electionID, "Bob", "Pho Place")

	w := httptest.NewRecorder()
	handler.GetElection(w, memberRequest("GET", "/elections/"+electionID, electionID, testutil.TestCodeword, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if strings.Contains(w.Body.String(), testutil.TestCodeword) {
		t.Error("Response must not include the group codeword")
	}

	var resp models.ElectionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ID != electionID || resp.Phase != models.StateNomination {
		t.Errorf("Unexpected election: id=%s phase=%s", resp.ID, resp.Phase)
	}
	if len(resp.Nominations) != 1 || resp.Nominations[0].RestaurantName != "Pho Place" {
		t.Errorf("Expected one nomination, got %+v", resp.Nominations)
	}
	if resp.Winner != nil {
		t.Error("Expected no winner before finalize")
	}
}

func TestGetElection_Errors(t *testing.T) {
	mgr := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(mgr)

	electionID, _ := testutil.CreateTestElection(t, mgr, cfg, models.StateNomination)

	tests := []struct {
		name           string
		electionID     string
		codeword       string
		expectedStatus int
	}{
		{"wrong codeword", electionID, "nachos", http.StatusUnauthorized},
		{"unknown election", "does-not-exist", testutil.TestCodeword, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.GetElection(w, memberRequest("GET", "/elections/"+tt.electionID, tt.electionID, tt.codeword, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestGetElection_BallotVisibility(t *testing.T) {
	tests := []struct {
		name        string
		visibility  string
		finalize    bool
		expectVotes bool
	}{
		{"secret completed", models.VisibilitySecret, true, false},
		{"open completed", models.VisibilityOpen, true, true},
		{"open still voting", models.VisibilityOpen, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := testutil.SetupTestManager(t)
			handler := NewResultsHandler(mgr)
			ctx := context.Background()

			e, err := mgr.CreateElection(ctx, models.NewElection{
				Name:             "Visibility",
				AdminName:        "Alice",
				GroupCodeword:    testutil.TestCodeword,
				BallotVisibility: tt.visibility,
			})
			if err != nil {
				t.Fatal(err)
			}
			nom := testutil.AddTestNomination(t, mgr, e.ID, "Bob", "Pho Place")
			mgr.StartVoting(ctx, e.ID)
			testutil.SubmitTestVote(t, mgr, e.ID, "Alice", nom)
			if tt.finalize {
				mgr.FinalizeElection(ctx, e.ID)
			}

			w := httptest.NewRecorder()
			handler.GetElection(w, memberRequest("GET", "/elections/"+e.ID, e.ID, testutil.TestCodeword, nil))
			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.ElectionResponse
			testutil.AssertJSON(t, w, &resp)
			if (len(resp.Votes) > 0) != tt.expectVotes {
				t.Errorf("Votes shown = %v, want %v", len(resp.Votes) > 0, tt.expectVotes)
			}
			if len(resp.Voters) != 1 || resp.Voters[0] != "Alice" {
				t.Errorf("Expected voter list [Alice], got %v", resp.Voters)
			}
		})
	}
}
