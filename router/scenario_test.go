// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/formpoint/models"
	"github.com/danielhkuo/formpoint/router"
	"github.com/danielhkuo/formpoint/sweeper"
	"github.com/danielhkuo/formpoint/testutil"
)

// Full lifecycle: a creator drafts and publishes a form, a responder
// finds it among active forms, submits, earns a point, and the creator
// reads the aggregated statistics.
func TestFormLifecycleScenario(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "password123", models.RoleUser)
	responder := testutil.CreateTestUser(t, conn, "responder@example.com", "password123", models.RoleUser)
	creatorToken := testutil.IssueTestToken(t, creator)
	responderToken := testutil.IssueTestToken(t, responder)

	// Draft
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/forms/create", models.CreateFormRequest{
		Title:       "Team Survey",
		Description: "Quarterly check-in",
		Questions:   []models.Question{{Label: "Happy?", Type: "radio"}},
		ExpiryDate:  testutil.Tomorrow(),
	}, testutil.AuthHeader(creatorToken)))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.CreateFormResponse
	testutil.AssertJSON(t, w, &created)

	// Drafts are invisible to others
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/forms/active", nil, testutil.AuthHeader(responderToken)))
	testutil.AssertStatus(t, w, http.StatusOK)
	var active []models.Form
	testutil.AssertJSON(t, w, &active)
	if len(active) != 0 {
		t.Fatalf("Expected no active forms before publish, got %d", len(active))
	}

	// Publish
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("PUT", "/api/forms/publish",
		models.PublishFormRequest{FormID: created.FormID}, testutil.AuthHeader(creatorToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Now the responder sees it, the creator does not
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/forms/active", nil, testutil.AuthHeader(responderToken)))
	testutil.AssertJSON(t, w, &active)
	if len(active) != 1 || active[0].ID != created.FormID {
		t.Fatalf("Expected the published form in active list, got %v", active)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/forms/active", nil, testutil.AuthHeader(creatorToken)))
	testutil.AssertJSON(t, w, &active)
	if len(active) != 0 {
		t.Fatalf("Expected owner's active list to exclude own form, got %d", len(active))
	}

	// Owner self-submit is rejected without state change
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/forms/submit",
		models.SubmitResponseRequest{FormID: created.FormID, Answers: []string{"Yes"}},
		testutil.AuthHeader(creatorToken)))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Responder submits and earns a point
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/forms/submit",
		models.SubmitResponseRequest{FormID: created.FormID, Answers: []string{"Yes"}},
		testutil.AuthHeader(responderToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var point int
	if err := conn.QueryRow(`SELECT point FROM users WHERE email = $1`, responder.Email).Scan(&point); err != nil {
		t.Fatalf("Failed to read points: %v", err)
	}
	if point != 1 {
		t.Errorf("Expected 1 point after submit, got %d", point)
	}

	// Creator reads the statistics
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET",
		fmt.Sprintf("/api/forms/statistics/%d", created.FormID), nil, testutil.AuthHeader(creatorToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var stats map[string]map[string]string
	testutil.AssertJSON(t, w, &stats)
	if got := stats["Happy?"]["Yes"]; got != "100.00%" {
		t.Errorf(`Expected "100.00%%", got %q`, got)
	}
}

// An expired published form is demoted by the sweep and shows up in
// the owner's drafts instead of anyone's active list.
func TestExpiredFormSweepScenario(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	owner := testutil.CreateTestUser(t, conn, "owner@example.com", "password123", models.RoleUser)
	viewer := testutil.CreateTestUser(t, conn, "viewer@example.com", "password123", models.RoleUser)
	ownerToken := testutil.IssueTestToken(t, owner)
	viewerToken := testutil.IssueTestToken(t, viewer)

	formID := testutil.CreateTestForm(t, conn, owner, true, testutil.Yesterday())

	// Even before the sweep, the read-time filter hides it
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/forms/active", nil, testutil.AuthHeader(viewerToken)))
	testutil.AssertStatus(t, w, http.StatusOK)
	var active []models.Form
	testutil.AssertJSON(t, w, &active)
	if len(active) != 0 {
		t.Fatalf("Expected expired form hidden from active list, got %d", len(active))
	}

	if _, err := sweeper.SweepOnce(conn); err != nil {
		t.Fatalf("SweepOnce failed: %v", err)
	}

	// After the sweep it is an owner draft again
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/forms/my-drafts", nil, testutil.AuthHeader(ownerToken)))
	testutil.AssertStatus(t, w, http.StatusOK)
	var drafts []models.Form
	testutil.AssertJSON(t, w, &drafts)
	if len(drafts) != 1 || drafts[0].ID != formID {
		t.Fatalf("Expected the swept form among drafts, got %v", drafts)
	}
}
