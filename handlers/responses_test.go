// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/formpoint/models"
	"github.com/danielhkuo/formpoint/points"
	"github.com/danielhkuo/formpoint/testutil"
)

func TestSubmitResponse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResponseHandler(db, testutil.GetTestConfig())
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "password123", models.RoleUser)
	responder := testutil.CreateTestUser(t, db, "responder@example.com", "password123", models.RoleUser)

	formID := testutil.CreateTestForm(t, db, owner, true, testutil.Tomorrow())

	w := httptest.NewRecorder()
	handler.Submit(w, authedRequest("POST", "/api/forms/submit",
		models.SubmitResponseRequest{FormID: formID, Answers: []string{"Yes", "Blue"}}, responder))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Response stored and one point credited, atomically
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM form_responses WHERE form_id = $1 AND user_email = $2`,
		formID, responder.Email).Scan(&count); err != nil {
		t.Fatalf("Failed to count responses: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 response, got %d", count)
	}

	balance, err := points.Balance(db, responder.Email)
	if err != nil {
		t.Fatalf("Failed to read balance: %v", err)
	}
	if balance != 1 {
		t.Errorf("Expected 1 point after submit, got %d", balance)
	}

	// A second submission to the same form is allowed and credited again
	w = httptest.NewRecorder()
	handler.Submit(w, authedRequest("POST", "/api/forms/submit",
		models.SubmitResponseRequest{FormID: formID, Answers: []string{"No", "Red"}}, responder))
	testutil.AssertStatus(t, w, http.StatusOK)

	balance, err = points.Balance(db, responder.Email)
	if err != nil {
		t.Fatalf("Failed to read balance: %v", err)
	}
	if balance != 2 {
		t.Errorf("Expected 2 points after second submit, got %d", balance)
	}
}

func TestSubmitOwnFormForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResponseHandler(db, testutil.GetTestConfig())
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "password123", models.RoleUser)

	formID := testutil.CreateTestForm(t, db, owner, true, testutil.Tomorrow())

	w := httptest.NewRecorder()
	handler.Submit(w, authedRequest("POST", "/api/forms/submit",
		models.SubmitResponseRequest{FormID: formID, Answers: []string{"Yes", "Blue"}}, owner))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Rejection leaves no trace: no response, no credit
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM form_responses WHERE form_id = $1`, formID).Scan(&count); err != nil {
		t.Fatalf("Failed to count responses: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no responses, got %d", count)
	}

	balance, err := points.Balance(db, owner.Email)
	if err != nil {
		t.Fatalf("Failed to read balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("Expected 0 points, got %d", balance)
	}
}

func TestSubmitNonexistentForm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResponseHandler(db, testutil.GetTestConfig())
	responder := testutil.CreateTestUser(t, db, "responder@example.com", "password123", models.RoleUser)

	w := httptest.NewRecorder()
	handler.Submit(w, authedRequest("POST", "/api/forms/submit",
		models.SubmitResponseRequest{FormID: 99999, Answers: []string{"Yes"}}, responder))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	handler.Submit(w, authedRequest("POST", "/api/forms/submit",
		models.SubmitResponseRequest{Answers: []string{"Yes"}}, responder))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetStatistics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResponseHandler(db, testutil.GetTestConfig())
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "password123", models.RoleUser)

	// The fixture form asks "Do you like Go?" then "Favorite color?"
	formID := testutil.CreateTestForm(t, db, owner, true, testutil.Tomorrow())
	testutil.SubmitTestResponse(t, db, formID, "a@example.com", []string{"Yes", "Blue"})
	testutil.SubmitTestResponse(t, db, formID, "b@example.com", []string{"Yes", "Red"})
	testutil.SubmitTestResponse(t, db, formID, "c@example.com", []string{"No", "Blue"})

	req := authedRequest("GET", fmt.Sprintf("/api/forms/statistics/%d", formID), nil, owner)
	req.SetPathValue("formId", fmt.Sprintf("%d", formID))
	w := httptest.NewRecorder()
	handler.GetStatistics(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var stats map[string]map[string]string
	testutil.AssertJSON(t, w, &stats)

	if got := stats["Do you like Go?"]["Yes"]; got != "66.67%" {
		t.Errorf(`Expected "66.67%%" for Yes, got %q`, got)
	}
	if got := stats["Do you like Go?"]["No"]; got != "33.33%" {
		t.Errorf(`Expected "33.33%%" for No, got %q`, got)
	}
	if got := stats["Favorite color?"]["Blue"]; got != "66.67%" {
		t.Errorf(`Expected "66.67%%" for Blue, got %q`, got)
	}
}

func TestGetStatisticsShortAnswers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "password123", models.RoleUser)

	formID := testutil.CreateTestForm(t, db, owner, true, testutil.Tomorrow())
	// One answer for a two-question form: the second question gets no tally
	testutil.SubmitTestResponse(t, db, formID, "a@example.com", []string{"Yes"})

	stats, err := ComputeStatistics(db, formID)
	if err != nil {
		t.Fatalf("ComputeStatistics failed: %v", err)
	}
	if got := stats["Do you like Go?"]["Yes"]; got != "100.00%" {
		t.Errorf(`Expected "100.00%%", got %q`, got)
	}
	if _, ok := stats["Favorite color?"]; ok {
		t.Error("Expected no tally for the unanswered question")
	}
}

func TestGetStatisticsNoResponses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResponseHandler(db, testutil.GetTestConfig())
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "password123", models.RoleUser)

	formID := testutil.CreateTestForm(t, db, owner, true, testutil.Tomorrow())

	req := authedRequest("GET", fmt.Sprintf("/api/forms/statistics/%d", formID), nil, owner)
	req.SetPathValue("formId", fmt.Sprintf("%d", formID))
	w := httptest.NewRecorder()
	handler.GetStatistics(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.MessageResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "No responses yet" {
		t.Errorf("Expected no-responses message, got %q", resp.Message)
	}
}

func TestGetStatisticsNonexistentForm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResponseHandler(db, testutil.GetTestConfig())
	user := testutil.CreateTestUser(t, db, "user@example.com", "password123", models.RoleUser)

	req := authedRequest("GET", "/api/forms/statistics/99999", nil, user)
	req.SetPathValue("formId", "99999")
	w := httptest.NewRecorder()
	handler.GetStatistics(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
