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

func TestUploadDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewDocumentHandler(db, testutil.GetTestConfig())
	user := testutil.CreateTestUser(t, db, "alice@example.com", "password123", models.RoleUser)

	tests := []struct {
		name           string
		requestBody    models.UploadDocumentRequest
		expectedStatus int
	}{
		{
			name: "valid upload",
			requestBody: models.UploadDocumentRequest{
				ProfilePhoto: "https://example.com/photo.png",
				Tags:         []string{"research"},
				Title:        "Notes",
				Description:  "Research notes",
				PDFFile:      "https://example.com/notes.pdf",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing title",
			requestBody: models.UploadDocumentRequest{
				ProfilePhoto: "https://example.com/photo.png",
				Tags:         []string{"research"},
				Description:  "Research notes",
				PDFFile:      "https://example.com/notes.pdf",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing pdf file",
			requestBody: models.UploadDocumentRequest{
				ProfilePhoto: "https://example.com/photo.png",
				Tags:         []string{"research"},
				Title:        "Notes",
				Description:  "Research notes",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Upload(w, authedRequest("POST", "/api/documents/upload", tt.requestBody, user))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.UploadDocumentResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.DocumentID == 0 {
					t.Error("Expected non-zero document_id")
				}
			}
		})
	}
}

func TestGetDocumentsExcludingOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewDocumentHandler(db, testutil.GetTestConfig())
	alice := testutil.CreateTestUser(t, db, "alice@example.com", "password123", models.RoleUser)
	bob := testutil.CreateTestUser(t, db, "bob@example.com", "password123", models.RoleUser)

	testutil.CreateTestDocument(t, db, alice, "Alice Doc")
	bobDocID := testutil.CreateTestDocument(t, db, bob, "Bob Doc")

	w := httptest.NewRecorder()
	handler.GetAllExcludingOwner(w, authedRequest("GET", "/api/documents/all/exclude", nil, alice))
	testutil.AssertStatus(t, w, http.StatusOK)

	var docs []models.IODocument
	testutil.AssertJSON(t, w, &docs)
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}
	if docs[0].ID != bobDocID {
		t.Errorf("Expected document %d, got %d", bobDocID, docs[0].ID)
	}

	w = httptest.NewRecorder()
	handler.GetMine(w, authedRequest("GET", "/api/documents/my-documents", nil, alice))
	testutil.AssertStatus(t, w, http.StatusOK)

	var mine []models.IODocument
	testutil.AssertJSON(t, w, &mine)
	if len(mine) != 1 {
		t.Fatalf("Expected 1 owned document, got %d", len(mine))
	}
	if mine[0].Title != "Alice Doc" {
		t.Errorf("Expected Alice's document, got %q", mine[0].Title)
	}
}

func TestGetDocumentByIDSpendsPoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewDocumentHandler(db, testutil.GetTestConfig())
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "password123", models.RoleUser)
	viewer := testutil.CreateTestUser(t, db, "viewer@example.com", "password123", models.RoleUser)

	docID := testutil.CreateTestDocument(t, db, owner, "Shared Notes")

	get := func(user models.User) *httptest.ResponseRecorder {
		req := authedRequest("GET", fmt.Sprintf("/api/documents/%d", docID), nil, user)
		req.SetPathValue("id", fmt.Sprintf("%d", docID))
		w := httptest.NewRecorder()
		handler.GetByID(w, req)
		return w
	}

	// Give the viewer a balance to spend
	if _, err := db.Exec(`UPDATE users SET point = 2 WHERE email = $1`, viewer.Email); err != nil {
		t.Fatalf("Failed to seed points: %v", err)
	}

	testutil.AssertStatus(t, get(viewer), http.StatusOK)
	balance, err := points.Balance(db, viewer.Email)
	if err != nil {
		t.Fatalf("Failed to read balance: %v", err)
	}
	if balance != 1 {
		t.Errorf("Expected 1 point after view, got %d", balance)
	}

	// Owner views are free
	testutil.AssertStatus(t, get(owner), http.StatusOK)
	balance, err = points.Balance(db, owner.Email)
	if err != nil {
		t.Fatalf("Failed to read balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("Expected owner balance untouched, got %d", balance)
	}

	// The balance floors at zero; a broke viewer still gets the document
	testutil.AssertStatus(t, get(viewer), http.StatusOK)
	testutil.AssertStatus(t, get(viewer), http.StatusOK)
	balance, err = points.Balance(db, viewer.Email)
	if err != nil {
		t.Fatalf("Failed to read balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("Expected balance to floor at 0, got %d", balance)
	}
}

func TestGetDocumentByIDNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewDocumentHandler(db, testutil.GetTestConfig())
	user := testutil.CreateTestUser(t, db, "user@example.com", "password123", models.RoleUser)

	req := authedRequest("GET", "/api/documents/99999", nil, user)
	req.SetPathValue("id", "99999")
	w := httptest.NewRecorder()
	handler.GetByID(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeleteDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewDocumentHandler(db, testutil.GetTestConfig())
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "password123", models.RoleUser)
	other := testutil.CreateTestUser(t, db, "other@example.com", "password123", models.RoleUser)

	docID := testutil.CreateTestDocument(t, db, owner, "Shared Notes")

	del := func(user models.User) *httptest.ResponseRecorder {
		req := authedRequest("DELETE", fmt.Sprintf("/api/documents/%d", docID), nil, user)
		req.SetPathValue("id", fmt.Sprintf("%d", docID))
		w := httptest.NewRecorder()
		handler.Delete(w, req)
		return w
	}

	testutil.AssertStatus(t, del(other), http.StatusForbidden)
	testutil.AssertStatus(t, del(owner), http.StatusOK)
	// Already gone
	testutil.AssertStatus(t, del(owner), http.StatusNotFound)
}
