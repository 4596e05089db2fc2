// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/formpoint/auth"
	"github.com/danielhkuo/formpoint/cliparse"
	"github.com/danielhkuo/formpoint/db"
	"github.com/danielhkuo/formpoint/models"
)

// SetupTestDB creates a fresh sqlite database with the full schema.
// Each test gets its own file under t.TempDir, so tests stay hermetic
// and parallel-safe.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "formpoint_test.db")
	conn, err := db.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          5000,
		DatabaseType:  "sqlite",
		JWTSecret:     "test-jwt-secret",
		SweepSchedule: "0 3 * * *",
	}
}

// CreateTestUser inserts a user and returns it. role should be
// models.RoleUser or models.RoleAdmin.
func CreateTestUser(t *testing.T, conn *sql.DB, email, password, role string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	user := models.User{
		Email:          email,
		Name:           "Test " + email,
		Role:           role,
		ProfilePicture: "https://example.com/" + email + ".png",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = conn.QueryRow(`
		INSERT INTO users (email, password_hash, name, current_position, industry, role, point, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, '', '', $4, 0, $5, $6, $7)
		RETURNING id
	`, user.Email, hash, user.Name, user.Role, user.ProfilePicture, now, now).Scan(&user.ID)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// IssueTestToken signs a token for a user with the test config secret.
func IssueTestToken(t *testing.T, user models.User) string {
	t.Helper()

	token, err := auth.IssueToken(user, GetTestConfig().JWTSecret)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// CreateTestForm inserts a form and returns its ID. published controls
// the flag pair: published forms get is_published=1/is_draft=0, drafts
// the inverse. expiryDate is "YYYY-MM-DD".
func CreateTestForm(t *testing.T, conn *sql.DB, owner models.User, published bool, expiryDate string) int64 {
	t.Helper()

	questions, _ := json.Marshal([]models.Question{
		{Label: "Do you like Go?", Type: "radio"},
		{Label: "Favorite color?", Type: "text"},
	})
	tags, _ := json.Marshal([]string{"test"})

	var formID int64
	err := conn.QueryRow(`
		INSERT INTO forms (title, description, questions, tags, expiry_date, form_profile_photo, owner_email, owner_name, owner_profile_picture, is_published, is_draft, created_at)
		VALUES ('Test Form', 'A test form', $1, $2, $3, '', $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, string(questions), string(tags), expiryDate, owner.Email, owner.Name, owner.ProfilePicture, published, !published, time.Now()).Scan(&formID)
	if err != nil {
		t.Fatalf("Failed to create test form: %v", err)
	}

	return formID
}

// SubmitTestResponse appends a response row directly (no point credit).
func SubmitTestResponse(t *testing.T, conn *sql.DB, formID int64, email string, answers []string) int64 {
	t.Helper()

	answersJSON, _ := json.Marshal(answers)

	var responseID int64
	err := conn.QueryRow(`
		INSERT INTO form_responses (form_id, user_email, answers, submitted_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, formID, email, string(answersJSON), time.Now()).Scan(&responseID)
	if err != nil {
		t.Fatalf("Failed to create test response: %v", err)
	}

	return responseID
}

// CreateTestDocument inserts an IO document and returns its ID.
func CreateTestDocument(t *testing.T, conn *sql.DB, owner models.User, title string) int64 {
	t.Helper()

	tags, _ := json.Marshal([]string{"test"})

	var docID int64
	err := conn.QueryRow(`
		INSERT INTO io_documents (profile_photo, tags, title, description, pdf_file, owner_email, owner_name, owner_profile_picture, created_at)
		VALUES ('', $1, $2, 'A test document', 'https://example.com/doc.pdf', $3, $4, $5, $6)
		RETURNING id
	`, string(tags), title, owner.Email, owner.Name, owner.ProfilePicture, time.Now()).Scan(&docID)
	if err != nil {
		t.Fatalf("Failed to create test document: %v", err)
	}

	return docID
}

// Tomorrow and Yesterday return ISO dates around today for expiry
// fixtures.
func Tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func Yesterday() string {
	return time.Now().AddDate(0, 0, -1).Format("2006-01-02")
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

// AuthHeader builds the Authorization header map for a token.
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
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
