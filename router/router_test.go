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
	"github.com/danielhkuo/formpoint/testutil"
)

func TestHealthCheck(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/health", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("Expected body OK, got %q", w.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	routes := []struct {
		method, path string
	}{
		{"GET", "/api/users/profile"},
		{"POST", "/api/forms/create"},
		{"GET", "/api/forms/active"},
		{"POST", "/api/forms/submit"},
		{"GET", "/api/documents/all/exclude"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(rt.method, rt.path, nil, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", rt.method, rt.path, w.Code)
		}
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/users/register", models.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
		Name:     "Alice",
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/users/login", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var login models.LoginResponse
	testutil.AssertJSON(t, w, &login)
	if login.Token == "" {
		t.Fatal("Expected a token from login")
	}

	// Token from login works on a protected route.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/users/profile", nil, testutil.AuthHeader(login.Token)))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	user := testutil.CreateTestUser(t, conn, "user@example.com", "password123", models.RoleUser)
	userToken := testutil.IssueTestToken(t, user)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/admin/users", nil, testutil.AuthHeader(userToken)))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	adminUser := testutil.CreateTestUser(t, conn, "admin@example.com", "password123", models.RoleAdmin)
	adminToken := testutil.IssueTestToken(t, adminUser)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/admin/users", nil, testutil.AuthHeader(adminToken)))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestFormRoutesDisambiguate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	owner := testutil.CreateTestUser(t, conn, "owner@example.com", "password123", models.RoleUser)
	token := testutil.IssueTestToken(t, owner)
	formID := testutil.CreateTestForm(t, conn, owner, true, testutil.Tomorrow())

	// /api/forms/active must not be captured by the {id} pattern.
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/forms/active", nil, testutil.AuthHeader(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", fmt.Sprintf("/api/forms/%d", formID), nil, testutil.AuthHeader(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/forms/statistics/999", nil, testutil.AuthHeader(token)))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestRootEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := router.NewRouter(conn, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}
