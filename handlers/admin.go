// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/formpoint/cliparse"
	"github.com/danielhkuo/formpoint/middleware"
	"github.com/danielhkuo/formpoint/models"
)

// AdminHandler serves the read-only aggregate views. Admin is a role
// value on the shared users table, not a separate account type; the
// role check happens in the router middleware.
type AdminHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	users *UserHandler
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, users: NewUserHandler(db, cfg)}
}

// Login handles POST /api/admin/login
// Same credential check as the user login, restricted to admin rows.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	h.users.login(w, req, models.RoleAdmin)
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"message": "Admin Dashboard",
		"admin":   claims.Email,
	})
}

// GetAllUsers handles GET /api/admin/users
func (h *AdminHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, email, name, current_position, industry, role, point, profile_picture, created_at, updated_at
		FROM users
		WHERE role = $1
		ORDER BY id
	`, models.RoleUser)
	if err != nil {
		slog.Error("failed to query users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Could not fetch users")
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.CurrentPosition,
			&user.Industry, &user.Role, &user.Point, &user.ProfilePicture,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			slog.Error("failed to scan user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Could not fetch users")
			return
		}
		users = append(users, user)
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"status": "success",
		"users":  users,
	})
}

// GetAllForms handles GET /api/admin/forms
func (h *AdminHandler) GetAllForms(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT ` + formColumns + `
		FROM forms
		ORDER BY id
	`)
	if err != nil {
		slog.Error("failed to query forms", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Could not fetch forms")
		return
	}
	defer rows.Close()

	forms := []models.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			slog.Error("failed to scan form", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Could not fetch forms")
			return
		}
		forms = append(forms, form)
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"status": "success",
		"forms":  forms,
	})
}

// GetAllDocuments handles GET /api/admin/documents
func (h *AdminHandler) GetAllDocuments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT ` + documentColumns + `
		FROM io_documents
		ORDER BY id
	`)
	if err != nil {
		slog.Error("failed to query documents", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Could not fetch IO documents")
		return
	}
	defer rows.Close()

	docs := []models.IODocument{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			slog.Error("failed to scan document", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Could not fetch IO documents")
			return
		}
		docs = append(docs, doc)
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"status":    "success",
		"documents": docs,
	})
}
