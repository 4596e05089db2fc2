// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/formpoint/auth"
	"github.com/danielhkuo/formpoint/cliparse"
	"github.com/danielhkuo/formpoint/middleware"
	"github.com/danielhkuo/formpoint/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isDuplicateErr matches the unique-violation message of either engine
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// Register handles POST /api/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO users (email, password_hash, name, current_position, industry, role, point, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9)
	`, req.Email, hash, req.Name, req.CurrentPosition, req.Industry, models.RoleUser, req.ProfilePicture, now, now)

	if err != nil {
		if isDuplicateErr(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	slog.Info("user registered", "email", req.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Status:  "success",
		Message: "User registered successfully",
	})
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	h.login(w, req, "")
}

// login authenticates against the users table, optionally restricted
// to a single role (admin login). Every failure mode is reported as
// the same 401 so callers cannot probe for accounts.
func (h *UserHandler) login(w http.ResponseWriter, req models.LoginRequest, requiredRole string) {
	query := `
		SELECT id, email, password_hash, name, current_position, industry, role, point, profile_picture, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	args := []any{req.Email}
	if requiredRole != "" {
		query += ` AND role = $2`
		args = append(args, requiredRole)
	}

	var user models.User
	var hash string
	err := h.db.QueryRow(query, args...).Scan(
		&user.ID, &user.Email, &hash, &user.Name, &user.CurrentPosition,
		&user.Industry, &user.Role, &user.Point, &user.ProfilePicture,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.IssueToken(user, h.cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "email", user.Email, "role", user.Role)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Status:  "success",
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var user models.User
	err := h.db.QueryRow(`
		SELECT id, email, name, current_position, industry, role, point, profile_picture, created_at, updated_at
		FROM users
		WHERE email = $1
	`, claims.Email).Scan(
		&user.ID, &user.Email, &user.Name, &user.CurrentPosition,
		&user.Industry, &user.Role, &user.Point, &user.ProfilePicture,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"status": "success",
		"user":   user,
	})
}

// UpdateProfile handles PUT /api/users/profile
// Only fields present in the body are applied, each mapped to a fixed
// column; caller input never becomes a column name.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	set := []string{}
	args := []any{}
	appendField := func(column string, value any) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if req.Name != nil {
		appendField("name", *req.Name)
	}
	if req.CurrentPosition != nil {
		appendField("current_position", *req.CurrentPosition)
	}
	if req.Industry != nil {
		appendField("industry", *req.Industry)
	}
	if req.ProfilePicture != nil {
		appendField("profile_picture", *req.ProfilePicture)
	}

	if len(set) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No valid fields to update")
		return
	}

	appendField("updated_at", time.Now())
	args = append(args, claims.Email)
	query := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE email = $" + strconv.Itoa(len(args))

	result, err := h.db.Exec(query, args...)
	if err != nil {
		slog.Error("failed to update profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	// Keep the denormalized owner info on documents in sync
	if req.Name != nil || req.ProfilePicture != nil {
		if err := h.syncDocumentOwnerInfo(claims.Email, req.Name, req.ProfilePicture); err != nil {
			slog.Warn("failed to sync document owner info", "error", err, "email", claims.Email)
		}
	}

	slog.Info("profile updated", "email", claims.Email)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Profile updated successfully",
	})
}

func (h *UserHandler) syncDocumentOwnerInfo(email string, name, profilePicture *string) error {
	set := []string{}
	args := []any{}
	if name != nil {
		args = append(args, *name)
		set = append(set, "owner_name = $"+strconv.Itoa(len(args)))
	}
	if profilePicture != nil {
		args = append(args, *profilePicture)
		set = append(set, "owner_profile_picture = $"+strconv.Itoa(len(args)))
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, email)
	query := "UPDATE io_documents SET " + strings.Join(set, ", ") + " WHERE owner_email = $" + strconv.Itoa(len(args))
	_, err := h.db.Exec(query, args...)
	return err
}

// ChangePassword handles PUT /api/users/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}
	if len(req.NewPassword) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "New password must be at least 8 characters")
		return
	}

	var hash string
	err := h.db.QueryRow(`SELECT password_hash FROM users WHERE email = $1`, claims.Email).Scan(&hash)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.CurrentPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	_, err = h.db.Exec(`UPDATE users SET password_hash = $1, updated_at = $2 WHERE email = $3`,
		newHash, time.Now(), claims.Email)
	if err != nil {
		slog.Error("failed to update password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	slog.Info("password changed", "email", claims.Email)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Password changed successfully",
	})
}

// DeleteProfile handles DELETE /api/users/profile
func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.DeleteProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password is required")
		return
	}

	var hash string
	err := h.db.QueryRow(`SELECT password_hash FROM users WHERE email = $1`, claims.Email).Scan(&hash)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	result, err := h.db.Exec(`DELETE FROM users WHERE email = $1`, claims.Email)
	if err != nil {
		slog.Error("failed to delete user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	slog.Info("profile deleted", "email", claims.Email)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Profile deleted successfully",
	})
}
