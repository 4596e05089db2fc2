// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/formpoint/cliparse"
	"github.com/danielhkuo/formpoint/middleware"
	"github.com/danielhkuo/formpoint/models"
)

type FormHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewFormHandler(db *sql.DB, cfg cliparse.Config) *FormHandler {
	return &FormHandler{db: db, cfg: cfg}
}

const formColumns = `id, title, description, questions, tags, expiry_date, form_profile_photo,
		       owner_email, owner_name, owner_profile_picture, is_published, is_draft, created_at`

// today returns the current date as ISO text, the format expiry_date
// is stored and compared in.
func today() string {
	return time.Now().Format("2006-01-02")
}

// capTags enforces the tag limit by truncation, like the original
// entry forms do.
func capTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	if len(tags) > models.MaxTags {
		return tags[:models.MaxTags]
	}
	return tags
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanForm reads one form row, unmarshalling the JSON columns.
func scanForm(row rowScanner) (models.Form, error) {
	var form models.Form
	var questionsJSON, tagsJSON string
	var photo, ownerName, ownerPicture sql.NullString

	err := row.Scan(
		&form.ID, &form.Title, &form.Description, &questionsJSON, &tagsJSON,
		&form.ExpiryDate, &photo, &form.OwnerEmail, &ownerName, &ownerPicture,
		&form.IsPublished, &form.IsDraft, &form.CreatedAt,
	)
	if err != nil {
		return models.Form{}, err
	}

	form.FormProfilePhoto = photo.String
	form.OwnerName = ownerName.String
	form.OwnerProfilePicture = ownerPicture.String

	if err := json.Unmarshal([]byte(questionsJSON), &form.Questions); err != nil {
		return models.Form{}, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &form.Tags); err != nil {
		return models.Form{}, err
	}

	return form, nil
}

func (h *FormHandler) queryForms(w http.ResponseWriter, query string, args ...any) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query forms", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	forms := []models.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			slog.Error("failed to scan form", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		forms = append(forms, form)
	}

	middleware.JSONResponse(w, http.StatusOK, forms)
}

// insertForm persists a form owned by the caller with the given flag
// pair and returns the store-assigned id.
func (h *FormHandler) insertForm(title, description string, questions []models.Question,
	tags []string, expiryDate, photo, ownerEmail, ownerName, ownerPicture string,
	published bool) (int64, error) {

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return 0, err
	}
	tagsJSON, err := json.Marshal(capTags(tags))
	if err != nil {
		return 0, err
	}

	var formID int64
	err = h.db.QueryRow(`
		INSERT INTO forms (title, description, questions, tags, expiry_date, form_profile_photo,
		                   owner_email, owner_name, owner_profile_picture, is_published, is_draft, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, title, description, string(questionsJSON), string(tagsJSON), expiryDate, photo,
		ownerEmail, ownerName, ownerPicture, published, !published, time.Now()).Scan(&formID)
	if err != nil {
		return 0, err
	}
	return formID, nil
}

// Create handles POST /api/forms/create
// New forms start as unpublished drafts.
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" || req.Description == "" || len(req.Questions) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title, description and questions are required")
		return
	}

	formID, err := h.insertForm(req.Title, req.Description, req.Questions, req.Tags,
		req.ExpiryDate, req.FormProfilePhoto, claims.Email, claims.Name, claims.ProfilePicture, false)
	if err != nil {
		slog.Error("failed to insert form", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create form")
		return
	}

	slog.Info("form created", "form_id", formID, "owner", claims.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateFormResponse{
		Message: "Form created as draft",
		FormID:  formID,
	})
}

// Update handles PUT /api/forms/update
// Succeeds only while the form is unpublished and owned by the caller;
// anything else is reported as not found.
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.FormID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "form_id is required")
		return
	}

	set := []string{}
	args := []any{}
	appendField := func(column string, value any) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if req.Title != nil {
		appendField("title", *req.Title)
	}
	if req.Description != nil {
		appendField("description", *req.Description)
	}
	if req.Questions != nil {
		questionsJSON, err := json.Marshal(*req.Questions)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid questions")
			return
		}
		appendField("questions", string(questionsJSON))
	}
	if req.Tags != nil {
		tagsJSON, err := json.Marshal(capTags(*req.Tags))
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid tags")
			return
		}
		appendField("tags", string(tagsJSON))
	}
	if req.ExpiryDate != nil {
		appendField("expiry_date", *req.ExpiryDate)
	}
	if req.FormProfilePhoto != nil {
		appendField("form_profile_photo", *req.FormProfilePhoto)
	}

	if len(set) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No valid fields to update")
		return
	}

	args = append(args, req.FormID, claims.Email)
	query := "UPDATE forms SET " + strings.Join(set, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)-1) +
		" AND owner_email = $" + strconv.Itoa(len(args)) +
		" AND is_published = FALSE"

	result, err := h.db.Exec(query, args...)
	if err != nil {
		slog.Error("failed to update form", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update form")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found or not editable")
		return
	}

	slog.Info("form updated", "form_id", req.FormID, "owner", claims.Email)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Form updated"})
}

// Publish handles PUT /api/forms/publish
// With form_id: transitions an owned draft to published. Without:
// creates the form directly in the published state.
func (h *FormHandler) Publish(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.PublishFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.FormID != 0 {
		result, err := h.db.Exec(`
			UPDATE forms SET is_published = TRUE, is_draft = FALSE
			WHERE id = $1 AND owner_email = $2
		`, req.FormID, claims.Email)
		if err != nil {
			slog.Error("failed to publish form", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish form")
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			middleware.ErrorResponse(w, http.StatusNotFound, "Form not found or access denied")
			return
		}

		slog.Info("form published", "form_id", req.FormID, "owner", claims.Email)

		middleware.JSONResponse(w, http.StatusOK, models.CreateFormResponse{
			Message: "Form published",
			FormID:  req.FormID,
		})
		return
	}

	// Publish-creates: same validation as Create
	if req.Title == "" || req.Description == "" || len(req.Questions) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title, description and questions are required")
		return
	}

	formID, err := h.insertForm(req.Title, req.Description, req.Questions, req.Tags,
		req.ExpiryDate, req.FormProfilePhoto, claims.Email, claims.Name, claims.ProfilePicture, true)
	if err != nil {
		slog.Error("failed to insert form", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish form")
		return
	}

	slog.Info("form published", "form_id", formID, "owner", claims.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateFormResponse{
		Message: "Form published",
		FormID:  formID,
	})
}

// Stop handles PUT /api/forms/stop
// Published -> stopped draft.
func (h *FormHandler) Stop(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.StopFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.FormID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "form_id is required")
		return
	}

	result, err := h.db.Exec(`
		UPDATE forms SET is_published = FALSE, is_draft = TRUE
		WHERE id = $1 AND owner_email = $2
	`, req.FormID, claims.Email)
	if err != nil {
		slog.Error("failed to stop form", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to stop form")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found or access denied")
		return
	}

	slog.Info("form stopped", "form_id", req.FormID, "owner", claims.Email)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Form stopped and saved as draft"})
}

// Delete handles DELETE /api/forms/delete
// Hard delete; responses cascade with the form.
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.DeleteFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.FormID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "form_id is required")
		return
	}

	result, err := h.db.Exec(`DELETE FROM forms WHERE id = $1 AND owner_email = $2`, req.FormID, claims.Email)
	if err != nil {
		slog.Error("failed to delete form", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete form")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found or access denied")
		return
	}

	slog.Info("form deleted", "form_id", req.FormID, "owner", claims.Email)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Form deleted"})
}

// GetActive handles GET /api/forms/active
// Lists published forms owned by others that have not expired. The
// date filter runs at read time, so expired forms disappear here even
// before the sweep demotes them.
func (h *FormHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	h.queryForms(w, `
		SELECT `+formColumns+`
		FROM forms
		WHERE expiry_date >= $1 AND owner_email != $2 AND is_published = TRUE
		ORDER BY id
	`, today(), claims.Email)
}

// GetMine handles GET /api/forms/my-forms
func (h *FormHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	h.queryForms(w, `
		SELECT `+formColumns+`
		FROM forms
		WHERE owner_email = $1
		ORDER BY id
	`, claims.Email)
}

// GetMyDrafts handles GET /api/forms/my-drafts
func (h *FormHandler) GetMyDrafts(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	h.queryForms(w, `
		SELECT `+formColumns+`
		FROM forms
		WHERE owner_email = $1 AND is_draft = TRUE
		ORDER BY id
	`, claims.Email)
}

// GetByID handles GET /api/forms/{id}
// Visible to the owner always, to others only while published.
func (h *FormHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	formID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form id")
		return
	}

	form, err := scanForm(h.db.QueryRow(`
		SELECT `+formColumns+`
		FROM forms
		WHERE id = $1 AND (owner_email = $2 OR is_published = TRUE)
	`, formID, claims.Email))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found or access denied")
		return
	}
	if err != nil {
		slog.Error("failed to query form", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, form)
}

// GetMyFormByID handles GET /api/forms/my-forms/{id}
// Owner-only lookup regardless of publish state.
func (h *FormHandler) GetMyFormByID(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	formID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form id")
		return
	}

	form, err := scanForm(h.db.QueryRow(`
		SELECT `+formColumns+`
		FROM forms
		WHERE id = $1 AND owner_email = $2
	`, formID, claims.Email))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found or access denied")
		return
	}
	if err != nil {
		slog.Error("failed to query form", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, form)
}
