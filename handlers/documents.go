// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/formpoint/cliparse"
	"github.com/danielhkuo/formpoint/middleware"
	"github.com/danielhkuo/formpoint/models"
	"github.com/danielhkuo/formpoint/points"
)

type DocumentHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDocumentHandler(db *sql.DB, cfg cliparse.Config) *DocumentHandler {
	return &DocumentHandler{db: db, cfg: cfg}
}

const documentColumns = `id, profile_photo, tags, title, description, pdf_file,
		       owner_email, owner_name, owner_profile_picture, created_at`

func scanDocument(row rowScanner) (models.IODocument, error) {
	var doc models.IODocument
	var tagsJSON string
	var photo, ownerName, ownerPicture sql.NullString

	err := row.Scan(
		&doc.ID, &photo, &tagsJSON, &doc.Title, &doc.Description, &doc.PDFFile,
		&doc.OwnerEmail, &ownerName, &ownerPicture, &doc.CreatedAt,
	)
	if err != nil {
		return models.IODocument{}, err
	}

	doc.ProfilePhoto = photo.String
	doc.OwnerName = ownerName.String
	doc.OwnerProfilePicture = ownerPicture.String

	if err := json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
		return models.IODocument{}, err
	}

	return doc, nil
}

func (h *DocumentHandler) queryDocuments(w http.ResponseWriter, query string, args ...any) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query documents", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	docs := []models.IODocument{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			slog.Error("failed to scan document", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		docs = append(docs, doc)
	}

	middleware.JSONResponse(w, http.StatusOK, docs)
}

// Upload handles POST /api/documents/upload
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UploadDocumentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" || req.Description == "" || len(req.Tags) == 0 || req.PDFFile == "" || req.ProfilePhoto == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	tagsJSON, err := json.Marshal(capTags(req.Tags))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid tags")
		return
	}

	var docID int64
	err = h.db.QueryRow(`
		INSERT INTO io_documents (profile_photo, tags, title, description, pdf_file,
		                          owner_email, owner_name, owner_profile_picture, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, req.ProfilePhoto, string(tagsJSON), req.Title, req.Description, req.PDFFile,
		claims.Email, claims.Name, claims.ProfilePicture, time.Now()).Scan(&docID)
	if err != nil {
		slog.Error("failed to insert document", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to upload document")
		return
	}

	slog.Info("document uploaded", "document_id", docID, "owner", claims.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.UploadDocumentResponse{
		Message:    "IO Document uploaded successfully",
		DocumentID: docID,
	})
}

// GetAllExcludingOwner handles GET /api/documents/all/exclude
// Lists every document not owned by the caller.
func (h *DocumentHandler) GetAllExcludingOwner(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	h.queryDocuments(w, `
		SELECT `+documentColumns+`
		FROM io_documents
		WHERE owner_email != $1
		ORDER BY id
	`, claims.Email)
}

// GetMine handles GET /api/documents/my-documents
func (h *DocumentHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	h.queryDocuments(w, `
		SELECT `+documentColumns+`
		FROM io_documents
		WHERE owner_email = $1
		ORDER BY id
	`, claims.Email)
}

// GetByID handles GET /api/documents/{id}
// Viewing another owner's document spends one point. A zero balance
// still allows the view; the debit is simply skipped. A failed debit
// is logged and the view proceeds.
func (h *DocumentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	docID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid document id")
		return
	}

	doc, err := scanDocument(h.db.QueryRow(`
		SELECT `+documentColumns+`
		FROM io_documents
		WHERE id = $1
	`, docID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		slog.Error("failed to query document", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if doc.OwnerEmail != claims.Email {
		if err := points.Debit(h.db, claims.Email); err != nil {
			slog.Error("failed to debit point", "error", err, "email", claims.Email)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, doc)
}

// Delete handles DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	docID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid document id")
		return
	}

	var ownerEmail string
	err = h.db.QueryRow(`SELECT owner_email FROM io_documents WHERE id = $1`, docID).Scan(&ownerEmail)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		slog.Error("failed to query document", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if ownerEmail != claims.Email {
		middleware.ErrorResponse(w, http.StatusForbidden, "You can only delete your own documents")
		return
	}

	_, err = h.db.Exec(`DELETE FROM io_documents WHERE id = $1`, docID)
	if err != nil {
		slog.Error("failed to delete document", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	slog.Info("document deleted", "document_id", docID, "owner", claims.Email)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Document deleted successfully"})
}
