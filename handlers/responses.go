// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/formpoint/cliparse"
	"github.com/danielhkuo/formpoint/middleware"
	"github.com/danielhkuo/formpoint/models"
	"github.com/danielhkuo/formpoint/points"
)

type ResponseHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResponseHandler(db *sql.DB, cfg cliparse.Config) *ResponseHandler {
	return &ResponseHandler{db: db, cfg: cfg}
}

// Submit handles POST /api/forms/submit
// Appends the response and credits the submitter one point as a single
// transaction; neither effect can apply without the other.
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.FormID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "form_id is required")
		return
	}

	var ownerEmail string
	err := h.db.QueryRow(`SELECT owner_email FROM forms WHERE id = $1`, req.FormID).Scan(&ownerEmail)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to query form", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if ownerEmail == claims.Email {
		middleware.ErrorResponse(w, http.StatusForbidden, "Owners cannot submit their own forms")
		return
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid answers")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO form_responses (form_id, user_email, answers, submitted_at)
		VALUES ($1, $2, $3, $4)
	`, req.FormID, claims.Email, string(answersJSON), time.Now())
	if err != nil {
		slog.Error("failed to insert response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit form")
		return
	}

	if err := points.Credit(tx, claims.Email); err != nil {
		slog.Error("failed to credit point", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit form")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit form")
		return
	}

	slog.Info("response submitted", "form_id", req.FormID, "responder", claims.Email)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Form submitted successfully"})
}

// GetStatistics handles GET /api/forms/statistics/{formId}
func (h *ResponseHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	formID, err := strconv.ParseInt(r.PathValue("formId"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form id")
		return
	}

	stats, err := ComputeStatistics(h.db, formID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to compute statistics", "error", err, "form_id", formID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if stats == nil {
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "No responses yet"})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// ComputeStatistics tallies the answer distribution for each question
// of a form. Answers align with questions by position; a response with
// fewer answers than questions simply skips the remaining questions.
// Counts become percentages of the total response count, formatted to
// two decimals with a trailing "%".
//
// Returns sql.ErrNoRows when the form does not exist, and a nil map
// when it has no responses yet.
func ComputeStatistics(db *sql.DB, formID int64) (map[string]map[string]string, error) {
	var questionsJSON string
	err := db.QueryRow(`SELECT questions FROM forms WHERE id = $1`, formID).Scan(&questionsJSON)
	if err != nil {
		return nil, err
	}

	var questions []models.Question
	if err := json.Unmarshal([]byte(questionsJSON), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}

	rows, err := db.Query(`SELECT answers FROM form_responses WHERE form_id = $1`, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	counts := map[string]map[string]int{}
	total := 0
	for rows.Next() {
		var answersJSON string
		if err := rows.Scan(&answersJSON); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		var answers []string
		if err := json.Unmarshal([]byte(answersJSON), &answers); err != nil {
			return nil, fmt.Errorf("failed to parse answers: %w", err)
		}
		total++

		for i, q := range questions {
			if i >= len(answers) {
				break
			}
			if counts[q.Label] == nil {
				counts[q.Label] = map[string]int{}
			}
			counts[q.Label][answers[i]]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read responses: %w", err)
	}

	if total == 0 {
		return nil, nil
	}

	stats := map[string]map[string]string{}
	for question, answers := range counts {
		stats[question] = map[string]string{}
		for answer, count := range answers {
			stats[question][answer] = fmt.Sprintf("%.2f%%", float64(count)/float64(total)*100)
		}
	}

	return stats, nil
}
