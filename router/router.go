// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/formpoint/cliparse"
	"github.com/danielhkuo/formpoint/handlers"
	"github.com/danielhkuo/formpoint/middleware"
	"github.com/danielhkuo/formpoint/models"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	formHandler := handlers.NewFormHandler(db, cfg)
	responseHandler := handlers.NewResponseHandler(db, cfg)
	documentHandler := handlers.NewDocumentHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	secret := cfg.JWTSecret
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(secret, next))
	}
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireRole(secret, models.RoleAdmin, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Account management (public)
	mux.HandleFunc("POST /api/users/register", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("POST /api/users/login", middleware.WithLogging(userHandler.Login))

	// Profile management (authenticated)
	mux.HandleFunc("GET /api/users/profile", auth(userHandler.GetProfile))
	mux.HandleFunc("PUT /api/users/profile", auth(userHandler.UpdateProfile))
	mux.HandleFunc("PUT /api/users/password", auth(userHandler.ChangePassword))
	mux.HandleFunc("DELETE /api/users/profile", auth(userHandler.DeleteProfile))

	// Form lifecycle (authenticated)
	mux.HandleFunc("POST /api/forms/create", auth(formHandler.Create))
	mux.HandleFunc("PUT /api/forms/update", auth(formHandler.Update))
	mux.HandleFunc("PUT /api/forms/publish", auth(formHandler.Publish))
	mux.HandleFunc("PUT /api/forms/stop", auth(formHandler.Stop))
	mux.HandleFunc("DELETE /api/forms/delete", auth(formHandler.Delete))

	// Form retrieval (authenticated)
	mux.HandleFunc("GET /api/forms/active", auth(formHandler.GetActive))
	mux.HandleFunc("GET /api/forms/my-forms", auth(formHandler.GetMine))
	mux.HandleFunc("GET /api/forms/my-drafts", auth(formHandler.GetMyDrafts))
	mux.HandleFunc("GET /api/forms/my-forms/{id}", auth(formHandler.GetMyFormByID))
	mux.HandleFunc("GET /api/forms/{id}", auth(formHandler.GetByID))

	// Responses and statistics (authenticated)
	mux.HandleFunc("POST /api/forms/submit", auth(responseHandler.Submit))
	mux.HandleFunc("GET /api/forms/statistics/{formId}", auth(responseHandler.GetStatistics))

	// Document sharing (authenticated)
	mux.HandleFunc("POST /api/documents/upload", auth(documentHandler.Upload))
	mux.HandleFunc("GET /api/documents/all/exclude", auth(documentHandler.GetAllExcludingOwner))
	mux.HandleFunc("GET /api/documents/my-documents", auth(documentHandler.GetMine))
	mux.HandleFunc("GET /api/documents/{id}", auth(documentHandler.GetByID))
	mux.HandleFunc("DELETE /api/documents/{id}", auth(documentHandler.Delete))

	// Admin operations
	mux.HandleFunc("POST /api/admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("GET /api/admin/dashboard", admin(adminHandler.Dashboard))
	mux.HandleFunc("GET /api/admin/users", admin(adminHandler.GetAllUsers))
	mux.HandleFunc("GET /api/admin/forms", admin(adminHandler.GetAllForms))
	mux.HandleFunc("GET /api/admin/documents", admin(adminHandler.GetAllDocuments))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("formpoint API v1"))
	})

	return mux
}
