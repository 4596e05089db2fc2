// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MaxTags is the cap on tags per form or document.
const MaxTags = 5

// Request types

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	CurrentPosition string `json:"current_position"`
	Industry        string `json:"industry"`
	ProfilePicture  string `json:"profile_picture"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	CurrentPosition *string `json:"current_position"`
	Industry        *string `json:"industry"`
	ProfilePicture  *string `json:"profile_picture"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type DeleteProfileRequest struct {
	Password string `json:"password"`
}

type CreateFormRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Questions        []Question `json:"questions"`
	Tags             []string   `json:"tags"`
	ExpiryDate       string     `json:"expiry_date"`
	FormProfilePhoto string     `json:"form_profile_photo"`
}

// UpdateFormRequest carries optional fields for a partial update.
// Only fields present in the body are applied, each mapped to a fixed
// column; caller input never reaches the statement as a column name.
type UpdateFormRequest struct {
	FormID           int64       `json:"form_id"`
	Title            *string     `json:"title"`
	Description      *string     `json:"description"`
	Questions        *[]Question `json:"questions"`
	Tags             *[]string   `json:"tags"`
	ExpiryDate       *string     `json:"expiry_date"`
	FormProfilePhoto *string     `json:"form_profile_photo"`
}

// PublishFormRequest publishes an existing draft when FormID is set,
// otherwise creates the form directly in the published state.
type PublishFormRequest struct {
	FormID           int64      `json:"form_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Questions        []Question `json:"questions"`
	Tags             []string   `json:"tags"`
	ExpiryDate       string     `json:"expiry_date"`
	FormProfilePhoto string     `json:"form_profile_photo"`
}

type StopFormRequest struct {
	FormID int64 `json:"form_id"`
}

type DeleteFormRequest struct {
	FormID int64 `json:"form_id"`
}

type SubmitResponseRequest struct {
	FormID  int64    `json:"form_id"`
	Answers []string `json:"answers"`
}

type UploadDocumentRequest struct {
	ProfilePhoto string   `json:"profile_photo"`
	Tags         []string `json:"tags"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PDFFile      string   `json:"pdf_file"`
}

// Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type CreateFormResponse struct {
	Message string `json:"message"`
	FormID  int64  `json:"form_id"`
}

type UploadDocumentResponse struct {
	Message    string `json:"message"`
	DocumentID int64  `json:"document_id"`
}

// Domain types

type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	CurrentPosition string    `json:"current_position"`
	Industry        string    `json:"industry"`
	Role            string    `json:"role"`
	Point           int       `json:"point"`
	ProfilePicture  string    `json:"profile_picture"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Question is one entry in a form's ordered question list. Type
// describes the answer input shape (e.g. "text", "radio").
type Question struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

type Form struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Questions           []Question `json:"questions"`
	Tags                []string   `json:"tags"`
	ExpiryDate          string     `json:"expiry_date"`
	FormProfilePhoto    string     `json:"form_profile_photo"`
	OwnerEmail          string     `json:"owner_email"`
	OwnerName           string     `json:"owner_name"`
	OwnerProfilePicture string     `json:"owner_profile_picture"`
	IsPublished         bool       `json:"is_published"`
	IsDraft             bool       `json:"is_draft"`
	CreatedAt           time.Time  `json:"created_at"`
}

// FormResponse is one submission against a form. Answers align
// positionally with the form's questions at submission time.
type FormResponse struct {
	ID          int64     `json:"id"`
	FormID      int64     `json:"form_id"`
	UserEmail   string    `json:"user_email"`
	Answers     []string  `json:"answers"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type IODocument struct {
	ID                  int64     `json:"id"`
	ProfilePhoto        string    `json:"profile_photo"`
	Tags                []string  `json:"tags"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	PDFFile             string    `json:"pdf_file"`
	OwnerEmail          string    `json:"owner_email"`
	OwnerName           string    `json:"owner_name"`
	OwnerProfilePicture string    `json:"owner_profile_picture"`
	CreatedAt           time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
