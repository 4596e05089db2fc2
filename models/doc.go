// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest / LoginRequest: account credentials and profile fields
  - UpdateProfileRequest: optional profile fields (pointer = present)
  - ChangePasswordRequest / DeleteProfileRequest: password confirmations
  - CreateFormRequest / PublishFormRequest: form content; publish doubles
    as a creation entry point when form_id is absent
  - UpdateFormRequest: optional form fields applied while unpublished
  - StopFormRequest / DeleteFormRequest: lifecycle transitions by form_id
  - SubmitResponseRequest: ordered answers aligned to the form's questions
  - UploadDocumentRequest: document library upload

# Response Types

Types for JSON responses:

  - LoginResponse: token plus the user payload
  - CreateFormResponse / UploadDocumentResponse: new record id
  - MessageResponse: plain acknowledgement
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: account record with role attribute and point balance
  - Form: survey definition with lifecycle flags (is_published, is_draft)
  - Question: one labeled entry in a form's ordered question list
  - FormResponse: append-only submission record
  - IODocument: shared document with denormalized owner info

# Constants

Roles:

	RoleUser  = "user"
	RoleAdmin = "admin"

Limits:

	MaxTags = 5
*/
package models
