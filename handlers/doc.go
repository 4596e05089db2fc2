// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP request handlers.

# Handlers

  - UserHandler: registration, login, profile management
  - FormHandler: form lifecycle (create, update, publish, stop,
    delete) and the visibility queries (active, mine, drafts, by id)
  - ResponseHandler: response submission and answer statistics
  - DocumentHandler: shared document library with the point-gated
    cross-owner view
  - AdminHandler: role-gated read-only aggregate views

# Form Lifecycle

A form's state collapses to the (is_published, is_draft) flag pair:

	draft      is_published=0  is_draft=1   (created, or stopped, or expired)
	published  is_published=1  is_draft=0

Publishing sets the pair one way; stopping and the expiry sweep set it
back. Updates apply only while unpublished, and only for the owner.
Active-form listing filters by expiry date at read time, independent
of the sweep.

# Point Economy

Submitting a response to someone else's form credits the submitter one
point inside the same transaction as the response insert. Viewing
another owner's document debits one point, floored at zero.

# Conventions

Handlers own their SQL, take *sql.DB plus config via constructor, read
the verified caller identity with middleware.ClaimsFromContext, and
respond through the middleware JSON helpers.
*/
package handlers
