// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// Issue represents a Redmine issue with the fields the loader consumes.
// Fields the tracker returns that are not listed here are ignored during
// decoding.
type Issue struct {
	// ID is the issue number in Redmine (e.g., 42)
	ID int `json:"id"`

	// Subject is the issue's title line
	Subject string `json:"subject"`

	// Description is the full body text of the issue
	Description string `json:"description"`

	// Status is the current status name (e.g., "New", "Closed")
	Status string `json:"-"`

	// Author is the display name of the issue's creator
	Author string `json:"-"`

	// CreatedOn is the timestamp when the issue was created
	CreatedOn time.Time `json:"created_on"`

	// UpdatedOn is the timestamp when the issue was last updated
	UpdatedOn time.Time `json:"updated_on"`

	// Comments holds the issue's journal notes, in chronological order.
	// Populated only when comment loading is enabled.
	Comments []Comment `json:"-"`

	// Attachments holds the issue's attachment references. Populated only
	// when attachment loading is enabled.
	Attachments []Attachment `json:"-"`
}

// Comment represents a single journal note on a Redmine issue.
type Comment struct {
	// ID is the journal entry identifier
	ID int `json:"id"`

	// Author is the display name of the commenter ("Anonymous" when the
	// tracker omits the user)
	Author string `json:"-"`

	// Notes is the comment body text
	Notes string `json:"notes"`

	// CreatedOn is the timestamp when the comment was written
	CreatedOn time.Time `json:"created_on"`
}

// Attachment represents a file attached to a Redmine issue. The binary
// payload is downloaded on demand during loading, never stored here.
type Attachment struct {
	// ID is the attachment identifier
	ID int `json:"id"`

	// Filename is the original upload filename
	Filename string `json:"filename"`

	// ContentType is the MIME type reported by the tracker (may be empty)
	ContentType string `json:"content_type"`

	// ContentURL is the download location for the binary payload
	ContentURL string `json:"content_url"`

	// Filesize is the payload size in bytes as reported by the tracker
	Filesize int64 `json:"filesize"`
}

// Document is the normalized unit yielded to the caller: one issue's
// subject, description, comments, and extracted attachment text flattened
// into a single body, plus structured metadata.
type Document struct {
	// IssueID is the originating issue's identifier
	IssueID int `json:"issue_id"`

	// Subject is the originating issue's subject line
	Subject string `json:"subject"`

	// Source is the issue's URL on the tracker instance
	Source string `json:"source"`

	// Content is the flattened text body
	Content string `json:"content"`
}
