package loader

import (
	"strings"

	"github.com/docloaders/redmine-loader/pkg/models"
)

// attachmentText pairs an attachment filename with its extracted text.
type attachmentText struct {
	filename string
	text     string
}

// formatDocument flattens an issue into the document body. The layout is
// fixed so that a document is reproducible for the same inputs:
//
//	**Subject**:   the issue subject
//	**Description**: the issue description
//	**Comments**:  each non-empty note, chronological, tagged by author
//	**Attachments**: each extracted text, tagged by filename
//
// A section appears only when its include flag is set and it has content:
// an issue without comments gets no comment section at all.
func formatDocument(issue *models.Issue, includeComments, includeAttachments bool, attachments []attachmentText) string {
	var b strings.Builder

	b.WriteString("**Subject**:\n")
	b.WriteString(issue.Subject)
	b.WriteString("\n\n")
	b.WriteString("**Description**:\n")
	b.WriteString(issue.Description)
	b.WriteString("\n\n")

	if includeComments && hasNotes(issue.Comments) {
		b.WriteString("**Comments**:\n")
		for _, comment := range issue.Comments {
			if comment.Notes == "" {
				continue
			}
			b.WriteString("\n'")
			b.WriteString(comment.Author)
			b.WriteString("' said:\n```")
			b.WriteString(comment.Notes)
			b.WriteString("```\n")
		}
		b.WriteString("\n\n")
	}

	if includeAttachments && len(attachments) > 0 {
		b.WriteString("**Attachments**:\n")
		for _, att := range attachments {
			b.WriteString(att.filename)
			b.WriteString(" instructs:\n```")
			b.WriteString(att.text)
			b.WriteString("```\n")
		}
	}

	return strings.TrimSpace(b.String())
}

func hasNotes(comments []models.Comment) bool {
	for _, comment := range comments {
		if comment.Notes != "" {
			return true
		}
	}
	return false
}
