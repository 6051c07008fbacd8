package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/docloaders/redmine-loader/internal/extract"
	"github.com/docloaders/redmine-loader/internal/logging"
	"github.com/docloaders/redmine-loader/internal/redmine"
	"github.com/docloaders/redmine-loader/pkg/models"
)

// ErrDone is returned by Iterator.Next when the sequence is exhausted.
var ErrDone = errors.New("no more documents")

// Failure records a non-fatal problem encountered during a load: an issue
// that was skipped, or an attachment whose content was dropped.
type Failure struct {
	// IssueID is the issue the failure belongs to.
	IssueID int

	// Filename is set for attachment failures and empty for issue-level
	// failures.
	Filename string

	// Err is the underlying cause, classifiable with errors.Is against
	// redmine.ErrNotFound, redmine.ErrTransient, or extract.ErrExtraction.
	Err error
}

// Iterator produces Documents one issue at a time, in the configured
// IssueIDs order. Issues that fail with NotFound or a transient error are
// skipped and recorded; an auth rejection terminates the iteration.
type Iterator struct {
	loader   *IssueLoader
	pos      int
	failures []Failure
	done     bool
}

// Next fetches and assembles the next document. It returns ErrDone when
// every configured issue has been processed, and a fatal error (auth
// rejection or context cancellation) exactly once, after which the
// iterator stays done.
func (it *Iterator) Next(ctx context.Context) (*models.Document, error) {
	if it.done {
		return nil, ErrDone
	}

	opts := it.loader.opts
	for it.pos < len(opts.IssueIDs) {
		id := opts.IssueIDs[it.pos]
		it.pos++

		issue, err := it.loader.client.GetIssue(ctx, id, opts.IncludeComments, opts.IncludeAttachments)
		if err != nil {
			if redmine.IsFatal(err) || ctx.Err() != nil {
				it.done = true
				return nil, fmt.Errorf("load issue %d: %w", id, err)
			}

			// Skip-and-record: one missing or flaky issue does not abort
			// the batch.
			logging.Warn("skipping issue", "issue_id", id, "error", err)
			it.failures = append(it.failures, Failure{IssueID: id, Err: err})
			continue
		}

		return it.buildDocument(ctx, issue), nil
	}

	it.done = true
	return nil, ErrDone
}

// All drains the iterator and returns the remaining documents.
func (it *Iterator) All(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	for {
		doc, err := it.Next(ctx)
		if errors.Is(err, ErrDone) {
			return docs, nil
		}
		if err != nil {
			return docs, err
		}
		docs = append(docs, *doc)
	}
}

// Failures returns the per-issue and per-attachment failures recorded so
// far. The slice grows as iteration advances.
func (it *Iterator) Failures() []Failure {
	return it.failures
}

// buildDocument assembles one issue's document, downloading and extracting
// attachments when configured. Attachment failures are recorded and the
// attachment is left out of the body.
func (it *Iterator) buildDocument(ctx context.Context, issue *models.Issue) *models.Document {
	opts := it.loader.opts

	var texts []attachmentText
	if opts.IncludeAttachments {
		for _, att := range issue.Attachments {
			text, err := it.loader.extractAttachment(ctx, att)
			if err != nil {
				logging.Warn("skipping attachment",
					"issue_id", issue.ID,
					"filename", att.Filename,
					"error", err)
				it.failures = append(it.failures, Failure{
					IssueID:  issue.ID,
					Filename: att.Filename,
					Err:      err,
				})
				continue
			}
			texts = append(texts, attachmentText{filename: att.Filename, text: text})
		}
	}

	content := formatDocument(issue, opts.IncludeComments, opts.IncludeAttachments, texts)

	logging.Debug("document assembled",
		"issue_id", issue.ID,
		"content_chars", len(content),
		"attachments", len(texts))

	return &models.Document{
		IssueID: issue.ID,
		Subject: issue.Subject,
		Source:  it.loader.client.IssueURL(issue.ID),
		Content: content,
	}
}

// extractAttachment downloads one attachment and runs it through the
// extractor, bounding the result to the configured size.
func (l *IssueLoader) extractAttachment(ctx context.Context, att models.Attachment) (string, error) {
	data, err := l.client.DownloadAttachment(ctx, att.ContentURL)
	if err != nil {
		return "", fmt.Errorf("download %q: %w", att.Filename, err)
	}

	text, err := l.extractor.Extract(ctx, data, att.ContentType, att.Filename)
	if err != nil {
		return "", err
	}

	return extract.Truncate(text, l.opts.AttachmentMaxCharSize), nil
}
