// Package loader implements the issue-loading pipeline: fetch an issue
// from the tracker, optionally fold in its comments and extracted
// attachment text, and yield one normalized Document per issue.
package loader

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/docloaders/redmine-loader/internal/extract"
	"github.com/docloaders/redmine-loader/internal/logging"
	"github.com/docloaders/redmine-loader/internal/redmine"
)

// DefaultAttachmentMaxCharSize bounds extracted attachment text when the
// caller does not set a limit.
const DefaultAttachmentMaxCharSize = 100000

// Options configures an IssueLoader. RedmineURL and APIKey are required;
// everything else has a usable zero value or default.
type Options struct {
	// RedmineURL is the base URL of the tracker instance (e.g.
	// "https://redmine.example.com").
	RedmineURL string

	// APIKey is the Redmine API key used for every request.
	APIKey string

	// IssueIDs is the ordered list of issues to load. Empty loads nothing.
	IssueIDs []int

	// IncludeComments folds journal notes into each document body.
	IncludeComments bool

	// IncludeAttachments downloads and extracts attachment text into each
	// document body.
	IncludeAttachments bool

	// AttachmentMaxCharSize bounds extracted text per attachment, in
	// runes. Zero means DefaultAttachmentMaxCharSize; negative is invalid.
	AttachmentMaxCharSize int

	// HTTPClient optionally overrides the HTTP client used for all
	// tracker requests. Nil gets a client with a bounded per-request
	// timeout, owned by this loader instance.
	HTTPClient *http.Client

	// Extractor optionally overrides the attachment content extractor.
	// Nil gets the docconv-backed default.
	Extractor extract.Extractor
}

// IssueLoader loads Redmine issues as normalized documents. Construct with
// New; configuration problems surface there, before any network activity.
type IssueLoader struct {
	client    *redmine.Client
	extractor extract.Extractor
	opts      Options
}

// New validates opts and returns a ready loader. It performs no network
// requests.
func New(opts Options) (*IssueLoader, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	parsed, err := url.Parse(opts.RedmineURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, fmt.Errorf("redmine url must be a well-formed absolute URL, got %q", opts.RedmineURL)
	}
	for _, id := range opts.IssueIDs {
		if id <= 0 {
			return nil, fmt.Errorf("issue ids must be positive, got %d", id)
		}
	}
	if opts.AttachmentMaxCharSize < 0 {
		return nil, fmt.Errorf("attachment max char size must be positive, got %d", opts.AttachmentMaxCharSize)
	}
	if opts.AttachmentMaxCharSize == 0 {
		opts.AttachmentMaxCharSize = DefaultAttachmentMaxCharSize
	}

	extractor := opts.Extractor
	if extractor == nil {
		extractor = extract.NewDocconvExtractor()
	}

	logging.Debug("issue loader configured",
		"redmine_url", opts.RedmineURL,
		"api_key", logging.MaskSensitive(opts.APIKey),
		"issue_count", len(opts.IssueIDs),
		"include_comments", opts.IncludeComments,
		"include_attachments", opts.IncludeAttachments)

	return &IssueLoader{
		client:    redmine.NewClient(opts.RedmineURL, opts.APIKey, opts.HTTPClient),
		extractor: extractor,
		opts:      opts,
	}, nil
}

// Load starts a pass over the configured issue IDs and returns a lazy
// iterator: each Next call performs the network work for one issue. The
// iterator is finite and not restartable; calling Load again re-fetches
// everything.
func (l *IssueLoader) Load() *Iterator {
	return &Iterator{loader: l}
}
