// Package redmine provides a client for the subset of the Redmine REST API
// consumed by the loader: issue retrieval (with optional journals and
// attachment references) and attachment download.
package redmine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/docloaders/redmine-loader/internal/logging"
	"github.com/docloaders/redmine-loader/pkg/models"
)

const (
	// apiKeyHeader is Redmine's API key authentication header.
	apiKeyHeader = "X-Redmine-API-Key"

	defaultTimeout = 30 * time.Second
	maxRetries     = 2
)

// Client performs authenticated requests against one Redmine instance.
// The underlying HTTP client is owned by whoever constructs the Client and
// is never shared through package state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client for the Redmine instance at baseURL. If
// httpClient is nil a client with a bounded per-request timeout is used.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// IssueURL returns the human-facing URL of an issue on the tracker.
func (c *Client) IssueURL(id int) string {
	return fmt.Sprintf("%s/issues/%d", c.baseURL, id)
}

// issueEnvelope mirrors the top-level object of GET /issues/{id}.json.
type issueEnvelope struct {
	Issue issueBody `json:"issue"`
}

type issueBody struct {
	ID          int                 `json:"id"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Status      namedRef            `json:"status"`
	Author      namedRef            `json:"author"`
	CreatedOn   time.Time           `json:"created_on"`
	UpdatedOn   time.Time           `json:"updated_on"`
	Journals    []journal           `json:"journals"`
	Attachments []models.Attachment `json:"attachments"`
}

// namedRef is Redmine's {"id": n, "name": "..."} reference object, used
// for statuses, authors, journal users, and similar fields.
type namedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type journal struct {
	ID        int       `json:"id"`
	User      namedRef  `json:"user"`
	Notes     string    `json:"notes"`
	CreatedOn time.Time `json:"created_on"`
}

// GetIssue fetches a single issue by id. Journals and attachment
// references are requested only when the corresponding flag is set, via
// the API's include parameter. Journals are returned in chronological
// order regardless of the order the tracker reports them in.
func (c *Client) GetIssue(ctx context.Context, id int, includeJournals, includeAttachments bool) (*models.Issue, error) {
	var includes []string
	if includeJournals {
		includes = append(includes, "journals")
	}
	if includeAttachments {
		includes = append(includes, "attachments")
	}

	url := fmt.Sprintf("%s/issues/%d.json", c.baseURL, id)
	if len(includes) > 0 {
		url += "?include=" + strings.Join(includes, ",")
	}

	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope issueEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode issue %d: %w", id, err)
	}

	return toIssue(envelope.Issue), nil
}

// DownloadAttachment fetches an attachment's binary payload from its
// content URL. The API key header is sent here too: attachment downloads
// on a private instance require the same credential as the JSON API.
func (c *Client) DownloadAttachment(ctx context.Context, contentURL string) ([]byte, error) {
	resp, err := c.doRequest(ctx, contentURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read attachment body: %w", ErrTransient)
	}
	return data, nil
}

// doRequest performs an authenticated GET with bounded retries. Server
// errors are retried with linear backoff; client errors never are. The
// caller owns the response body on success.
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	var resp *http.Response
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set(apiKeyHeader, c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("request %s: %v: %w", url, err, ErrTransient)
		}

		if resp.StatusCode < 500 || attempt >= maxRetries {
			break
		}

		// Server error - retry with linear backoff.
		resp.Body.Close()
		logging.Debug("retrying tracker request",
			"url", url,
			"status_code", resp.StatusCode,
			"attempt", attempt+1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * time.Second):
		}
	}

	if err := statusError(resp); err != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		logging.Debug("tracker request failed",
			"url", url,
			"status_code", resp.StatusCode,
			"body", strings.TrimSpace(string(body)))
		return nil, err
	}

	return resp, nil
}

// statusError maps a non-2xx response status onto the error taxonomy.
func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrAuth)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrNotFound)
	case resp.StatusCode >= 500:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrTransient)
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// toIssue converts the wire representation to the shared model.
func toIssue(body issueBody) *models.Issue {
	issue := &models.Issue{
		ID:          body.ID,
		Subject:     body.Subject,
		Description: body.Description,
		Status:      body.Status.Name,
		Author:      body.Author.Name,
		CreatedOn:   body.CreatedOn,
		UpdatedOn:   body.UpdatedOn,
		Attachments: body.Attachments,
	}

	comments := make([]models.Comment, 0, len(body.Journals))
	for _, j := range body.Journals {
		author := j.User.Name
		if author == "" {
			author = "Anonymous"
		}
		comments = append(comments, models.Comment{
			ID:        j.ID,
			Author:    author,
			Notes:     j.Notes,
			CreatedOn: j.CreatedOn,
		})
	}
	sort.SliceStable(comments, func(i, k int) bool {
		return comments[i].CreatedOn.Before(comments[k].CreatedOn)
	})
	issue.Comments = comments

	return issue
}

// IsFatal reports whether an error from this client should abort a whole
// batch rather than a single issue.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAuth)
}
