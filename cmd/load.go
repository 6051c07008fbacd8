package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/docloaders/redmine-loader/internal/config"
	"github.com/docloaders/redmine-loader/internal/logging"
	"github.com/docloaders/redmine-loader/pkg/loader"
	"github.com/docloaders/redmine-loader/pkg/models"
	"github.com/spf13/cobra"
)

// loadCmd streams one document per requested issue to stdout, as each one
// is fetched. Logs go to stderr so the output stays pipeable.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load Redmine issues as documents",
	Long: `Load fetches each requested issue and prints its normalized document.

Issues that do not exist or fail transiently are skipped with a warning;
a rejected API key aborts the run. Attachment text extraction requires
--attachments and is bounded per attachment by --max-attachment-chars.

Example:
  redmine-loader load --issues 101,102 --comments --attachments --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		issueIDs, err := cmd.Flags().GetIntSlice("issues")
		if err != nil {
			return err
		}
		includeComments, err := cmd.Flags().GetBool("comments")
		if err != nil {
			return err
		}
		includeAttachments, err := cmd.Flags().GetBool("attachments")
		if err != nil {
			return err
		}
		maxChars, err := cmd.Flags().GetInt("max-attachment-chars")
		if err != nil {
			return err
		}
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}

		if len(issueIDs) == 0 {
			return fmt.Errorf("at least one issue must be specified using --issues")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		l, err := loader.New(loader.Options{
			RedmineURL:            cfg.Redmine.URL,
			APIKey:                cfg.Redmine.APIKey,
			IssueIDs:              issueIDs,
			IncludeComments:       includeComments,
			IncludeAttachments:    includeAttachments,
			AttachmentMaxCharSize: maxChars,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize loader: %w", err)
		}

		logging.Info("starting load",
			"redmine_url", cfg.Redmine.URL,
			"api_key", logging.MaskSensitive(cfg.Redmine.APIKey),
			"issue_count", len(issueIDs))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		it := l.Load()
		loaded := 0
		for {
			doc, err := it.Next(ctx)
			if errors.Is(err, loader.ErrDone) {
				break
			}
			if err != nil {
				return fmt.Errorf("load aborted: %w", err)
			}

			out, err := renderDocument(doc, asJSON)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			loaded++
		}

		for _, failure := range it.Failures() {
			logging.Warn("load failure",
				"issue_id", failure.IssueID,
				"filename", failure.Filename,
				"error", failure.Err)
		}

		logging.Info("load finished",
			"loaded", loaded,
			"failures", len(it.Failures()))
		return nil
	},
}

// renderDocument formats one document for stdout: a JSON object per line,
// or a readable text block with a metadata header.
func renderDocument(doc *models.Document, asJSON bool) (string, error) {
	if asJSON {
		data, err := json.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("failed to encode document: %w", err)
		}
		return string(data), nil
	}
	return fmt.Sprintf("--- issue %d (%s)\n%s", doc.IssueID, doc.Source, doc.Content), nil
}

func init() {
	loadCmd.Flags().IntSliceP("issues", "i", nil, "Issue IDs to load (e.g., '101,102')")
	loadCmd.Flags().Bool("comments", false, "Include journal comments in each document")
	loadCmd.Flags().Bool("attachments", false, "Download attachments and include extracted text")
	loadCmd.Flags().Int("max-attachment-chars", 0, "Maximum extracted characters per attachment (default 100000)")
	loadCmd.Flags().Bool("json", false, "Emit one JSON object per document instead of text")
}
