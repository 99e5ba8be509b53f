package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/theoremoon/articlefeed/internal/article"
)

// Remote is the part of the feed API the importer uses.
type Remote interface {
	Articles(ctx context.Context, query string) ([]article.Article, error)
	Publish(ctx context.Context, title, content string) (article.Article, bool, error)
}

type Importer struct {
	remote  Remote
	logger  *slog.Logger
	writeID func(doc *article.Document, id int64) error
}

type ImportResult struct {
	Published int
	Skipped   int
	Errors    []error
}

type DryRunAction struct {
	Type     string // "publish", "skip"
	Document *article.Document
	Reason   string
}

func NewImporter(remote Remote, logger *slog.Logger) *Importer {
	return &Importer{remote: remote, logger: logger, writeID: article.SetDocumentID}
}

func (i *Importer) remoteIDs(ctx context.Context) (map[int64]article.Article, error) {
	remoteArticles, err := i.remote.Articles(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get remote articles: %w", err)
	}

	remoteByID := make(map[int64]article.Article, len(remoteArticles))
	for _, a := range remoteArticles {
		remoteByID[a.ID] = a
	}
	return remoteByID, nil
}

// ImportDocuments publishes every document the feed does not hold yet and
// records the assigned id in the document's file. A document is known to the
// feed when its frontmatter id matches a remote article.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*article.Document) (*ImportResult, error) {
	result := &ImportResult{}

	remoteByID, err := i.remoteIDs(ctx)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if _, exists := remoteByID[doc.ID]; exists && doc.ID != 0 {
			i.logger.Info(fmt.Sprintf("= %s", doc.FilePath), "article_id", doc.ID)
			result.Skipped++
			continue
		}

		published, ok, err := i.remote.Publish(ctx, doc.Title, doc.Body)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to publish article %s: %w", doc.FilePath, err))
			continue
		}
		if !ok {
			result.Errors = append(result.Errors, fmt.Errorf("article %s was not published: title and body must not be blank", doc.FilePath))
			continue
		}

		if err := i.writeID(doc, published.ID); err != nil {
			i.logger.Warn("failed to record article id", "path", doc.FilePath, "article_id", published.ID, "error", err)
		}

		i.logger.Info(fmt.Sprintf("+ %s", doc.FilePath), "article_id", published.ID)
		result.Published++
	}

	return result, nil
}

// DryRunImportDocuments reports what ImportDocuments would do without
// publishing anything or touching files.
func (i *Importer) DryRunImportDocuments(ctx context.Context, docs []*article.Document, w io.Writer) (*ImportResult, error) {
	result := &ImportResult{}
	var actions []DryRunAction

	remoteByID, err := i.remoteIDs(ctx)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if remote, exists := remoteByID[doc.ID]; exists && doc.ID != 0 {
			actions = append(actions, DryRunAction{
				Type:     "skip",
				Document: doc,
				Reason:   fmt.Sprintf("Already in feed as %q", remote.Title),
			})
			result.Skipped++
			continue
		}

		if !publishable(doc) {
			err := fmt.Errorf("article %s would not be published: title and body must not be blank", doc.FilePath)
			result.Errors = append(result.Errors, err)
			continue
		}

		reason := "New article (no id assigned yet)"
		if doc.ID != 0 {
			reason = "New article (id not found in feed)"
		}
		actions = append(actions, DryRunAction{
			Type:     "publish",
			Document: doc,
			Reason:   reason,
		})
		result.Published++
	}

	printDryRunReport(w, actions)
	return result, nil
}

func publishable(doc *article.Document) bool {
	return strings.TrimSpace(doc.Title) != "" && strings.TrimSpace(doc.Body) != ""
}

func printDryRunReport(w io.Writer, actions []DryRunAction) {
	for _, action := range actions {
		switch action.Type {
		case "publish":
			fmt.Fprintf(w, "+ %s\n", action.Document.FilePath)
		case "skip":
			fmt.Fprintf(w, "= %s\n", action.Document.FilePath)
		}
	}
}
