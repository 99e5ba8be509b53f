package sync

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremoon/articlefeed/internal/article"
)

type fakeRemote struct {
	articles   []article.Article
	nextID     int64
	published  []article.Draft
	listErr    error
	publishErr error
}

func (f *fakeRemote) Articles(ctx context.Context, query string) ([]article.Article, error) {
	return f.articles, f.listErr
}

func (f *fakeRemote) Publish(ctx context.Context, title, content string) (article.Article, bool, error) {
	if f.publishErr != nil {
		return article.Article{}, false, f.publishErr
	}
	if title == "" || content == "" {
		return article.Article{}, false, nil
	}
	f.nextID++
	f.published = append(f.published, article.Draft{Title: title, Content: content})
	a := article.Article{ID: f.nextID, Title: title}
	f.articles = append([]article.Article{a}, f.articles...)
	return a, true, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDoc(t *testing.T, dir, name, content string) *article.Document {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	doc, err := article.ParseFile(path)
	require.NoError(t, err)
	return doc
}

func TestImportDocuments(t *testing.T) {
	dir := t.TempDir()
	known := writeDoc(t, dir, "known.md", "---\nid: 1\ntitle: Known\n---\nalready there")
	fresh := writeDoc(t, dir, "fresh.md", "---\ntitle: Fresh\n---\nnew body")
	stale := writeDoc(t, dir, "stale.md", "---\nid: 77\ntitle: Stale\n---\nserver forgot me")
	empty := writeDoc(t, dir, "empty.md", "---\ntitle: Empty\n---\n")

	remote := &fakeRemote{articles: []article.Article{{ID: 1, Title: "Known"}}, nextID: 10}
	importer := NewImporter(remote, discardLogger())

	result, err := importer.ImportDocuments(context.Background(), []*article.Document{known, fresh, stale, empty})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Published)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "empty.md")

	assert.Equal(t, []article.Draft{
		{Title: "Fresh", Content: "new body"},
		{Title: "Stale", Content: "server forgot me"},
	}, remote.published)

	assert.Equal(t, int64(11), fresh.ID)
	assert.Equal(t, int64(12), stale.ID)

	reread, err := article.ParseFile(fresh.FilePath)
	require.NoError(t, err)
	assert.Equal(t, int64(11), reread.ID)

	// a second run finds everything in place
	result, err = importer.ImportDocuments(context.Background(), []*article.Document{known, fresh, stale})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Published)
	assert.Equal(t, 3, result.Skipped)
}

func TestImportDocumentsWriteBackFailure(t *testing.T) {
	remote := &fakeRemote{}
	importer := NewImporter(remote, discardLogger())
	doc := &article.Document{Article: article.Article{Title: "Gone"}, Body: "body", FilePath: filepath.Join(t.TempDir(), "missing.md")}

	result, err := importer.ImportDocuments(context.Background(), []*article.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Published)
	assert.Empty(t, result.Errors)
}

func TestImportDocumentsRemoteErrors(t *testing.T) {
	doc := &article.Document{Article: article.Article{Title: "T"}, Body: "B", FilePath: "t.md"}

	importer := NewImporter(&fakeRemote{listErr: errors.New("down")}, discardLogger())
	_, err := importer.ImportDocuments(context.Background(), []*article.Document{doc})
	assert.Error(t, err)

	importer = NewImporter(&fakeRemote{publishErr: errors.New("refused")}, discardLogger())
	result, err := importer.ImportDocuments(context.Background(), []*article.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Published)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "refused")
}

func TestImportDocumentsCancelled(t *testing.T) {
	doc := &article.Document{Article: article.Article{Title: "T"}, Body: "B", FilePath: "t.md"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	remote := &fakeRemote{}
	_, err := NewImporter(remote, discardLogger()).ImportDocuments(ctx, []*article.Document{doc})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, remote.published)
}

func TestDryRunImportDocuments(t *testing.T) {
	docs := []*article.Document{
		{Article: article.Article{ID: 1, Title: "Known"}, Body: "x", FilePath: "known.md"},
		{Article: article.Article{Title: "Fresh"}, Body: "y", FilePath: "fresh.md"},
		{Article: article.Article{Title: "Blank"}, Body: "  ", FilePath: "blank.md"},
	}
	remote := &fakeRemote{articles: []article.Article{{ID: 1, Title: "Known"}}}

	var out bytes.Buffer
	result, err := NewImporter(remote, discardLogger()).DryRunImportDocuments(context.Background(), docs, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Published)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, "= known.md\n+ fresh.md\n", out.String())
	assert.Empty(t, remote.published)
}
