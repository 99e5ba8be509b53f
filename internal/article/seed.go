package article

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed seed/*.md
var seedFiles embed.FS

// DefaultSeed returns the articles shipped with the binary, in display order.
func DefaultSeed() ([]Article, error) {
	sub, err := fs.Sub(seedFiles, "seed")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded seed: %w", err)
	}

	docs, err := LoadDocumentsFS(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded seed: %w", err)
	}

	return Articles(docs), nil
}

// LoadSeedDir reads seed articles from markdown files under dir. Files are
// taken in lexical path order.
func LoadSeedDir(dir string) ([]Article, error) {
	docs, err := LoadDocumentsFromDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed from %s: %w", dir, err)
	}

	return Articles(docs), nil
}

func Articles(docs []*Document) []Article {
	articles := make([]Article, 0, len(docs))
	for _, doc := range docs {
		articles = append(articles, doc.ToArticle())
	}
	return articles
}
