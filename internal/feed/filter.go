package feed

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/theoremoon/articlefeed/internal/article"
)

// matcher holds a folded query. A Caser keeps state between calls, so a
// matcher must not be shared between goroutines.
type matcher struct {
	fold  cases.Caser
	query string
}

func newMatcher(query string) matcher {
	fold := cases.Fold()
	return matcher{fold: fold, query: fold.String(query)}
}

func (m matcher) match(a article.Article) bool {
	if m.query == "" {
		return true
	}
	return strings.Contains(m.fold.String(a.Title), m.query) ||
		strings.Contains(m.fold.String(a.Excerpt), m.query)
}

// Matches reports whether query occurs in the article's title or excerpt,
// ignoring case. The empty query matches everything.
func Matches(a article.Article, query string) bool {
	return newMatcher(query).match(a)
}

func filterArticles(articles []article.Article, query string) []article.Article {
	m := newMatcher(query)

	result := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if m.match(a) {
			result = append(result, a.Clone())
		}
	}
	return result
}
