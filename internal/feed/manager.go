// Package feed holds the in-memory state of the article feed and the
// operations that change it. Invalid input never produces an error: the
// operation is skipped and reported as not applied.
package feed

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/theoremoon/articlefeed/internal/article"
)

const (
	DefaultUserName   = "Вы"
	DefaultUserAvatar = "/placeholder.svg"
	DefaultJustNow    = "только что"
	DefaultMinutes    = "мин"

	ExcerptLength = 150
	ExcerptSuffix = "..."

	charsPerMinute = 1000

	// maxDraws bounds how often a generator may repeat a used id before the
	// manager picks one itself.
	maxDraws = 64
)

var (
	ErrDuplicateID   = errors.New("duplicate id")
	ErrNegativeLikes = errors.New("negative like count")
)

// Identity is the display name and avatar attached to everything the current
// user writes.
type Identity struct {
	Name   string
	Avatar string
}

// Feed is what the presentation layer needs from the feed state.
type Feed interface {
	Articles() []article.Article
	Authored() []article.Article
	Find(articleID int64) (article.Article, bool)
	Filter(query string) []article.Article

	Query() string
	SetQuery(query string)
	Visible() []article.Article

	Like(articleID int64) (article.Article, bool)
	AddComment(articleID int64, text string) (article.Comment, bool)
	Publish(title, content string) (article.Article, bool)

	Draft() article.Draft
	SetDraft(draft article.Draft)
	PublishDraft() (article.Article, bool)

	CommentDraft() string
	SetCommentDraft(text string)
	SubmitComment(articleID int64) (article.Comment, bool)

	ToggleSelected(articleID int64) bool
	Selected() (article.Article, bool)

	Subscribe(o Observer)
}

type Option func(*Manager)

func WithIdentity(id Identity) Option {
	return func(m *Manager) {
		m.identity = id
	}
}

func WithArticleIDs(gen IDGenerator) Option {
	return func(m *Manager) {
		m.articleIDGen = gen
	}
}

func WithCommentIDs(gen IDGenerator) Option {
	return func(m *Manager) {
		m.commentIDGen = gen
	}
}

// WithLabels sets the display date given to new posts and comments and the
// unit appended to read times.
func WithLabels(justNow, minutes string) Option {
	return func(m *Manager) {
		m.justNow = justNow
		m.minutes = minutes
	}
}

// Manager owns the feed state. Every operation takes the lock for its whole
// run, so operations never interleave.
type Manager struct {
	mu sync.Mutex

	articles   []article.Article
	articleIDs map[int64]struct{}
	commentIDs map[int64]struct{}

	articleIDGen IDGenerator
	commentIDGen IDGenerator

	identity Identity
	justNow  string
	minutes  string

	query        string
	draft        article.Draft
	commentDraft string
	selected     int64
	hasSelected  bool

	observers []Observer
}

var _ Feed = (*Manager)(nil)

// New builds a manager holding seed in the given order. Seed ids must be
// unique and like counts non-negative.
func New(seed []article.Article, opts ...Option) (*Manager, error) {
	m := &Manager{
		articles:   make([]article.Article, 0, len(seed)),
		articleIDs: make(map[int64]struct{}, len(seed)),
		commentIDs: make(map[int64]struct{}),
		identity:   Identity{Name: DefaultUserName, Avatar: DefaultUserAvatar},
		justNow:    DefaultJustNow,
		minutes:    DefaultMinutes,
	}

	var maxArticleID, maxCommentID int64
	for _, a := range seed {
		if _, ok := m.articleIDs[a.ID]; ok {
			return nil, fmt.Errorf("article %d: %w", a.ID, ErrDuplicateID)
		}
		if a.Likes < 0 {
			return nil, fmt.Errorf("article %d: %w", a.ID, ErrNegativeLikes)
		}
		m.articleIDs[a.ID] = struct{}{}
		maxArticleID = max(maxArticleID, a.ID)

		for _, c := range a.Comments {
			if _, ok := m.commentIDs[c.ID]; ok {
				return nil, fmt.Errorf("comment %d on article %d: %w", c.ID, a.ID, ErrDuplicateID)
			}
			m.commentIDs[c.ID] = struct{}{}
			maxCommentID = max(maxCommentID, c.ID)
		}

		a = a.Clone()
		if a.Comments == nil {
			a.Comments = []article.Comment{}
		}
		m.articles = append(m.articles, a)
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.articleIDGen == nil {
		m.articleIDGen = NewSequence(maxArticleID)
	}
	if m.commentIDGen == nil {
		m.commentIDGen = NewSequence(maxCommentID)
	}

	return m, nil
}

func (m *Manager) Subscribe(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// apply runs fn under the lock and, when it reports a change, passes the
// event to the observers after the lock is released.
func (m *Manager) apply(fn func() (Event, bool)) bool {
	ev, ok, observers := m.locked(fn)
	if ok {
		for _, o := range observers {
			o(ev)
		}
	}
	return ok
}

func (m *Manager) locked(fn func() (Event, bool)) (Event, bool, []Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := fn()
	return ev, ok, m.observers
}

func (m *Manager) index(articleID int64) int {
	for i := range m.articles {
		if m.articles[i].ID == articleID {
			return i
		}
	}
	return -1
}

func freshID(gen IDGenerator, used map[int64]struct{}) int64 {
	for i := 0; i < maxDraws; i++ {
		id := gen.Next()
		if _, ok := used[id]; !ok {
			used[id] = struct{}{}
			return id
		}
	}

	var id int64
	for taken := range used {
		id = max(id, taken)
	}
	id++
	used[id] = struct{}{}
	return id
}

func (m *Manager) Articles() []article.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterArticles(m.articles, "")
}

// Authored returns the articles written by the current user, newest first.
func (m *Manager) Authored() []article.Article {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]article.Article, 0)
	for _, a := range m.articles {
		if a.Author == m.identity.Name {
			result = append(result, a.Clone())
		}
	}
	return result
}

func (m *Manager) Find(articleID int64) (article.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(articleID)
	if i < 0 {
		return article.Article{}, false
	}
	return m.articles[i].Clone(), true
}

func (m *Manager) Filter(query string) []article.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterArticles(m.articles, query)
}

func (m *Manager) Query() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.query
}

func (m *Manager) SetQuery(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.query = query
}

// Visible is the feed as filtered by the current query.
func (m *Manager) Visible() []article.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterArticles(m.articles, m.query)
}

func (m *Manager) Like(articleID int64) (article.Article, bool) {
	var liked article.Article
	ok := m.apply(func() (Event, bool) {
		i := m.index(articleID)
		if i < 0 {
			return Event{}, false
		}
		m.articles[i].Likes++
		liked = m.articles[i].Clone()
		return Event{Kind: EventLiked, ArticleID: articleID}, true
	})
	return liked, ok
}

func (m *Manager) AddComment(articleID int64, text string) (article.Comment, bool) {
	var added article.Comment
	ok := m.apply(func() (Event, bool) {
		c, ok := m.addComment(articleID, text)
		if !ok {
			return Event{}, false
		}
		added = c
		return Event{Kind: EventCommented, ArticleID: articleID, CommentID: c.ID}, true
	})
	return added, ok
}

func (m *Manager) addComment(articleID int64, text string) (article.Comment, bool) {
	if strings.TrimSpace(text) == "" {
		return article.Comment{}, false
	}
	i := m.index(articleID)
	if i < 0 {
		return article.Comment{}, false
	}

	c := article.Comment{
		ID:      freshID(m.commentIDGen, m.commentIDs),
		Author:  m.identity.Name,
		Avatar:  m.identity.Avatar,
		Content: text,
		Date:    m.justNow,
	}
	m.articles[i].Comments = append(m.articles[i].Comments, c)
	return c, true
}

func (m *Manager) Publish(title, content string) (article.Article, bool) {
	var published article.Article
	ok := m.apply(func() (Event, bool) {
		a, ok := m.publish(title, content)
		if !ok {
			return Event{}, false
		}
		published = a
		return Event{Kind: EventPublished, ArticleID: a.ID}, true
	})
	return published, ok
}

func (m *Manager) publish(title, content string) (article.Article, bool) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return article.Article{}, false
	}

	a := article.Article{
		ID:       freshID(m.articleIDGen, m.articleIDs),
		Title:    title,
		Excerpt:  Excerpt(content),
		Author:   m.identity.Name,
		Avatar:   m.identity.Avatar,
		Date:     m.justNow,
		ReadTime: fmt.Sprintf("%d %s", ReadMinutes(content), m.minutes),
		Likes:    0,
		Comments: []article.Comment{},
	}

	m.articles = append([]article.Article{a}, m.articles...)
	m.draft = article.Draft{}
	return a.Clone(), true
}

// Excerpt is the first ExcerptLength characters of content followed by
// ExcerptSuffix. The suffix is added even when nothing was cut.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + ExcerptSuffix
}

// ReadMinutes estimates reading time at charsPerMinute characters a minute,
// rounded up.
func ReadMinutes(content string) int {
	n := len([]rune(content))
	return (n + charsPerMinute - 1) / charsPerMinute
}

func (m *Manager) Draft() article.Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

func (m *Manager) SetDraft(draft article.Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = draft
}

func (m *Manager) PublishDraft() (article.Article, bool) {
	var published article.Article
	ok := m.apply(func() (Event, bool) {
		a, ok := m.publish(m.draft.Title, m.draft.Content)
		if !ok {
			return Event{}, false
		}
		published = a
		return Event{Kind: EventPublished, ArticleID: a.ID}, true
	})
	return published, ok
}

func (m *Manager) CommentDraft() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commentDraft
}

func (m *Manager) SetCommentDraft(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commentDraft = text
}

// SubmitComment adds the comment draft to the article and clears the draft.
// The draft is kept when nothing was added.
func (m *Manager) SubmitComment(articleID int64) (article.Comment, bool) {
	var added article.Comment
	ok := m.apply(func() (Event, bool) {
		c, ok := m.addComment(articleID, m.commentDraft)
		if !ok {
			return Event{}, false
		}
		m.commentDraft = ""
		added = c
		return Event{Kind: EventCommented, ArticleID: articleID, CommentID: c.ID}, true
	})
	return added, ok
}

// ToggleSelected selects the article whose comments are expanded, or clears
// the selection if it is already selected. Unknown ids leave the selection
// alone. It reports whether articleID is selected afterwards.
func (m *Manager) ToggleSelected(articleID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasSelected && m.selected == articleID {
		m.hasSelected = false
		m.selected = 0
		return false
	}
	if m.index(articleID) < 0 {
		return false
	}
	m.selected = articleID
	m.hasSelected = true
	return true
}

func (m *Manager) Selected() (article.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasSelected {
		return article.Article{}, false
	}
	i := m.index(m.selected)
	if i < 0 {
		return article.Article{}, false
	}
	return m.articles[i].Clone(), true
}
