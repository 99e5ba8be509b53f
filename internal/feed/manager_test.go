package feed

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremoon/articlefeed/internal/article"
)

func newSeeded(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	seed, err := article.DefaultSeed()
	require.NoError(t, err)
	m, err := New(seed, opts...)
	require.NoError(t, err)
	return m
}

func ids(articles []article.Article) []int64 {
	result := make([]int64, 0, len(articles))
	for _, a := range articles {
		result = append(result, a.ID)
	}
	return result
}

type constantIDs struct{ id int64 }

func (c constantIDs) Next() int64 { return c.id }

func TestLike(t *testing.T) {
	m := newSeeded(t)
	before := m.Articles()

	liked, ok := m.Like(2)
	require.True(t, ok)
	assert.Equal(t, before[1].Likes+1, liked.Likes)

	after := m.Articles()
	assert.Equal(t, before[1].Likes+1, after[1].Likes)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])
}

func TestLikeUnknownArticle(t *testing.T) {
	m := newSeeded(t)
	before := m.Articles()

	_, ok := m.Like(999)
	assert.False(t, ok)
	assert.Equal(t, before, m.Articles())
}

func TestAddComment(t *testing.T) {
	m := newSeeded(t)
	before, _ := m.Find(1)

	c, ok := m.AddComment(1, "Согласна!")
	require.True(t, ok)
	assert.Equal(t, DefaultUserName, c.Author)
	assert.Equal(t, DefaultUserAvatar, c.Avatar)
	assert.Equal(t, DefaultJustNow, c.Date)
	assert.Equal(t, "Согласна!", c.Content)
	assert.Equal(t, int64(4), c.ID)

	after, _ := m.Find(1)
	require.Len(t, after.Comments, len(before.Comments)+1)
	assert.Equal(t, before.Comments, after.Comments[:len(before.Comments)])
	assert.Equal(t, c, after.Comments[len(after.Comments)-1])
}

func TestAddCommentIgnored(t *testing.T) {
	tests := []struct {
		name      string
		articleID int64
		text      string
	}{
		{name: "empty text", articleID: 1, text: ""},
		{name: "whitespace text", articleID: 1, text: "  \t\n"},
		{name: "unknown article", articleID: 42, text: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newSeeded(t)
			before := m.Articles()

			_, ok := m.AddComment(tt.articleID, tt.text)
			assert.False(t, ok)
			assert.Equal(t, before, m.Articles())
		})
	}
}

func TestPublish(t *testing.T) {
	m := newSeeded(t)
	m.SetDraft(article.Draft{Title: "t", Content: "c"})
	content := strings.Repeat("я", 1001)

	a, ok := m.Publish("Новая статья", content)
	require.True(t, ok)

	articles := m.Articles()
	require.Len(t, articles, 4)
	assert.Equal(t, a, articles[0])
	assert.Equal(t, []int64{a.ID, 1, 2, 3}, ids(articles))

	assert.Equal(t, int64(4), a.ID)
	assert.Equal(t, "Новая статья", a.Title)
	assert.Equal(t, 0, a.Likes)
	assert.Empty(t, a.Comments)
	assert.NotNil(t, a.Comments)
	assert.Equal(t, DefaultUserName, a.Author)
	assert.Equal(t, DefaultJustNow, a.Date)
	assert.Equal(t, "2 мин", a.ReadTime)
	assert.Equal(t, strings.Repeat("я", ExcerptLength)+ExcerptSuffix, a.Excerpt)
	assert.Empty(t, a.Image)

	assert.Equal(t, article.Draft{}, m.Draft())
}

func TestPublishShortContent(t *testing.T) {
	m := newSeeded(t)

	a, ok := m.Publish("Коротко", "Пара слов")
	require.True(t, ok)
	assert.Equal(t, "Пара слов...", a.Excerpt)
	assert.Equal(t, "1 мин", a.ReadTime)
}

func TestPublishIgnored(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
	}{
		{name: "empty title", title: "", content: "body"},
		{name: "blank title", title: "   ", content: "body"},
		{name: "empty content", title: "title", content: ""},
		{name: "blank content", title: "title", content: "\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newSeeded(t)
			draft := article.Draft{Title: tt.title, Content: tt.content}
			m.SetDraft(draft)
			before := m.Articles()

			_, ok := m.Publish(tt.title, tt.content)
			assert.False(t, ok)
			assert.Equal(t, before, m.Articles())
			assert.Equal(t, draft, m.Draft())
		})
	}
}

func TestPublishDraft(t *testing.T) {
	m := newSeeded(t)
	m.SetDraft(article.Draft{Title: "Из черновика", Content: "Текст"})

	a, ok := m.PublishDraft()
	require.True(t, ok)
	assert.Equal(t, "Из черновика", a.Title)
	assert.Equal(t, article.Draft{}, m.Draft())

	_, ok = m.PublishDraft()
	assert.False(t, ok)
	assert.Len(t, m.Articles(), 4)
}

func TestFilter(t *testing.T) {
	m := newSeeded(t)

	got := m.Filter("сад")
	assert.Equal(t, []int64{2}, ids(got))

	assert.Equal(t, []int64{2}, ids(m.Filter("САД")))
	assert.Equal(t, []int64{1, 2, 3}, ids(m.Filter("")))
	assert.Empty(t, m.Filter("no such words"))

	// matches on the excerpt too
	assert.Equal(t, []int64{3}, ids(m.Filter("выпечки")))
}

func TestFilterDoesNotMutate(t *testing.T) {
	m := newSeeded(t)
	got := m.Filter("")
	got[0].Likes = 1000
	got[0].Comments[0].Content = "changed"

	a, _ := m.Find(got[0].ID)
	assert.Equal(t, 42, a.Likes)
	assert.NotEqual(t, "changed", a.Comments[0].Content)
}

func TestFilterSeesNewArticles(t *testing.T) {
	m := newSeeded(t)
	_, ok := m.Publish("Мой сад", "Про яблони")
	require.True(t, ok)

	assert.Equal(t, []int64{4, 2}, ids(m.Filter("сад")))
}

func TestQueryAndVisible(t *testing.T) {
	m := newSeeded(t)
	assert.Len(t, m.Visible(), 3)

	m.SetQuery("хлеб")
	assert.Equal(t, "хлеб", m.Query())
	assert.Equal(t, []int64{3}, ids(m.Visible()))
	assert.Len(t, m.Articles(), 3)
}

func TestSubmitComment(t *testing.T) {
	m := newSeeded(t)

	m.SetCommentDraft("   ")
	_, ok := m.SubmitComment(3)
	assert.False(t, ok)
	assert.Equal(t, "   ", m.CommentDraft())

	m.SetCommentDraft("Попробую испечь")
	_, ok = m.SubmitComment(99)
	assert.False(t, ok)
	assert.Equal(t, "Попробую испечь", m.CommentDraft())

	c, ok := m.SubmitComment(3)
	require.True(t, ok)
	assert.Equal(t, "Попробую испечь", c.Content)
	assert.Empty(t, m.CommentDraft())

	a, _ := m.Find(3)
	assert.Equal(t, []article.Comment{c}, a.Comments)
}

func TestToggleSelected(t *testing.T) {
	m := newSeeded(t)

	_, ok := m.Selected()
	assert.False(t, ok)

	assert.True(t, m.ToggleSelected(1))
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.ID)

	assert.True(t, m.ToggleSelected(2))
	sel, _ = m.Selected()
	assert.Equal(t, int64(2), sel.ID)

	assert.False(t, m.ToggleSelected(404))
	sel, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.ID)

	assert.False(t, m.ToggleSelected(2))
	_, ok = m.Selected()
	assert.False(t, ok)
}

func TestSelectedReflectsNewComments(t *testing.T) {
	m := newSeeded(t)
	m.ToggleSelected(2)
	_, ok := m.AddComment(2, "ещё")
	require.True(t, ok)

	sel, _ := m.Selected()
	assert.Len(t, sel.Comments, 2)
}

func TestAuthored(t *testing.T) {
	m := newSeeded(t)
	assert.Empty(t, m.Authored())

	first, _ := m.Publish("Первая", "текст")
	second, _ := m.Publish("Вторая", "текст")

	assert.Equal(t, []int64{second.ID, first.ID}, ids(m.Authored()))
}

func TestWithIdentity(t *testing.T) {
	m := newSeeded(t, WithIdentity(Identity{Name: "Анна Смирнова", Avatar: "/me.jpg"}))

	assert.Equal(t, []int64{1}, ids(m.Authored()))

	c, _ := m.AddComment(2, "hi")
	assert.Equal(t, "Анна Смирнова", c.Author)
	assert.Equal(t, "/me.jpg", c.Avatar)
}

func TestWithLabels(t *testing.T) {
	m := newSeeded(t, WithLabels("just now", "min"))

	a, _ := m.Publish("t", "c")
	assert.Equal(t, "just now", a.Date)
	assert.Equal(t, "1 min", a.ReadTime)
}

func TestIDsStayUnique(t *testing.T) {
	m := newSeeded(t, WithArticleIDs(constantIDs{id: 2}), WithCommentIDs(constantIDs{id: 1}))

	seen := map[int64]bool{1: true, 2: true, 3: true}
	for i := 0; i < 5; i++ {
		a, ok := m.Publish("t", "c")
		require.True(t, ok)
		assert.False(t, seen[a.ID], "article id %d reused", a.ID)
		seen[a.ID] = true
	}

	commentIDs := map[int64]bool{1: true, 2: true, 3: true}
	for i := 0; i < 5; i++ {
		c, ok := m.AddComment(1, "x")
		require.True(t, ok)
		assert.False(t, commentIDs[c.ID], "comment id %d reused", c.ID)
		commentIDs[c.ID] = true
	}
}

func TestNewRejectsInvalidSeed(t *testing.T) {
	_, err := New([]article.Article{{ID: 1}, {ID: 1}})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = New([]article.Article{
		{ID: 1, Comments: []article.Comment{{ID: 5}}},
		{ID: 2, Comments: []article.Comment{{ID: 5}}},
	})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = New([]article.Article{{ID: 1, Likes: -1}})
	assert.ErrorIs(t, err, ErrNegativeLikes)
}

func TestNewCopiesSeed(t *testing.T) {
	seed := []article.Article{{ID: 1, Comments: []article.Comment{{ID: 1, Content: "a"}}}}
	m, err := New(seed)
	require.NoError(t, err)

	seed[0].Comments[0].Content = "b"
	a, _ := m.Find(1)
	assert.Equal(t, "a", a.Comments[0].Content)
}

func TestSubscribe(t *testing.T) {
	m := newSeeded(t)
	var events []Event
	m.Subscribe(func(ev Event) {
		events = append(events, ev)
		// observers run outside the lock
		m.Articles()
	})

	m.Like(1)
	m.Like(999)
	c, _ := m.AddComment(2, "hello")
	m.AddComment(2, "")
	a, _ := m.Publish("t", "c")
	m.Publish("", "c")

	assert.Equal(t, []Event{
		{Kind: EventLiked, ArticleID: 1},
		{Kind: EventCommented, ArticleID: 2, CommentID: c.ID},
		{Kind: EventPublished, ArticleID: a.ID},
	}, events)
}

func TestConcurrentLikes(t *testing.T) {
	m := newSeeded(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Like(3)
		}()
	}
	wg.Wait()

	a, _ := m.Find(3)
	assert.Equal(t, 35+50, a.Likes)
}

func TestSequence(t *testing.T) {
	s := NewSequence(0)
	assert.Equal(t, int64(1), s.Next())
	s.Observe(10)
	assert.Equal(t, int64(11), s.Next())
	s.Observe(3)
	assert.Equal(t, int64(12), s.Next())
}

func TestMatches(t *testing.T) {
	a := article.Article{Title: "Go Concurrency", Excerpt: "Channels and goroutines"}
	assert.True(t, Matches(a, "concurrency"))
	assert.True(t, Matches(a, "GOROUTINES"))
	assert.True(t, Matches(a, ""))
	assert.False(t, Matches(a, "rust"))
}
