package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/theoremoon/articlefeed/internal/article"
	"github.com/theoremoon/articlefeed/internal/atom"
	"github.com/theoremoon/articlefeed/internal/feed"
)

const FeedTitle = "Лента"

// Handler exposes a feed over HTTP. Operations that change nothing answer
// 204 No Content; only malformed requests are errors.
type Handler struct {
	feed feed.Feed
}

func NewHandler(f feed.Feed) *Handler {
	return &Handler{feed: f}
}

type PublishRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

type SelectionResponse struct {
	Selected bool `json:"selected"`
}

func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/articles", h.ListArticles)
	api.POST("/articles", h.Publish)
	api.GET("/articles/mine", h.ListAuthored)
	api.GET("/articles/:id", h.GetArticle)
	api.POST("/articles/:id/like", h.Like)
	api.POST("/articles/:id/comments", h.AddComment)
	api.POST("/articles/:id/comment-draft/submit", h.SubmitComment)
	api.POST("/articles/:id/select", h.ToggleSelected)

	api.GET("/selected", h.GetSelected)
	api.GET("/query", h.GetQuery)
	api.PUT("/query", h.SetQuery)
	api.GET("/visible", h.ListVisible)

	api.GET("/draft", h.GetDraft)
	api.PUT("/draft", h.SetDraft)
	api.POST("/draft/publish", h.PublishDraft)

	api.GET("/comment-draft", h.GetCommentDraft)
	api.PUT("/comment-draft", h.SetCommentDraft)

	e.GET("/feed.atom", h.Atom)
	e.GET("/healthz", h.Health)
}

func articleID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid article id")
	}
	return id, nil
}

func (h *Handler) ListArticles(c echo.Context) error {
	return c.JSON(http.StatusOK, h.feed.Filter(c.QueryParam("q")))
}

func (h *Handler) ListAuthored(c echo.Context) error {
	return c.JSON(http.StatusOK, h.feed.Authored())
}

func (h *Handler) ListVisible(c echo.Context) error {
	return c.JSON(http.StatusOK, h.feed.Visible())
}

func (h *Handler) GetArticle(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}
	a, ok := h.feed.Find(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "article not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Publish(c echo.Context) error {
	var req PublishRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	a, ok := h.feed.Publish(req.Title, req.Content)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Like(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}
	a, ok := h.feed.Like(id)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) AddComment(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	comment, ok := h.feed.AddComment(id, req.Text)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) SubmitComment(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}
	comment, ok := h.feed.SubmitComment(id)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) ToggleSelected(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SelectionResponse{Selected: h.feed.ToggleSelected(id)})
}

func (h *Handler) GetSelected(c echo.Context) error {
	a, ok := h.feed.Selected()
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) GetQuery(c echo.Context) error {
	return c.JSON(http.StatusOK, QueryRequest{Query: h.feed.Query()})
}

func (h *Handler) SetQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	h.feed.SetQuery(req.Query)
	return c.JSON(http.StatusOK, h.feed.Visible())
}

func (h *Handler) GetDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, h.feed.Draft())
}

func (h *Handler) SetDraft(c echo.Context) error {
	var draft article.Draft
	if err := c.Bind(&draft); err != nil {
		return err
	}
	h.feed.SetDraft(draft)
	return c.JSON(http.StatusOK, h.feed.Draft())
}

func (h *Handler) PublishDraft(c echo.Context) error {
	a, ok := h.feed.PublishDraft()
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetCommentDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, CommentRequest{Text: h.feed.CommentDraft()})
}

func (h *Handler) SetCommentDraft(c echo.Context) error {
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	h.feed.SetCommentDraft(req.Text)
	return c.JSON(http.StatusOK, CommentRequest{Text: h.feed.CommentDraft()})
}

func (h *Handler) Atom(c echo.Context) error {
	self := c.Scheme() + "://" + c.Request().Host + c.Request().URL.RequestURI()
	data, err := atom.Render(FeedTitle, self, h.feed.Filter(c.QueryParam("q")))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, atom.MediaType, data)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
