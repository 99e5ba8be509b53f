package feed

type EventKind string

const (
	EventLiked     EventKind = "liked"
	EventCommented EventKind = "commented"
	EventPublished EventKind = "published"
)

// Event describes a mutation that was applied to the feed. CommentID is set
// for EventCommented only.
type Event struct {
	Kind      EventKind
	ArticleID int64
	CommentID int64
}

type Observer func(Event)
