package article

type Article struct {
	ID       int64     `json:"id" yaml:"id,omitempty"`
	Title    string    `json:"title" yaml:"title"`
	Excerpt  string    `json:"excerpt" yaml:"-"`
	Author   string    `json:"author" yaml:"author,omitempty"`
	Avatar   string    `json:"avatar" yaml:"avatar,omitempty"`
	Date     string    `json:"date" yaml:"date,omitempty"`
	ReadTime string    `json:"readTime" yaml:"read_time,omitempty"`
	Likes    int       `json:"likes" yaml:"likes,omitempty"`
	Comments []Comment `json:"comments" yaml:"comments,omitempty"`
	Image    string    `json:"image,omitempty" yaml:"image,omitempty"`
}

type Comment struct {
	ID      int64  `json:"id" yaml:"id"`
	Author  string `json:"author" yaml:"author"`
	Avatar  string `json:"avatar" yaml:"avatar,omitempty"`
	Content string `json:"content" yaml:"content"`
	Date    string `json:"date" yaml:"date,omitempty"`
}

// Draft is an article being composed. It is never stored in the feed.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Document is a markdown file with YAML frontmatter. Seed files carry the full
// article metadata; import files usually carry only a title.
type Document struct {
	Article  `yaml:",inline"`
	Body     string `yaml:"-"`
	FilePath string `yaml:"-"`
}

// ToArticle returns the article described by the document, with the body as
// its excerpt.
func (d *Document) ToArticle() Article {
	a := d.Article.Clone()
	a.Excerpt = d.Body
	return a
}

// Clone returns a copy that shares no comment storage with a.
func (a Article) Clone() Article {
	if a.Comments != nil {
		comments := make([]Comment, len(a.Comments))
		copy(comments, a.Comments)
		a.Comments = comments
	}
	return a
}
