package models

// KnowledgeArticle is a knowledge base article. Content is markdown.
type KnowledgeArticle struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Category  string    `json:"category" yaml:"category"`
	Views     int       `json:"views" yaml:"views"`
	AuthorID  string    `json:"authorId" yaml:"authorId"`
	Published bool      `json:"published" yaml:"published"`
	CreatedAt Timestamp `json:"createdAt" yaml:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt" yaml:"updatedAt"`
}

// GetID returns the article id.
func (a KnowledgeArticle) GetID() string { return a.ID }

// Category is a knowledge base category with its article count. The join
// to articles is by name only.
type Category struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// ArticleListOptions carries the query filters for listing articles.
type ArticleListOptions struct {
	Category  string
	Search    string
	Published *bool
	Page      int
	Limit     int
}

// ArticleCreateRequest is the payload for creating an article.
type ArticleCreateRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Published *bool  `json:"published,omitempty"`
}

// ArticleUpdateRequest is the partial payload for updating an article.
type ArticleUpdateRequest struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Category  *string `json:"category,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// ArticleListResponse is the list envelope for articles.
type ArticleListResponse struct {
	Data       []KnowledgeArticle `json:"data"`
	Pagination *Pagination        `json:"pagination,omitempty"`
}

// CategoryListResponse is the envelope for category counts.
type CategoryListResponse struct {
	Data []Category `json:"data"`
}
