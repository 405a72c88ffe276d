package models

import "time"

// Article statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ValidStatus reports whether status is a known article status.
func ValidStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}

// Article is an authored content item. AuthorID always comes from the
// resolved identity of the creating request, never from client input.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	Cover     string    `json:"cover,omitempty"`
	Status    string    `json:"status"`
	ViewCount int64     `json:"view_count"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArticlePatch carries optional field updates for an article. Nil fields are
// left untouched.
type ArticlePatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Summary *string `json:"summary"`
	Cover   *string `json:"cover"`
	Status  *string `json:"status"`
}
