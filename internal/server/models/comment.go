package models

import "time"

// Comment is a reply on an article. ParentID, when set, references another
// comment on the same article; nil means top-level. Comments on an article
// form a forest queried one level deep.
type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	UserID    string    `json:"user_id"`
	ParentID  *string   `json:"parent_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentThread is a top-level comment with its direct replies attached.
// Replies are not recursed further; one level is the documented depth limit.
type CommentThread struct {
	Comment
	Replies []*Comment `json:"replies"`
}
