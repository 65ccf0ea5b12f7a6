package domain

// Comment is a reply on a post. Like state follows the same rules as posts.
type Comment struct {
	Timestamps
	ID        string `json:"id"`
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	LikeCount int    `json:"like_count"`
}

// OwnedBy reports whether userID wrote the comment.
func (c *Comment) OwnedBy(userID string) bool {
	return c.UserID == userID
}
