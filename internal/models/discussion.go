package models

import "time"

// Discussion is a community thread started by a user.
type Discussion struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Body      string `gorm:"type:text;not null" json:"body"`
	AuthorID  uint   `gorm:"not null;index" json:"authorId"`
	Author    User   `gorm:"foreignKey:AuthorID" json:"author"`
	// CommentsCount is computed at query time.
	CommentsCount int                 `gorm:"->;-:migration" json:"commentsCount"`
	Comments      []DiscussionComment `gorm:"foreignKey:DiscussionID" json:"comments,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// DiscussionComment is a top-level comment inside a discussion.
type DiscussionComment struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	DiscussionID uint              `gorm:"not null;index" json:"discussionId"`
	Body         string            `gorm:"type:text;not null" json:"body"`
	AuthorID     uint              `gorm:"not null" json:"authorId"`
	Author       User              `gorm:"foreignKey:AuthorID" json:"author"`
	Replies      []DiscussionReply `gorm:"foreignKey:CommentID" json:"replies"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// DiscussionReply answers a DiscussionComment. Replies do not nest.
type DiscussionReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;index" json:"commentId"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	AuthorID  uint      `gorm:"not null" json:"authorId"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}
