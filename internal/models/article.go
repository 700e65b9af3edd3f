package models

import (
	"time"

	"gorm.io/gorm"
)

// Article is a published piece of rich HTML content. Author holds the
// creator's username.
type Article struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Author       string         `gorm:"not null;index" json:"author"`
	Thumbnail    string         `json:"thumbnail"`
	Viewed       int64          `gorm:"not null;default:0" json:"viewed"`
	Reported     bool           `gorm:"not null;default:false" json:"reported"`
	ReportReason string         `json:"reportReason,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TrendingArticle is the reduced projection returned by the trending query.
type TrendingArticle struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Thumbnail string    `json:"thumbnail"`
	Viewed    int64     `json:"viewed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a reader comment on an article.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;index" json:"articleId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
