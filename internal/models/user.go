// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered reader/author.
type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"uniqueIndex;not null" json:"name"`
	Username          string         `gorm:"uniqueIndex;not null" json:"username"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	Password          string         `gorm:"not null" json:"-"`
	IsVerified        bool           `gorm:"default:false" json:"isVerified"`
	InterestedDomains []string       `gorm:"serializer:json;type:text" json:"interestedDomains"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// Bookmark links a user to a saved article. The pair is unique.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_article" json:"userId"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_article;index" json:"articleId"`
	Article   *Article  `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminCredential is the single admin login. It is provisioned out of band
// (bootstrap or cmd/admin), never through the public API.
type AdminCredential struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
