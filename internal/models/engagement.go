package models

import "time"

// Contributor is an application to write for the platform.
type Contributor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Reason    string    `gorm:"type:text;not null" json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscriber is a newsletter address.
type Subscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is an admin broadcast shown to every user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	ViewedBy  []uint    `gorm:"-" json:"viewedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationView records that a user has seen a notification.
type NotificationView struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	NotificationID uint      `gorm:"not null;uniqueIndex:idx_notification_view" json:"notificationId"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_notification_view" json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OTP is the single pending verification code for an email address.
type OTP struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the pluralized default ("o_t_ps").
func (OTP) TableName() string { return "otps" }
