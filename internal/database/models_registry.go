package database

import "inkwell/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.AdminCredential{},
		&models.Article{},
		&models.Comment{},
		&models.Bookmark{},
		&models.Discussion{},
		&models.DiscussionComment{},
		&models.DiscussionReply{},
		&models.Proposal{},
		&models.ProposalResponse{},
		&models.Contributor{},
		&models.Subscriber{},
		&models.Notification{},
		&models.NotificationView{},
		&models.OTP{},
	}
}
