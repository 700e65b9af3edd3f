package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxProposalResponseRunes bounds ProposalResponse.Message.
const MaxProposalResponseRunes = 100

// Proposal is a collaboration request posted by a user.
type Proposal struct {
	ID                  uint               `gorm:"primaryKey" json:"id"`
	UserID              uint               `gorm:"not null;index" json:"userId"`
	Description         string             `gorm:"type:text;not null" json:"description"`
	Details             string             `gorm:"type:text;not null" json:"details"`
	Deadline            time.Time          `gorm:"not null" json:"deadline"`
	TeamMembersRequired int                `gorm:"not null;default:1" json:"teamMembersRequired"`
	IsPaid              bool               `gorm:"not null;default:false" json:"isPaid"`
	Email               string             `gorm:"not null" json:"email"`
	Responses           []ProposalResponse `gorm:"foreignKey:ProposalID" json:"responses,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
	DeletedAt           gorm.DeletedAt     `gorm:"index" json:"-"`
}

// ProposalResponse is an append-only reply to a proposal. UserID is set
// when the responder was signed in.
type ProposalResponse struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProposalID uint      `gorm:"not null;index" json:"proposalId"`
	UserID     *uint     `gorm:"index" json:"userId,omitempty"`
	Phone      string    `gorm:"not null" json:"phone"`
	Message    string    `gorm:"size:400;not null" json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}
