package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleCitizen = "CITIZEN"
	RoleOfficer = "OFFICER"
	RoleAdmin   = "ADMIN"
)

// User is the slice of an account the core needs: the lifecycle service and
// the SLA sweep look up a complaint owner's contact address through it.
// Account management itself lives outside this module.
type User struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:text;not null" json:"name"`
	Email string `gorm:"type:text;uniqueIndex" json:"email"`
	Role  string `gorm:"type:text;not null" json:"role"`
	// TelegramChatID, when set, lets the notification worker deliver over
	// Telegram instead of email.
	TelegramChatID string `gorm:"type:text" json:"telegramChatId"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
