package models

import (
	"time"
)

type AdminUser struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
