package model

import "time"

const (
	PrivilegeStandard = "standard"
	PrivilegeAdmin    = "admin"
)

type User struct {
	ID             int64     `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username       string    `gorm:"uniqueIndex;not null;size:255" json:"username"`
	Email          string    `gorm:"size:255" json:"email"`
	HashedPassword string    `gorm:"not null;size:255" json:"-"`
	Name           string    `gorm:"size:255" json:"name"`
	PrivilegeLevel string    `gorm:"not null;size:20;default:'standard'" json:"privilege_level"`
	CreatedAt      time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
