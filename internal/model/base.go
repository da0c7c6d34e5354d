package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// swagger:model
type UUIDBase struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *UUIDBase) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

func GenerateUUID() string {
	return uuid.New().String()
}

// UserLock 每个用户一行，用于在事务内串行化同一用户的容量检查
type UserLock struct {
	UserID    string `gorm:"primaryKey;type:varchar(64)"`
	UpdatedAt time.Time
}

func (UserLock) TableName() string {
	return "user_locks"
}
