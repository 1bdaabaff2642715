package model

import "github.com/google/uuid"

type Brand struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name string    `gorm:"type:varchar(64);not null" json:"name"`
}

func (Brand) TableName() string {
	return "brands"
}
