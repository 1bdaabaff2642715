package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	DocumentNumber string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"document_number"`
	Email          string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ClientFromTicket derives the client record a ticket submission implies.
func ClientFromTicket(t Ticket) Client {
	return Client{
		Name:           t.ClientName,
		DocumentNumber: t.ClientDocumentNumber,
		Email:          t.ClientEmail,
	}
}
