package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ticket struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ClientDocumentNumber string    `gorm:"type:varchar(32);not null" json:"client_document_number"`
	ClientName           string    `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientEmail          string    `gorm:"type:varchar(255)" json:"client_email"`
	Patent               string    `gorm:"type:varchar(16);not null" json:"patent"`
	VehicleModel         string    `gorm:"type:varchar(64);not null" json:"vehicle_model"`
	BrandID              uuid.UUID `gorm:"type:uuid;not null" json:"brand_id"`
	CheckIn              TimeOfDay `gorm:"type:time;not null" json:"check_in"`
	CheckOut             TimeOfDay `gorm:"type:time;not null" json:"check_out"`
	Date                 time.Time `gorm:"not null" json:"date"`
	Street               string    `gorm:"type:varchar(255);not null" json:"street"`
	StreetHeight         string    `gorm:"type:varchar(16);not null" json:"street_height"`
	Version              int       `gorm:"not null;default:1" json:"version"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Brand *Brand `gorm:"foreignKey:BrandID" json:"-"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BrandName is empty when the brand row is missing or was not preloaded.
func (t Ticket) BrandName() string {
	if t.Brand == nil {
		return ""
	}
	return t.Brand.Name
}
