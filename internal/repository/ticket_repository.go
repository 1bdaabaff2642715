package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/model"
)

// ErrStaleRecord is returned by Update when no row matched the id and
// version pair.
var ErrStaleRecord = errors.New("ticket was modified or removed")

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) List(ctx context.Context) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Order("tickets.date DESC").
		Preload("Brand").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Preload("Brand").
		First(&ticket, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithClient stores the ticket and upserts the client it was issued to
// in a single transaction.
func (r *TicketRepository) CreateWithClient(ctx context.Context, ticket *model.Ticket, client *model.Client) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		return upsertClient(tx, client).Error
	})
}

// Update overwrites every editable column of the ticket, guarded by its
// version. A zero Date leaves the stored date untouched.
func (r *TicketRepository) Update(ctx context.Context, ticket *model.Ticket) error {
	result := updateTicket(r.db.WithContext(ctx), ticket)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleRecord
	}
	ticket.Version++
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := deleteTicket(r.db.WithContext(ctx), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func updateTicket(tx *gorm.DB, ticket *model.Ticket) *gorm.DB {
	data := map[string]interface{}{
		"client_document_number": ticket.ClientDocumentNumber,
		"client_name":            ticket.ClientName,
		"client_email":           ticket.ClientEmail,
		"patent":                 ticket.Patent,
		"vehicle_model":          ticket.VehicleModel,
		"brand_id":               ticket.BrandID,
		"check_in":               ticket.CheckIn,
		"check_out":              ticket.CheckOut,
		"street":                 ticket.Street,
		"street_height":          ticket.StreetHeight,
		"version":                gorm.Expr("version + 1"),
	}
	if !ticket.Date.IsZero() {
		data["date"] = ticket.Date
	}

	return tx.Model(&model.Ticket{}).
		Where("id = ? AND version = ?", ticket.ID, ticket.Version).
		Updates(data)
}

func deleteTicket(tx *gorm.DB, id uuid.UUID) *gorm.DB {
	return tx.Where("id = ?", id).Delete(&model.Ticket{})
}
