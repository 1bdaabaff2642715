package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parking-service/internal/model"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) List(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := r.db.WithContext(ctx).
		Model(&model.Client{}).
		Order("name ASC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) GetByDocumentNumber(ctx context.Context, documentNumber string) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).
		Model(&model.Client{}).
		First(&client, "document_number = ?", documentNumber).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// upsertClient keys clients by document number; a later submission refreshes
// the name and email on file.
func upsertClient(tx *gorm.DB, client *model.Client) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
	}).Create(client)
}
