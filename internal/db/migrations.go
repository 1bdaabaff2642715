package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parking-service/internal/model"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS brands (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(64) NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_brands_name ON brands (name);`,
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		document_number VARCHAR(32) NOT NULL,
		email VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_clients_document_number ON clients (document_number);`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_document_number VARCHAR(32) NOT NULL,
		client_name VARCHAR(255) NOT NULL,
		client_email VARCHAR(255),
		patent VARCHAR(16) NOT NULL,
		vehicle_model VARCHAR(64) NOT NULL,
		brand_id UUID NOT NULL REFERENCES brands(id),
		check_in TIME NOT NULL,
		check_out TIME NOT NULL,
		date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		street VARCHAR(255) NOT NULL,
		street_height VARCHAR(16) NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_date ON tickets (date);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_patent ON tickets (patent);`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_client_document_number ON tickets (client_document_number);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_tickets_updated_at') THEN
			CREATE TRIGGER trg_tickets_updated_at
				BEFORE UPDATE ON tickets
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_clients_updated_at') THEN
			CREATE TRIGGER trg_clients_updated_at
				BEFORE UPDATE ON clients
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

var defaultBrands = []string{
	"Chevrolet",
	"Citroen",
	"Fiat",
	"Ford",
	"Honda",
	"Nissan",
	"Peugeot",
	"Renault",
	"Toyota",
	"Volkswagen",
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

func seedBrands(db *gorm.DB) error {
	brands := make([]model.Brand, 0, len(defaultBrands))
	for _, name := range defaultBrands {
		brands = append(brands, model.Brand{Name: name})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Omit("id").Create(&brands).Error
}
