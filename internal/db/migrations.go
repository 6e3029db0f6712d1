package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(200) NOT NULL,
		nip VARCHAR(16),
		email VARCHAR(200),
		phone VARCHAR(32),
		address VARCHAR(300)
	);`,
	`CREATE TABLE IF NOT EXISTS subcontractors (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(200) NOT NULL,
		nip VARCHAR(16),
		email VARCHAR(200),
		phone VARCHAR(32),
		address VARCHAR(300)
	);`,
	`CREATE TABLE IF NOT EXISTS labor_types (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS library_positions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(300) NOT NULL,
		unit VARCHAR(16) NOT NULL,
		default_labor_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		category_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS library_material_components (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		library_position_id UUID NOT NULL REFERENCES library_positions(id),
		lp INT NOT NULL DEFAULT 0,
		name VARCHAR(300) NOT NULL,
		unit VARCHAR(16) NOT NULL,
		norma NUMERIC(18,4) NOT NULL,
		default_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		product_id UUID
	);`,
	`CREATE TABLE IF NOT EXISTS library_labor_components (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		library_position_id UUID NOT NULL REFERENCES library_positions(id),
		lp INT NOT NULL DEFAULT 0,
		description VARCHAR(300) NOT NULL,
		labor_type_id UUID REFERENCES labor_types(id),
		default_rate NUMERIC(18,2) NOT NULL DEFAULT 0,
		norma NUMERIC(18,4) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS supplier_prices (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		supplier_id UUID NOT NULL REFERENCES suppliers(id),
		product_id UUID NOT NULL,
		price NUMERIC(18,2) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_supplier_price_product ON supplier_prices (product_id, supplier_id);`,
	`CREATE TABLE IF NOT EXISTS subcontractor_rates (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		subcontractor_id UUID NOT NULL REFERENCES subcontractors(id),
		library_position_id UUID NOT NULL REFERENCES library_positions(id),
		rate NUMERIC(18,2) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sub_rate_position ON subcontractor_rates (library_position_id, subcontractor_id);`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(200) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		accepted_revision_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS revisions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		number INT NOT NULL,
		name VARCHAR(200),
		is_locked BOOLEAN NOT NULL DEFAULT FALSE,
		locked_at TIMESTAMPTZ,
		is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
		accepted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_revision_number ON revisions (project_id, number);`,
	`CREATE TABLE IF NOT EXISTS cost_positions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		revision_id UUID NOT NULL REFERENCES revisions(id),
		library_position_id UUID REFERENCES library_positions(id),
		lp INT NOT NULL DEFAULT 0,
		name VARCHAR(300) NOT NULL,
		unit VARCHAR(16) NOT NULL,
		quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
		markup_percent NUMERIC(7,2) NOT NULL DEFAULT 0,
		labor_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		labor_price_source NUMERIC(18,2) NOT NULL DEFAULT 0,
		labor_source_kind VARCHAR(16) NOT NULL DEFAULT 'manual',
		labor_subcontractor_id UUID REFERENCES subcontractors(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_cost_position_revision ON cost_positions (revision_id);`,
	`CREATE TABLE IF NOT EXISTS material_components (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		position_id UUID NOT NULL REFERENCES cost_positions(id) ON DELETE CASCADE,
		lp INT NOT NULL DEFAULT 0,
		name VARCHAR(300) NOT NULL,
		unit VARCHAR(16) NOT NULL,
		norma NUMERIC(18,4) NOT NULL DEFAULT 0,
		price NUMERIC(18,2) NOT NULL DEFAULT 0,
		source_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		source_kind VARCHAR(16) NOT NULL DEFAULT 'manual',
		product_id UUID,
		supplier_id UUID REFERENCES suppliers(id),
		is_manual BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_material_component_position ON material_components (position_id);`,
	`CREATE TABLE IF NOT EXISTS labor_components (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		position_id UUID NOT NULL REFERENCES cost_positions(id) ON DELETE CASCADE,
		lp INT NOT NULL DEFAULT 0,
		description VARCHAR(300) NOT NULL,
		labor_type_id UUID REFERENCES labor_types(id),
		subcontractor_id UUID REFERENCES subcontractors(id),
		rate NUMERIC(18,2) NOT NULL DEFAULT 0,
		norma NUMERIC(18,4) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_labor_component_position ON labor_components (position_id);`,
	`CREATE TABLE IF NOT EXISTS agreements (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		revision_id UUID NOT NULL REFERENCES revisions(id),
		subcontractor_id UUID NOT NULL REFERENCES subcontractors(id),
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_agreement_revision ON agreements (revision_id);`,
	`CREATE TABLE IF NOT EXISTS agreement_lines (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		agreement_id UUID NOT NULL REFERENCES agreements(id) ON DELETE CASCADE,
		lp INT NOT NULL DEFAULT 0,
		name VARCHAR(300) NOT NULL,
		quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
		rate NUMERIC(18,2) NOT NULL DEFAULT 0,
		executed_quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
		completion_percent NUMERIC(8,2) NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		revision_id UUID NOT NULL REFERENCES revisions(id),
		supplier_id UUID NOT NULL REFERENCES suppliers(id),
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_order_revision ON purchase_orders (revision_id);`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		order_id UUID NOT NULL REFERENCES purchase_orders(id) ON DELETE CASCADE,
		lp INT NOT NULL DEFAULT 0,
		name VARCHAR(300) NOT NULL,
		unit VARCHAR(16) NOT NULL,
		quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
		price NUMERIC(18,2) NOT NULL DEFAULT 0,
		delivered_quantity NUMERIC(18,4) NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS source_links (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		agreement_line_id UUID REFERENCES agreement_lines(id) ON DELETE CASCADE,
		order_line_id UUID REFERENCES order_lines(id) ON DELETE CASCADE,
		position_id UUID NOT NULL,
		component_id UUID NOT NULL,
		quantity NUMERIC(18,4) NOT NULL,
		CHECK ((agreement_line_id IS NULL) <> (order_line_id IS NULL))
	);`,
	`CREATE INDEX IF NOT EXISTS idx_source_link_agreement_line ON source_links (agreement_line_id) WHERE agreement_line_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_source_link_order_line ON source_links (order_line_id) WHERE order_line_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS delivery_records (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		order_id UUID NOT NULL REFERENCES purchase_orders(id),
		note VARCHAR(500),
		delivered_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS delivery_lines (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		delivery_id UUID NOT NULL REFERENCES delivery_records(id) ON DELETE CASCADE,
		order_line_id UUID NOT NULL REFERENCES order_lines(id),
		quantity NUMERIC(18,4) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS execution_records (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		agreement_line_id UUID NOT NULL REFERENCES agreement_lines(id),
		quantity NUMERIC(18,4) NOT NULL,
		completion_percent NUMERIC(8,2) NOT NULL,
		note VARCHAR(500),
		reported_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS realization_entries (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id),
		kind VARCHAR(16) NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		order_id UUID REFERENCES purchase_orders(id),
		agreement_id UUID REFERENCES agreements(id),
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		description VARCHAR(500),
		occurred_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (order_id IS NULL OR agreement_id IS NULL)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_realization_project ON realization_entries (project_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
