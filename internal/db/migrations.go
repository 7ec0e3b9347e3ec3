package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'price_type') THEN
			CREATE TYPE price_type AS ENUM ('FIXED', 'HOURLY');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS companies (
		id BIGSERIAL PRIMARY KEY,
		company_name VARCHAR(255) NOT NULL,
		visit_address VARCHAR(255),
		contact_details JSONB,
		company_size VARCHAR(64),
		branch VARCHAR(128),
		relation_manager VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		project_name VARCHAR(255) NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS employees (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS project_companies (
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		available_hours NUMERIC(10,2),
		unlimited_hours BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (project_id, company_id)
	);`,
	`CREATE TABLE IF NOT EXISTS services (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		company_id BIGINT REFERENCES companies(id) ON DELETE SET NULL,
		name VARCHAR(255) NOT NULL,
		price_type price_type NOT NULL,
		budget_hours NUMERIC(10,2) NOT NULL DEFAULT 0,
		fixed_price NUMERIC(12,2),
		hourly_rate NUMERIC(12,2),
		start_date DATE,
		end_date DATE,
		service_color VARCHAR(32),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS time_entries (
		id BIGSERIAL PRIMARY KEY,
		employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		service_id BIGINT REFERENCES services(id) ON DELETE SET NULL,
		date DATE NOT NULL,
		hours_worked NUMERIC(6,2) NOT NULL,
		start_time TIME,
		end_time TIME,
		comment TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_employee_date ON time_entries (employee_id, date);`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_project_company ON time_entries (project_id, company_id);`,
	`CREATE INDEX IF NOT EXISTS idx_services_project_id ON services (project_id);`,
	`CREATE INDEX IF NOT EXISTS idx_services_company_id ON services (company_id) WHERE company_id IS NOT NULL;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
