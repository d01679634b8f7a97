package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'EMPLOYEE',
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            is_company INTEGER NOT NULL DEFAULT 0,
            company_name TEXT,
            company_tax_number TEXT,
            approval_status TEXT NOT NULL DEFAULT 'pending',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS inventory (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            quantity REAL NOT NULL DEFAULT 0,
            measurement_unit TEXT NOT NULL,
            provider TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS inventory_movements (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            inventory_id INTEGER NOT NULL,
            operation TEXT NOT NULL,
            quantity_change REAL NOT NULL,
            quantity_before REAL NOT NULL,
            quantity_after REAL NOT NULL,
            created_by INTEGER,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(inventory_id) REFERENCES inventory(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS products (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            slug TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            price TEXT NOT NULL,
            image_url TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS print_orders (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            reference TEXT NOT NULL UNIQUE,
            customer_name TEXT NOT NULL,
            customer_email TEXT NOT NULL,
            customer_phone TEXT,
            material TEXT NOT NULL,
            color TEXT,
            quantity INTEGER NOT NULL,
            dimensions TEXT,
            file_url TEXT,
            notes TEXT,
            status TEXT NOT NULL DEFAULT 'received',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE INDEX IF NOT EXISTS idx_movements_inventory ON inventory_movements(inventory_id);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'EMPLOYEE',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			is_company BOOLEAN NOT NULL DEFAULT FALSE,
			company_name TEXT,
			company_tax_number TEXT,
			approval_status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
	`CREATE TABLE IF NOT EXISTS inventory (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
			measurement_unit TEXT NOT NULL,
			provider TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
	`CREATE TABLE IF NOT EXISTS inventory_movements (
			id SERIAL PRIMARY KEY,
			inventory_id INTEGER NOT NULL REFERENCES inventory(id) ON DELETE CASCADE,
			operation TEXT NOT NULL,
			quantity_change DOUBLE PRECISION NOT NULL,
			quantity_before DOUBLE PRECISION NOT NULL,
			quantity_after DOUBLE PRECISION NOT NULL,
			created_by INTEGER,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
	`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL,
			image_url TEXT NOT NULL DEFAULT ''
		);`,
	`CREATE TABLE IF NOT EXISTS print_orders (
			id SERIAL PRIMARY KEY,
			reference TEXT NOT NULL UNIQUE,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			customer_phone TEXT,
			material TEXT NOT NULL,
			color TEXT,
			quantity INTEGER NOT NULL,
			dimensions TEXT,
			file_url TEXT,
			notes TEXT,
			status TEXT NOT NULL DEFAULT 'received',
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
	`CREATE INDEX IF NOT EXISTS idx_movements_inventory ON inventory_movements(inventory_id);`,
}

// Run creates the database schema for the driver behind db.
func Run(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "pgx" {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
