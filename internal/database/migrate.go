package database

import (
	"fmt"

	"sportpulse/internal/middleware"

	"gorm.io/gorm"
)

// Migrate brings the schema in line with PersistentModels.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	middleware.Logger.Info("Database migration completed")
	return nil
}

// TableStatus reports whether a table exists for a persistent model.
type TableStatus struct {
	Table  string
	Exists bool
}

// SchemaStatus lists the persistent tables and whether each one exists.
func SchemaStatus(db *gorm.DB) ([]TableStatus, error) {
	statuses := make([]TableStatus, 0, len(PersistentModels()))
	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
		statuses = append(statuses, TableStatus{
			Table:  stmt.Schema.Table,
			Exists: db.Migrator().HasTable(model),
		})
	}
	return statuses, nil
}

// Pending reports the persistent tables that do not exist yet.
func Pending(statuses []TableStatus) []string {
	var missing []string
	for _, s := range statuses {
		if !s.Exists {
			missing = append(missing, s.Table)
		}
	}
	return missing
}

// Reset drops every persistent table, dependents first.
func Reset(db *gorm.DB) error {
	models := PersistentModels()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	middleware.Logger.Warn("Database tables dropped")
	return nil
}

// Constraint is one table constraint as reported by Postgres.
type Constraint struct {
	Table      string `gorm:"column:relname"`
	Name       string `gorm:"column:conname"`
	Definition string `gorm:"column:def"`
}

// Constraints lists the constraints in the public schema. Postgres only.
func Constraints(db *gorm.DB) ([]Constraint, error) {
	if name := db.Dialector.Name(); name != "postgres" {
		return nil, fmt.Errorf("constraints are only available on postgres, not %s", name)
	}
	var out []Constraint
	err := db.Raw(`SELECT r.relname, c.conname, pg_get_constraintdef(c.oid) AS def
		FROM pg_constraint c
		JOIN pg_class r ON c.conrelid = r.oid
		JOIN pg_namespace n ON n.oid = r.relnamespace
		WHERE n.nspname = 'public'
		ORDER BY r.relname, c.conname`).Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list constraints: %w", err)
	}
	return out, nil
}
