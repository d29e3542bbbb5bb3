package database

import (
	"context"
	"fmt"
)

// migrate creates the schema and applies idempotent column additions for
// stores created before the ordering and term columns existed. Column
// presence is probed explicitly instead of matching "duplicate column"
// error strings.
func (d *DB) migrate(ctx context.Context) error {
	schema := sqliteSchema
	if d.dialect == Postgres {
		schema = postgresSchema
	}
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}

	addColumns := []struct {
		table, column, ddl string
	}{
		{"classes", "display_order", `ALTER TABLE classes ADD COLUMN display_order INTEGER DEFAULT 0`},
		{"units", "display_order", `ALTER TABLE units ADD COLUMN display_order INTEGER DEFAULT 0`},
		{"units", "category", `ALTER TABLE units ADD COLUMN category TEXT DEFAULT 'P'`},
		{"units", "term", `ALTER TABLE units ADD COLUMN term TEXT DEFAULT '1'`},
	}
	for _, m := range addColumns {
		exists, err := d.columnExists(ctx, m.table, m.column)
		if err != nil {
			return fmt.Errorf("check %s.%s column: %w", m.table, m.column, err)
		}
		if exists {
			continue
		}
		if _, err := d.db.ExecContext(ctx, m.ddl); err != nil {
			return fmt.Errorf("add %s.%s column: %w", m.table, m.column, err)
		}
	}

	if _, err := d.db.ExecContext(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (d *DB) columnExists(ctx context.Context, table, column string) (bool, error) {
	var count int
	var err error
	if d.dialect == Postgres {
		err = d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM information_schema.columns
			WHERE table_name = $1 AND column_name = $2`, table, column).Scan(&count)
	} else {
		err = d.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&count)
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
