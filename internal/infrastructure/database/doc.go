// Package database provides the SQLite store behind the zenossctl audit trail.
//
// This package manages:
//   - Opening the database file with WAL mode and a busy timeout
//   - Forward and backward schema migrations read from an fs.FS
//   - Health checks
//
// Security Considerations:
//   - All queries use parameterised statements
//   - The database file is restricted to 0600
//
// Usage:
//
//	db, err := database.Open(ctx, database.ConfigFrom(cfg.Database))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migrations are additive: new columns are NULLABLE or have a DEFAULT,
// and every .up.sql has a matching .down.sql.
package database
