package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	customerdomain "github.com/smallbiznis/subscriptions/internal/customer/domain"
	subscriptiondomain "github.com/smallbiznis/subscriptions/internal/subscription/domain"
	"github.com/smallbiznis/subscriptions/pkg/db"
	"gorm.io/gorm"
)

// RunMigrations applies every pending schema migration to a PostgreSQL database.
func RunMigrations(conn *sql.DB) error {
	migrator, err := newMigrator(conn)
	if err != nil {
		return err
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// RollbackMigrations reverts every applied migration, dropping all tables.
func RollbackMigrations(conn *sql.DB) error {
	migrator, err := newMigrator(conn)
	if err != nil {
		return err
	}

	downErr := migrator.Down()
	if downErr != nil && !errors.Is(downErr, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", downErr)
	}
	return nil
}

func newMigrator(conn *sql.DB) (*migrate.Migrate, error) {
	if conn == nil {
		return nil, errors.New("migration database handle is required")
	}

	src, err := Source()
	if err != nil {
		return nil, err
	}

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return migrator, nil
}

// Source exposes the embedded SQL files as a migration source.
func Source() (source.Driver, error) {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	return src, nil
}

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&customerdomain.Customer{},
		&subscriptiondomain.Plan{},
		&subscriptiondomain.PlanVariation{},
		&subscriptiondomain.Subscription{},
		&subscriptiondomain.BillingTransaction{},
	}
}

// Up creates the schema for the configured database type. SQLite databases
// are migrated from the gorm models because the SQL files target PostgreSQL.
func Up(conn *gorm.DB, dbType string) error {
	if dbType == db.TypeSQLite {
		return conn.AutoMigrate(Models()...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

// Down drops the schema for the configured database type.
func Down(conn *gorm.DB, dbType string) error {
	if dbType == db.TypeSQLite {
		models := Models()
		for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
			models[i], models[j] = models[j], models[i]
		}
		return conn.Migrator().DropTable(models...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RollbackMigrations(sqlDB)
}
