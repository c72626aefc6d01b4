package data

import (
	"database/sql"
	"errors"

	"github.com/nhan10132020/filmlist/internal/data/migrations"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate applies the embedded PostgreSQL migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.Up(db, ".")
}

// AutoMigrate creates the schema from the model definitions and seeds the
// permission codes. It backs the SQLite driver used for local runs and tests.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Token{},
		&permission{},
		&userPermission{},
		&Film{},
		&ListEntry{},
	); err != nil {
		return err
	}

	codes := []permission{{Code: PermissionFilmsRead}, {Code: PermissionFilmsWrite}}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&codes).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	return nil
}
