// Package testutil provides a migrated database and fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/database"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in a temp directory. A file rather
// than :memory: keeps every pooled connection on the same database, and
// immediate transactions serialize writers the way the server runs.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, FullName: "Test Manager", PasswordHash: "x", Role: models.RoleCampManager}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateCamp stores an active camp starting in a month with a deadline in
// two weeks. mutate may adjust it before insert.
func CreateCamp(t testing.TB, db *gorm.DB, managerID string, mutate ...func(*models.Camp)) models.Camp {
	t.Helper()
	start := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	camp := models.Camp{
		Name:                 "Summer Youth Camp",
		Location:             "Lakeside",
		StartDate:            start,
		EndDate:              start.Add(5 * 24 * time.Hour),
		RegistrationDeadline: start.Add(-14 * 24 * time.Hour),
		BaseFee:              decimal.RequireFromString("250.00"),
		Capacity:             100,
		IsActive:             true,
		ManagerID:            managerID,
	}
	for _, m := range mutate {
		m(&camp)
	}
	require.NoError(t, db.Create(&camp).Error)
	return camp
}

func CreateChurch(t testing.TB, db *gorm.DB, campID, name string) models.Church {
	t.Helper()
	church := models.Church{CampID: campID, Name: name, District: "Central", Area: "North"}
	require.NoError(t, db.Create(&church).Error)
	return church
}

func CreateCategory(t testing.TB, db *gorm.DB, campID, name, pct, amount string) models.Category {
	t.Helper()
	category := models.Category{
		CampID:             campID,
		Name:               name,
		DiscountPercentage: decimal.RequireFromString(pct),
		DiscountAmount:     decimal.RequireFromString(amount),
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func CreateField(t testing.TB, db *gorm.DB, campID, name, fieldType string, required bool, options ...string) models.CustomField {
	t.Helper()
	field := models.CustomField{CampID: campID, FieldName: name, FieldType: fieldType, IsRequired: required}
	if len(options) > 0 {
		field.Options = datatypes.JSONSlice[string](options)
	}
	require.NoError(t, db.Create(&field).Error)
	return field
}

func CreateLink(t testing.TB, db *gorm.DB, campID, createdBy string, mutate ...func(*models.RegistrationLink)) models.RegistrationLink {
	t.Helper()
	link := models.RegistrationLink{
		CampID:    campID,
		Name:      "Youth link",
		LinkToken: "you_" + uuid.NewString(),
		IsActive:  true,
		CreatedBy: createdBy,
	}
	for _, m := range mutate {
		m(&link)
	}
	require.NoError(t, db.Create(&link).Error)
	return link
}

func Ptr[T any](v T) *T {
	return &v
}
