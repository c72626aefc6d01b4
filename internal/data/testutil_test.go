package data

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every connection to ":memory:" opens its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))

	return db
}

func newTestUser(t *testing.T, models Models, email string) *User {
	t.Helper()

	user := &User{Name: "Test User", Email: email, Activated: true}
	user.Password.hash = []byte("not-a-real-hash")
	require.NoError(t, models.Users.Insert(user))

	return user
}

// orders returns the (film name, order) pairs of entries.
func orders(entries []*ListEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := "?"
		if e.Film != nil {
			name = e.Film.Name
		}
		out = append(out, fmt.Sprintf("%s:%d", name, e.Order))
	}
	return out
}

// storedOrders reads the user's entries back from the database.
func storedOrders(t *testing.T, models Models, userID int64) []string {
	t.Helper()

	entries, _, err := models.Lists.GetAllForUser(userID, Filters{Page: 1, PageSize: 100})
	require.NoError(t, err)

	return orders(entries)
}
