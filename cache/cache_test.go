// ABOUTME: Tests for the local read cache
// ABOUTME: Round-trips the customer directory and per-month appointments
package cache

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phuongsen/dentdesk/models"
)

func setupCacheDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCustomerRoundTrip(t *testing.T) {
	db := setupCacheDB(t)

	customers := []models.Customer{
		{
			ID: 1, Name: "Nguyễn Văn An", Phone: "0901234567",
			Avatar:  "https://cdn/avatars/a.jpg",
			NASLink: "smb://nas/an",
			Treatments: []models.Treatment{
				{ID: 10, Service: "Implant", Date: "2024-03-01", Note: "upper left"},
				{ID: 11, Service: "Thăm khám", Date: "2024-04-15"},
			},
		},
		{ID: 2, Name: "Trần Thị Bình"},
	}

	require.NoError(t, ReplaceCustomers(db, customers))

	got, err := LoadCustomers(db)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Nguyễn Văn An", got[0].Name)
	assert.Equal(t, "smb://nas/an", got[0].NASLink)
	require.Len(t, got[0].Treatments, 2)
	assert.Equal(t, "Implant", got[0].Treatments[0].Service)
	assert.Equal(t, "2024-04-15", got[0].Treatments[1].Date)
	assert.Empty(t, got[1].Treatments)
}

func TestReplaceCustomersDropsOldRows(t *testing.T) {
	db := setupCacheDB(t)

	first := []models.Customer{
		{ID: 1, Name: "Old", Treatments: []models.Treatment{{ID: 5, Service: "Implant", Date: "2024-01-01"}}},
	}
	require.NoError(t, ReplaceCustomers(db, first))

	second := []models.Customer{{ID: 2, Name: "New"}}
	require.NoError(t, ReplaceCustomers(db, second))

	got, err := LoadCustomers(db)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Name)

	// Old treatments must be gone too, not orphaned.
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM treatments`).Scan(&count))
	assert.Zero(t, count)
}

func TestMonthRoundTripPreservesOrder(t *testing.T) {
	db := setupCacheDB(t)

	appts := []models.Appointment{
		{ID: 3, CustomerName: "Chi", Date: "2024-06-12", Time: "14:00:00", Service: "Niềng răng", Staff: "Dr. Sen"},
		{ID: 1, CustomerName: "An", Date: "2024-06-10", Time: "09:00:00"},
		{ID: 2, CustomerName: "Bình", Date: "2024-06-10", Time: "10:30:00"},
	}
	require.NoError(t, ReplaceMonth(db, "2024-06", appts))

	got, err := LoadMonth(db, "2024-06")
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Fetch order, not date order.
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, 1, got[1].ID)
	assert.Equal(t, "Dr. Sen", got[0].Staff)
}

func TestMonthsAreIndependent(t *testing.T) {
	db := setupCacheDB(t)

	require.NoError(t, ReplaceMonth(db, "2024-06", []models.Appointment{
		{ID: 1, CustomerName: "An", Date: "2024-06-10", Time: "09:00:00"},
	}))
	require.NoError(t, ReplaceMonth(db, "2024-07", []models.Appointment{
		{ID: 2, CustomerName: "Bình", Date: "2024-07-02", Time: "08:00:00"},
	}))

	// Refreshing June must not disturb July.
	require.NoError(t, ReplaceMonth(db, "2024-06", nil))

	june, err := LoadMonth(db, "2024-06")
	require.NoError(t, err)
	assert.Empty(t, june)

	july, err := LoadMonth(db, "2024-07")
	require.NoError(t, err)
	require.Len(t, july, 1)
	assert.Equal(t, 2, july[0].ID)
}

func TestLoadEmptyCache(t *testing.T) {
	db := setupCacheDB(t)

	customers, err := LoadCustomers(db)
	require.NoError(t, err)
	assert.Empty(t, customers)

	appts, err := LoadMonth(db, "2024-06")
	require.NoError(t, err)
	assert.Empty(t, appts)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, ReplaceCustomers(db, []models.Customer{{ID: 1, Name: "An"}}))
}
