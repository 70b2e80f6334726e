// ABOUTME: Appointment cache operations keyed by month
// ABOUTME: Replaces and reloads per-month appointment lists
package cache

import (
	"database/sql"
	"fmt"

	"github.com/phuongsen/dentdesk/models"
)

// ReplaceMonth swaps the cached appointments for one "YYYY-MM" month.
func ReplaceMonth(db *sql.DB, month string, appts []models.Appointment) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM appointments WHERE month = ?`, month); err != nil {
		return err
	}

	for seq, a := range appts {
		_, err := tx.Exec(`
			INSERT INTO appointments
				(id, month, customer_id, customer_name, customer_phone, customer_birthday, service, staff, date, time, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.ID, month, a.CustomerID, a.CustomerName, a.CustomerPhone, a.CustomerBirthday, a.Service, a.Staff, a.Date, a.Time, seq)
		if err != nil {
			return fmt.Errorf("failed to cache appointment %d: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// LoadMonth returns the cached appointments for a "YYYY-MM" month in fetch
// order.
func LoadMonth(db *sql.DB, month string) ([]models.Appointment, error) {
	rows, err := db.Query(`
		SELECT id, customer_id, customer_name, customer_phone, customer_birthday, service, staff, date, time
		FROM appointments WHERE month = ? ORDER BY seq
	`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.CustomerName, &a.CustomerPhone,
			&a.CustomerBirthday, &a.Service, &a.Staff, &a.Date, &a.Time); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}
