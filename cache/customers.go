// ABOUTME: Customer cache operations
// ABOUTME: Replaces and reloads the last-fetched customer directory
package cache

import (
	"database/sql"
	"fmt"

	"github.com/phuongsen/dentdesk/models"
)

// ReplaceCustomers swaps the cached directory for a freshly fetched one.
func ReplaceCustomers(db *sql.DB, customers []models.Customer) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM treatments`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM customers`); err != nil {
		return err
	}

	for _, c := range customers {
		_, err := tx.Exec(`
			INSERT INTO customers (id, name, phone, avatar, nas_link)
			VALUES (?, ?, ?, ?, ?)
		`, c.ID, c.Name, c.Phone, c.Avatar, c.NASLink)
		if err != nil {
			return fmt.Errorf("failed to cache customer %d: %w", c.ID, err)
		}

		for seq, t := range c.Treatments {
			_, err := tx.Exec(`
				INSERT INTO treatments (id, customer_id, service, treatment_date, note, seq)
				VALUES (?, ?, ?, ?, ?, ?)
			`, t.ID, c.ID, t.Service, t.Date, t.Note, seq)
			if err != nil {
				return fmt.Errorf("failed to cache treatment %d: %w", t.ID, err)
			}
		}
	}

	return tx.Commit()
}

// LoadCustomers returns the cached directory with treatments in their
// original order.
func LoadCustomers(db *sql.DB) ([]models.Customer, error) {
	rows, err := db.Query(`SELECT id, name, phone, avatar, nas_link FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	index := make(map[int]int)
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Avatar, &c.NASLink); err != nil {
			return nil, err
		}
		index[c.ID] = len(customers)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trows, err := db.Query(`
		SELECT id, customer_id, service, treatment_date, note
		FROM treatments ORDER BY customer_id, seq
	`)
	if err != nil {
		return nil, err
	}
	defer trows.Close()

	for trows.Next() {
		var t models.Treatment
		var customerID int
		if err := trows.Scan(&t.ID, &customerID, &t.Service, &t.Date, &t.Note); err != nil {
			return nil, err
		}
		if i, ok := index[customerID]; ok {
			customers[i].Treatments = append(customers[i].Treatments, t)
		}
	}
	return customers, trows.Err()
}
