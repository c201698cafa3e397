package database

import (
	"database/sql"
	"time"
)

// TaskRecord is a row of the todos table.
type TaskRecord struct {
	ID           string         `db:"id"`
	Status       bool           `db:"status"`
	Title        string         `db:"title"`
	Description  sql.NullString `db:"description"`
	Priority     int            `db:"priority"`
	DueDate      sql.NullTime   `db:"duedate"`
	CategoryID   sql.NullString `db:"category_id"`
	Created      time.Time      `db:"created"`
	LastModified time.Time      `db:"lastmodified"`
}

// CategoryRecord is a row of the categories table.
type CategoryRecord struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Color        string    `db:"color"`
	Icon         string    `db:"icon"`
	Created      time.Time `db:"created"`
	LastModified time.Time `db:"lastmodified"`
}
