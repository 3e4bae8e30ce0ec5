package model

import (
	"database/sql"
	"time"
)

// Customer ...
type Customer struct {
	ID    int64  `db:"id"`
	Phone string `db:"phone"`
	Name  string `db:"name"`

	Email             sql.NullString `db:"email"`
	DateOfBirth       sql.NullTime   `db:"date_of_birth"`
	Gender            sql.NullString `db:"gender"`
	FoodPreference    sql.NullString `db:"food_preference"`
	AlcoholPreference sql.NullString `db:"alcohol_preference"`

	VisitCount  int64        `db:"visit_count"`
	LastVisitAt sql.NullTime `db:"last_visit_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NullCustomer ...
type NullCustomer struct {
	Valid    bool
	Customer Customer
}
