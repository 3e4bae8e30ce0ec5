package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/VishalDET/ASG/model"
)

// Customer ...
type Customer interface {
	GetCustomer(ctx context.Context, customerID int64) (model.NullCustomer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (model.NullCustomer, error)
	GetCustomers(ctx context.Context) ([]model.Customer, error)
	InsertCustomer(ctx context.Context, customer model.Customer) (int64, error)

	// LockCustomer takes a row lock, serializing issuance per customer
	LockCustomer(ctx context.Context, customerID int64) error

	IncrementVisit(ctx context.Context, customerID int64, now time.Time) error
}

type customerImpl struct {
}

// NewCustomer ...
func NewCustomer() Customer {
	return &customerImpl{}
}

const customerColumns = `
id, phone, name, email, date_of_birth, gender,
food_preference, alcohol_preference, visit_count, last_visit_at
`

// GetCustomer ...
func (c *customerImpl) GetCustomer(
	ctx context.Context, customerID int64,
) (model.NullCustomer, error) {
	query := `SELECT ` + customerColumns + ` FROM customer WHERE id = ?`
	return c.getOne(ctx, query, customerID)
}

// GetCustomerByPhone ...
func (c *customerImpl) GetCustomerByPhone(
	ctx context.Context, phone string,
) (model.NullCustomer, error) {
	query := `SELECT ` + customerColumns + ` FROM customer WHERE phone = ?`
	return c.getOne(ctx, query, phone)
}

func (c *customerImpl) getOne(
	ctx context.Context, query string, arg interface{},
) (model.NullCustomer, error) {
	var customer model.Customer
	err := GetReadonly(ctx).GetContext(ctx, &customer, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NullCustomer{}, nil
	}
	if err != nil {
		return model.NullCustomer{}, err
	}
	return model.NullCustomer{Valid: true, Customer: customer}, nil
}

// GetCustomers ...
func (c *customerImpl) GetCustomers(ctx context.Context) ([]model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customer ORDER BY id`

	var result []model.Customer
	err := GetReadonly(ctx).SelectContext(ctx, &result, query)
	return result, err
}

// InsertCustomer ...
func (c *customerImpl) InsertCustomer(
	ctx context.Context, customer model.Customer,
) (int64, error) {
	query := `
INSERT INTO customer (
	phone, name, email, date_of_birth, gender,
	food_preference, alcohol_preference, visit_count, last_visit_at
) VALUES (
	:phone, :name, :email, :date_of_birth, :gender,
	:food_preference, :alcohol_preference, :visit_count, :last_visit_at
)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, customer)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// LockCustomer ...
func (c *customerImpl) LockCustomer(ctx context.Context, customerID int64) error {
	query := `SELECT id FROM customer WHERE id = ? FOR UPDATE`
	var id int64
	return GetTx(ctx).GetContext(ctx, &id, query, customerID)
}

// IncrementVisit ...
func (c *customerImpl) IncrementVisit(
	ctx context.Context, customerID int64, now time.Time,
) error {
	query := `UPDATE customer SET visit_count = visit_count + 1, last_visit_at = ? WHERE id = ?`
	_, err := GetTx(ctx).ExecContext(ctx, query, now, customerID)
	return err
}
