package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/VishalDET/ASG/model"
)

// Coupon ...
type Coupon interface {
	FindTodayCoupon(
		ctx context.Context, customerID int64, dayStart, dayEnd time.Time,
	) (model.NullCoupon, error)
	FindCouponByCode(ctx context.Context, codeHash uint32, code string) (model.NullCoupon, error)
	GetCouponsByCustomer(ctx context.Context, customerID int64) ([]model.Coupon, error)
	InsertCoupon(ctx context.Context, coupon model.Coupon) (int64, error)

	// MarkRedeemed flips status Generated -> Redeemed as a conditional
	// update; returns false when the coupon lost the race or was expired.
	MarkRedeemed(ctx context.Context, couponID int64, now time.Time) (bool, error)

	// MarkRevealed is idempotent; returns true only on the first call.
	MarkRevealed(ctx context.Context, couponID int64) (bool, error)
}

type couponImpl struct {
}

// NewCoupon ...
func NewCoupon() Coupon {
	return &couponImpl{}
}

const mysqlDuplicateEntry = 1062

// IsDuplicateKey reports whether err is a MySQL unique key violation.
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}

const couponColumns = `
id, code_hash, code, offer_id, customer_id, status,
issued_at, expires_at, revealed, redeemed_at
`

// FindTodayCoupon ...
func (c *couponImpl) FindTodayCoupon(
	ctx context.Context, customerID int64, dayStart, dayEnd time.Time,
) (model.NullCoupon, error) {
	query := `
SELECT ` + couponColumns + `
FROM coupon
WHERE customer_id = ? AND issued_at >= ? AND issued_at < ?
ORDER BY issued_at DESC
LIMIT 1
`
	return c.getOne(ctx, query, customerID, dayStart, dayEnd)
}

// FindCouponByCode ...
func (c *couponImpl) FindCouponByCode(
	ctx context.Context, codeHash uint32, code string,
) (model.NullCoupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupon WHERE code_hash = ? AND code = ?`
	return c.getOne(ctx, query, codeHash, code)
}

func (c *couponImpl) getOne(
	ctx context.Context, query string, args ...interface{},
) (model.NullCoupon, error) {
	var coupon model.Coupon
	err := GetReadonly(ctx).GetContext(ctx, &coupon, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NullCoupon{}, nil
	}
	if err != nil {
		return model.NullCoupon{}, err
	}
	return model.NullCoupon{Valid: true, Coupon: coupon}, nil
}

// GetCouponsByCustomer ...
func (c *couponImpl) GetCouponsByCustomer(
	ctx context.Context, customerID int64,
) ([]model.Coupon, error) {
	query := `
SELECT ` + couponColumns + `
FROM coupon
WHERE customer_id = ?
ORDER BY issued_at DESC
`
	var result []model.Coupon
	err := GetReadonly(ctx).SelectContext(ctx, &result, query, customerID)
	return result, err
}

// InsertCoupon ...
func (c *couponImpl) InsertCoupon(ctx context.Context, coupon model.Coupon) (int64, error) {
	query := `
INSERT INTO coupon (
	code_hash, code, offer_id, customer_id, status,
	issued_at, expires_at, revealed, redeemed_at
) VALUES (
	:code_hash, :code, :offer_id, :customer_id, :status,
	:issued_at, :expires_at, :revealed, :redeemed_at
)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, coupon)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// MarkRedeemed ...
func (c *couponImpl) MarkRedeemed(
	ctx context.Context, couponID int64, now time.Time,
) (bool, error) {
	query := `
UPDATE coupon
SET status = ?, redeemed_at = ?
WHERE id = ? AND status = ? AND expires_at > ?
`
	result, err := GetTx(ctx).ExecContext(ctx, query,
		model.CouponStatusRedeemed, now, couponID, model.CouponStatusGenerated, now)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// MarkRevealed ...
func (c *couponImpl) MarkRevealed(ctx context.Context, couponID int64) (bool, error) {
	query := `UPDATE coupon SET revealed = TRUE WHERE id = ? AND revealed = FALSE`
	result, err := GetTx(ctx).ExecContext(ctx, query, couponID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
