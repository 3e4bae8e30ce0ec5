// Package memrepo is an in-memory implementation of the repository
// interfaces. It backs unit tests and local development without MySQL,
// and mirrors the database behaviors the services rely on: unique key
// violations and the conditional redeem update.
package memrepo

import (
	"context"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/repository"
)

// Store holds every table.
type Store struct {
	mut sync.Mutex

	// serializes Transact calls the way row locks serialize issuance
	txMut sync.Mutex

	offers          map[int64]model.Offer
	customers       map[int64]model.Customer
	customerIDByTel map[string]int64
	coupons         map[int64]model.Coupon
	couponIDByCode  map[string]int64

	nextOfferID    int64
	nextCustomerID int64
	nextCouponID   int64
}

// New ...
func New() *Store {
	return &Store{
		offers:          map[int64]model.Offer{},
		customers:       map[int64]model.Customer{},
		customerIDByTel: map[string]int64{},
		coupons:         map[int64]model.Coupon{},
		couponIDByCode:  map[string]int64{},
	}
}

func duplicateKeyError() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

// Provider ...
func (s *Store) Provider() repository.Provider {
	return &memProvider{store: s}
}

type memProvider struct {
	store *Store
}

func (p *memProvider) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	p.store.txMut.Lock()
	defer p.store.txMut.Unlock()
	return fn(ctx)
}

func (p *memProvider) Readonly(ctx context.Context) context.Context {
	return ctx
}

//---------------------------------------
// Offer
//---------------------------------------

// Offer ...
func (s *Store) Offer() repository.Offer {
	return &memOffer{store: s}
}

type memOffer struct {
	store *Store
}

func (o *memOffer) FindOffersEligibleFor(
	_ context.Context, targetings []model.Targeting, now time.Time,
) ([]model.Offer, error) {
	o.store.mut.Lock()
	defer o.store.mut.Unlock()

	match := map[model.Targeting]bool{}
	for _, t := range targetings {
		match[t] = true
	}

	var result []model.Offer
	for _, offer := range o.store.offers {
		if offer.Status != model.OfferStatusActive {
			continue
		}
		if now.Before(offer.StartDate) || now.After(offer.EndDate) {
			continue
		}
		if !match[offer.Targeting] {
			continue
		}
		result = append(result, offer)
	}
	return result, nil
}

func (o *memOffer) GetOffer(_ context.Context, offerID int64) (model.NullOffer, error) {
	o.store.mut.Lock()
	defer o.store.mut.Unlock()

	offer, ok := o.store.offers[offerID]
	if !ok {
		return model.NullOffer{}, nil
	}
	return model.NullOffer{Valid: true, Offer: offer}, nil
}

func (o *memOffer) GetOffers(_ context.Context) ([]model.Offer, error) {
	o.store.mut.Lock()
	defer o.store.mut.Unlock()

	result := make([]model.Offer, 0, len(o.store.offers))
	for id := int64(1); id <= o.store.nextOfferID; id++ {
		if offer, ok := o.store.offers[id]; ok {
			result = append(result, offer)
		}
	}
	return result, nil
}

func (o *memOffer) InsertOffer(_ context.Context, offer model.Offer) (int64, error) {
	o.store.mut.Lock()
	defer o.store.mut.Unlock()

	o.store.nextOfferID++
	offer.ID = o.store.nextOfferID
	o.store.offers[offer.ID] = offer
	return offer.ID, nil
}

func (o *memOffer) UpdateOffer(_ context.Context, offer model.Offer) error {
	o.store.mut.Lock()
	defer o.store.mut.Unlock()

	existing, ok := o.store.offers[offer.ID]
	if !ok {
		return nil
	}
	offer.AllottedCount = existing.AllottedCount
	offer.RevealedCount = existing.RevealedCount
	offer.RedeemedCount = existing.RedeemedCount
	o.store.offers[offer.ID] = offer
	return nil
}

func (o *memOffer) UpdateOfferStatus(
	_ context.Context, offerID int64, status model.OfferStatus,
) error {
	o.store.mut.Lock()
	defer o.store.mut.Unlock()

	offer, ok := o.store.offers[offerID]
	if !ok {
		return nil
	}
	offer.Status = status
	o.store.offers[offerID] = offer
	return nil
}

func (o *memOffer) incr(offerID int64, update func(offer *model.Offer)) error {
	o.store.mut.Lock()
	defer o.store.mut.Unlock()

	offer, ok := o.store.offers[offerID]
	if !ok {
		return nil
	}
	update(&offer)
	o.store.offers[offerID] = offer
	return nil
}

func (o *memOffer) IncrementAllotted(_ context.Context, offerID int64) error {
	return o.incr(offerID, func(offer *model.Offer) { offer.AllottedCount++ })
}

func (o *memOffer) IncrementRevealed(_ context.Context, offerID int64) error {
	return o.incr(offerID, func(offer *model.Offer) { offer.RevealedCount++ })
}

func (o *memOffer) IncrementRedeemed(_ context.Context, offerID int64) error {
	return o.incr(offerID, func(offer *model.Offer) { offer.RedeemedCount++ })
}

//---------------------------------------
// Customer
//---------------------------------------

// Customer ...
func (s *Store) Customer() repository.Customer {
	return &memCustomer{store: s}
}

type memCustomer struct {
	store *Store
}

func (c *memCustomer) GetCustomer(_ context.Context, customerID int64) (model.NullCustomer, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	customer, ok := c.store.customers[customerID]
	if !ok {
		return model.NullCustomer{}, nil
	}
	return model.NullCustomer{Valid: true, Customer: customer}, nil
}

func (c *memCustomer) GetCustomerByPhone(_ context.Context, phone string) (model.NullCustomer, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	id, ok := c.store.customerIDByTel[phone]
	if !ok {
		return model.NullCustomer{}, nil
	}
	return model.NullCustomer{Valid: true, Customer: c.store.customers[id]}, nil
}

func (c *memCustomer) GetCustomers(_ context.Context) ([]model.Customer, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	result := make([]model.Customer, 0, len(c.store.customers))
	for id := int64(1); id <= c.store.nextCustomerID; id++ {
		if customer, ok := c.store.customers[id]; ok {
			result = append(result, customer)
		}
	}
	return result, nil
}

func (c *memCustomer) InsertCustomer(_ context.Context, customer model.Customer) (int64, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	if _, ok := c.store.customerIDByTel[customer.Phone]; ok {
		return 0, duplicateKeyError()
	}

	c.store.nextCustomerID++
	customer.ID = c.store.nextCustomerID
	c.store.customers[customer.ID] = customer
	c.store.customerIDByTel[customer.Phone] = customer.ID
	return customer.ID, nil
}

func (c *memCustomer) LockCustomer(_ context.Context, customerID int64) error {
	// Transact already serializes writers; nothing extra to lock here
	return nil
}

func (c *memCustomer) IncrementVisit(_ context.Context, customerID int64, now time.Time) error {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	customer, ok := c.store.customers[customerID]
	if !ok {
		return nil
	}
	customer.VisitCount++
	customer.LastVisitAt.Valid = true
	customer.LastVisitAt.Time = now
	c.store.customers[customerID] = customer
	return nil
}

//---------------------------------------
// Coupon
//---------------------------------------

// Coupon ...
func (s *Store) Coupon() repository.Coupon {
	return &memCoupon{store: s}
}

type memCoupon struct {
	store *Store
}

func (c *memCoupon) FindTodayCoupon(
	_ context.Context, customerID int64, dayStart, dayEnd time.Time,
) (model.NullCoupon, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	var found model.NullCoupon
	for _, coupon := range c.store.coupons {
		if coupon.CustomerID != customerID {
			continue
		}
		if coupon.IssuedAt.Before(dayStart) || !coupon.IssuedAt.Before(dayEnd) {
			continue
		}
		if !found.Valid || coupon.IssuedAt.After(found.Coupon.IssuedAt) {
			found = model.NullCoupon{Valid: true, Coupon: coupon}
		}
	}
	return found, nil
}

func (c *memCoupon) FindCouponByCode(
	_ context.Context, _ uint32, code string,
) (model.NullCoupon, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	id, ok := c.store.couponIDByCode[code]
	if !ok {
		return model.NullCoupon{}, nil
	}
	return model.NullCoupon{Valid: true, Coupon: c.store.coupons[id]}, nil
}

func (c *memCoupon) GetCouponsByCustomer(
	_ context.Context, customerID int64,
) ([]model.Coupon, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	var result []model.Coupon
	for id := c.store.nextCouponID; id >= 1; id-- {
		coupon, ok := c.store.coupons[id]
		if ok && coupon.CustomerID == customerID {
			result = append(result, coupon)
		}
	}
	return result, nil
}

func (c *memCoupon) InsertCoupon(_ context.Context, coupon model.Coupon) (int64, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	if _, ok := c.store.couponIDByCode[coupon.Code]; ok {
		return 0, duplicateKeyError()
	}

	c.store.nextCouponID++
	coupon.ID = c.store.nextCouponID
	c.store.coupons[coupon.ID] = coupon
	c.store.couponIDByCode[coupon.Code] = coupon.ID
	return coupon.ID, nil
}

func (c *memCoupon) MarkRedeemed(_ context.Context, couponID int64, now time.Time) (bool, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	coupon, ok := c.store.coupons[couponID]
	if !ok {
		return false, nil
	}
	if coupon.Status != model.CouponStatusGenerated {
		return false, nil
	}
	if !now.Before(coupon.ExpiresAt) {
		return false, nil
	}

	coupon.Status = model.CouponStatusRedeemed
	coupon.RedeemedAt.Valid = true
	coupon.RedeemedAt.Time = now
	c.store.coupons[couponID] = coupon
	return true, nil
}

func (c *memCoupon) MarkRevealed(_ context.Context, couponID int64) (bool, error) {
	c.store.mut.Lock()
	defer c.store.mut.Unlock()

	coupon, ok := c.store.coupons[couponID]
	if !ok {
		return false, nil
	}
	if coupon.Revealed {
		return false, nil
	}
	coupon.Revealed = true
	c.store.coupons[couponID] = coupon
	return true, nil
}
