package redemption

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/pkg/couponcache"
	"github.com/VishalDET/ASG/pkg/memtable"
	"github.com/VishalDET/ASG/repository/memrepo"
)

type mapClient struct {
	mut  sync.Mutex
	data map[string][]byte
}

func newMapClient() *mapClient {
	return &mapClient{data: map[string][]byte{}}
}

func (c *mapClient) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *mapClient) Set(_ context.Context, key string, data []byte, _ uint32) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.data[key] = data
	return nil
}

func (c *mapClient) Delete(_ context.Context, key string) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapClient) size() int {
	c.mut.Lock()
	defer c.mut.Unlock()
	return len(c.data)
}

type redemptionTest struct {
	store   *memrepo.Store
	client  *mapClient
	service *Service

	now time.Time

	customerID int64
	offerID    int64
}

func newRedemptionTest() *redemptionTest {
	store := memrepo.New()
	client := newMapClient()

	cache := couponcache.New(memtable.New(1<<20), client, 300)
	service := NewService(store.Provider(), store.Coupon(), store.Customer(), store.Offer(), cache)

	tc := &redemptionTest{
		store:  store,
		client: client,

		service: service,
		now:     newTime("2024-03-08T12:30:00+05:30"),
	}
	service.WithNow(func() time.Time { return tc.now })

	ctx := context.Background()

	customerID, err := store.Customer().InsertCustomer(ctx, model.Customer{
		Phone: "0987000111",
		Name:  "Asha",
	})
	if err != nil {
		panic(err)
	}
	tc.customerID = customerID

	offerID, err := store.Offer().InsertOffer(ctx, model.Offer{
		Title:     "10% OFF",
		Status:    model.OfferStatusActive,
		Weight:    50,
		Targeting: model.TargetingAll,
		StartDate: newTime("2024-03-01T00:00:00+05:30"),
		EndDate:   newTime("2024-03-31T23:59:59+05:30"),
	})
	if err != nil {
		panic(err)
	}
	tc.offerID = offerID

	return tc
}

func (tc *redemptionTest) seedCoupon(code string) model.Coupon {
	coupon := model.Coupon{
		Code:       code,
		OfferID:    tc.offerID,
		CustomerID: tc.customerID,
		Status:     model.CouponStatusGenerated,
		IssuedAt:   newTime("2024-03-08T12:00:00+05:30"),
		ExpiresAt:  newTime("2024-03-08T14:00:00+05:30"),
	}
	id, err := tc.store.Coupon().InsertCoupon(context.Background(), coupon)
	if err != nil {
		panic(err)
	}
	coupon.ID = id
	return coupon
}

func TestService_Validate(t *testing.T) {
	tc := newRedemptionTest()
	tc.seedCoupon("RESTO-AAAAAAAAAA")

	result, err := tc.service.Validate(context.Background(), "RESTO-AAAAAAAAAA")
	require.NoError(t, err)

	assert.Equal(t, true, result.IsValid)
	assert.Equal(t, StatusValid, result.Status)
	assert.Equal(t, "Coupon is valid", result.Message)
	assert.Equal(t, tc.customerID, result.CustomerID)
	assert.Equal(t, "Asha", result.CustomerName)
	assert.Equal(t, "0987000111", result.CustomerPhone)
	assert.Equal(t, tc.offerID, result.OfferID)
	assert.Equal(t, "10% OFF", result.OfferTitle)
	assert.Equal(t, newTime("2024-03-08T14:00:00+05:30").Unix(), result.ExpiresAt.Unix())

	// validating never mutates the coupon
	stored, err := tc.store.Coupon().FindCouponByCode(context.Background(), 0, "RESTO-AAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, model.CouponStatusGenerated, stored.Coupon.Status)

	// repeat call, same answer
	again, err := tc.service.Validate(context.Background(), "RESTO-AAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, result, again)
}

func TestService_Validate_UnknownCode(t *testing.T) {
	tc := newRedemptionTest()

	result, err := tc.service.Validate(context.Background(), "RESTO-NOSUCHCODE")
	require.NoError(t, err)

	assert.Equal(t, false, result.IsValid)
	assert.Equal(t, StatusNotFound, result.Status)
	assert.Equal(t, "Invalid or Expired Code", result.Message)
}

func TestService_Validate_Expired(t *testing.T) {
	tc := newRedemptionTest()
	tc.seedCoupon("RESTO-AAAAAAAAAA")

	tc.now = newTime("2024-03-08T14:01:00+05:30")

	result, err := tc.service.Validate(context.Background(), "RESTO-AAAAAAAAAA")
	require.NoError(t, err)

	assert.Equal(t, false, result.IsValid)
	assert.Equal(t, StatusExpired, result.Status)
	assert.Equal(t, "Coupon has expired", result.Message)
}

func TestService_Validate_StaleGeneratedNotServedFromCache(t *testing.T) {
	tc := newRedemptionTest()
	coupon := tc.seedCoupon("RESTO-AAAAAAAAAA")

	// warm the cache with the still-Generated row
	_, err := tc.service.Validate(context.Background(), "RESTO-AAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, 1, tc.client.size())

	// the row flips outside the cache's knowledge
	ok, err := tc.store.Coupon().MarkRedeemed(context.Background(), coupon.ID, tc.now)
	require.NoError(t, err)
	require.Equal(t, true, ok)

	result, err := tc.service.Validate(context.Background(), "RESTO-AAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyRedeemed, result.Status)
}

func TestService_Redeem(t *testing.T) {
	tc := newRedemptionTest()
	tc.seedCoupon("RESTO-AAAAAAAAAA")

	redeemed, err := tc.service.Redeem(
		context.Background(), "RESTO-AAAAAAAAAA", tc.customerID, tc.offerID,
	)
	require.NoError(t, err)
	assert.Equal(t, model.CouponStatusRedeemed, redeemed.Status)

	stored, err := tc.store.Coupon().FindCouponByCode(context.Background(), 0, "RESTO-AAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, model.CouponStatusRedeemed, stored.Coupon.Status)

	customer, err := tc.store.Customer().GetCustomer(context.Background(), tc.customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), customer.Customer.VisitCount)

	offer, err := tc.store.Offer().GetOffer(context.Background(), tc.offerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), offer.Offer.RedeemedCount)

	// second attempt reports already redeemed
	_, err = tc.service.Redeem(context.Background(), "RESTO-AAAAAAAAAA", tc.customerID, tc.offerID)
	assert.Equal(t, ErrAlreadyRedeemed, err)

	// counters stay at one
	customer, err = tc.store.Customer().GetCustomer(context.Background(), tc.customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), customer.Customer.VisitCount)
}

func TestService_Redeem_Expired(t *testing.T) {
	tc := newRedemptionTest()
	tc.seedCoupon("RESTO-AAAAAAAAAA")

	tc.now = newTime("2024-03-08T14:01:00+05:30")

	_, err := tc.service.Redeem(context.Background(), "RESTO-AAAAAAAAAA", tc.customerID, tc.offerID)
	assert.Equal(t, ErrCouponExpired, err)
}

func TestService_Redeem_UnknownCode(t *testing.T) {
	tc := newRedemptionTest()

	_, err := tc.service.Redeem(context.Background(), "RESTO-NOSUCHCODE", tc.customerID, tc.offerID)
	assert.Equal(t, ErrCouponNotFound, err)
}

func TestService_Redeem_ConfirmationMismatch(t *testing.T) {
	tc := newRedemptionTest()
	tc.seedCoupon("RESTO-AAAAAAAAAA")

	_, err := tc.service.Redeem(context.Background(), "RESTO-AAAAAAAAAA", tc.customerID+1, tc.offerID)
	assert.Equal(t, ErrConfirmationMismatch, err)

	_, err = tc.service.Redeem(context.Background(), "RESTO-AAAAAAAAAA", tc.customerID, tc.offerID+1)
	assert.Equal(t, ErrConfirmationMismatch, err)

	// the coupon is untouched and still redeemable
	redeemed, err := tc.service.Redeem(
		context.Background(), "RESTO-AAAAAAAAAA", tc.customerID, tc.offerID,
	)
	require.NoError(t, err)
	assert.Equal(t, model.CouponStatusRedeemed, redeemed.Status)
}

func TestService_Redeem_Concurrent(t *testing.T) {
	tc := newRedemptionTest()
	tc.seedCoupon("RESTO-AAAAAAAAAA")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			_, errs[index] = tc.service.Redeem(
				context.Background(), "RESTO-AAAAAAAAAA", tc.customerID, tc.offerID,
			)
		}(i)
	}
	wg.Wait()

	success := 0
	alreadyRedeemed := 0
	for _, err := range errs {
		switch err {
		case nil:
			success++
		case ErrAlreadyRedeemed:
			alreadyRedeemed++
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, alreadyRedeemed)

	// exactly one visit recorded
	customer, err := tc.store.Customer().GetCustomer(context.Background(), tc.customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), customer.Customer.VisitCount)
}

func TestService_Redeem_InvalidatesCache(t *testing.T) {
	tc := newRedemptionTest()
	tc.seedCoupon("RESTO-AAAAAAAAAA")

	_, err := tc.service.Validate(context.Background(), "RESTO-AAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, 1, tc.client.size())

	_, err = tc.service.Redeem(context.Background(), "RESTO-AAAAAAAAAA", tc.customerID, tc.offerID)
	require.NoError(t, err)
	assert.Equal(t, 0, tc.client.size())

	// the next validate hits the database and sees the terminal state
	result, err := tc.service.Validate(context.Background(), "RESTO-AAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyRedeemed, result.Status)
	assert.Equal(t, "Coupon has already been redeemed", result.Message)
}
