package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/service/redemption"
)

// CustomerDTO ...
type CustomerDTO struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email,omitempty"`
	DateOfBirth       string `json:"dob,omitempty"`
	Gender            string `json:"gender,omitempty"`
	FoodPreference    string `json:"foodPreference,omitempty"`
	AlcoholPreference string `json:"alcoholPreference,omitempty"`
	VisitCount        int64  `json:"visitCount"`
}

func toCustomerDTO(c model.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:                c.ID,
		Name:              c.Name,
		Phone:             c.Phone,
		Email:             c.Email.String,
		Gender:            c.Gender.String,
		FoodPreference:    c.FoodPreference.String,
		AlcoholPreference: c.AlcoholPreference.String,
		VisitCount:        c.VisitCount,
	}
	if c.DateOfBirth.Valid {
		dto.DateOfBirth = c.DateOfBirth.Time.Format("2006-01-02")
	}
	return dto
}

// OfferDTO ...
type OfferDTO struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Weight        int64  `json:"weight"`
	Status        string `json:"status"`
	Targeting     string `json:"targeting"`
	DiscountType  string `json:"discountType,omitempty"`
	DiscountValue string `json:"discountValue,omitempty"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Allotted      int64  `json:"allotted"`
	Revealed      int64  `json:"revealed"`
	Redemptions   int64  `json:"redemptions"`
}

var offerStatusNames = map[model.OfferStatus]string{
	model.OfferStatusActive:   "active",
	model.OfferStatusInactive: "inactive",
}

var offerStatusValues = map[string]model.OfferStatus{
	"active":   model.OfferStatusActive,
	"inactive": model.OfferStatusInactive,
}

var targetingNames = map[model.Targeting]string{
	model.TargetingAll:      "all",
	model.TargetingNew:      "new",
	model.TargetingFrequent: "frequent",
	model.TargetingInactive: "inactive",
}

var targetingValues = map[string]model.Targeting{
	"all":      model.TargetingAll,
	"new":      model.TargetingNew,
	"frequent": model.TargetingFrequent,
	"inactive": model.TargetingInactive,
}

var discountTypeNames = map[model.DiscountType]string{
	model.DiscountTypePercent: "percentage",
	model.DiscountTypeAmount:  "amount",
	model.DiscountTypeItem:    "item",
}

var discountTypeValues = map[string]model.DiscountType{
	"percentage": model.DiscountTypePercent,
	"amount":     model.DiscountTypeAmount,
	"item":       model.DiscountTypeItem,
}

func toOfferDTO(o model.Offer) OfferDTO {
	dto := OfferDTO{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Weight:      o.Weight,
		Status:      offerStatusNames[o.Status],
		Targeting:   targetingNames[o.Targeting],
		StartDate:   o.StartDate.Format(time.RFC3339),
		EndDate:     o.EndDate.Format(time.RFC3339),
		Allotted:    o.AllottedCount,
		Revealed:    o.RevealedCount,
		Redemptions: o.RedeemedCount,
	}
	if o.DiscountType != 0 {
		dto.DiscountType = discountTypeNames[o.DiscountType]
	}
	if o.DiscountValue.Valid {
		dto.DiscountValue = o.DiscountValue.Decimal.String()
	}
	return dto
}

func fromOfferDTO(dto OfferDTO) (model.Offer, error) {
	startDate, err := time.Parse(time.RFC3339, dto.StartDate)
	if err != nil {
		return model.Offer{}, err
	}
	endDate, err := time.Parse(time.RFC3339, dto.EndDate)
	if err != nil {
		return model.Offer{}, err
	}

	offer := model.Offer{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Weight:      dto.Weight,
		Status:      offerStatusValues[dto.Status],
		Targeting:   targetingValues[dto.Targeting],
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if offer.Targeting == 0 {
		offer.Targeting = model.TargetingAll
	}
	if dto.DiscountType != "" {
		offer.DiscountType = discountTypeValues[dto.DiscountType]
	}
	if dto.DiscountValue != "" {
		value, err := decimal.NewFromString(dto.DiscountValue)
		if err != nil {
			return model.Offer{}, err
		}
		offer.DiscountValue = decimal.NewNullDecimal(value)
	}
	return offer, nil
}

// CouponDTO ...
type CouponDTO struct {
	Code       string `json:"code"`
	OfferID    int64  `json:"offerId"`
	CustomerID int64  `json:"customerId"`
	Status     string `json:"status"`
	RevealedAt string `json:"revealedAt"`
	ExpiryDate string `json:"expiryDate"`
	Revealed   bool   `json:"revealed"`
}

func toCouponDTO(c model.Coupon, now time.Time) CouponDTO {
	status := "generated"
	switch {
	case c.Status == model.CouponStatusRedeemed:
		status = "redeemed"
	case c.Status == model.CouponStatusExpired, !now.Before(c.ExpiresAt):
		status = "expired"
	}

	return CouponDTO{
		Code:       c.Code,
		OfferID:    c.OfferID,
		CustomerID: c.CustomerID,
		Status:     status,
		RevealedAt: c.IssuedAt.Format(time.RFC3339),
		ExpiryDate: c.ExpiresAt.Format(time.RFC3339),
		Revealed:   c.Revealed,
	}
}

// ValidationDTO mirrors what the terminal displays.
type ValidationDTO struct {
	IsValid        bool   `json:"isValid"`
	CustomerName   string `json:"customerName"`
	CustomerNumber string `json:"customerNumber"`
	OfferTitle     string `json:"offerTitle"`
	Status         string `json:"status"`
	RevealedAt     string `json:"revealedAt"`
	ExpiryDate     string `json:"expiryDate"`
	OfferEndDate   string `json:"offerEndDate,omitempty"`
	Message        string `json:"message"`
	Code           string `json:"code"`
	CustomerID     int64  `json:"customerId"`
	OfferID        int64  `json:"offerId"`
}

func toValidationDTO(result redemption.ValidationResult) ValidationDTO {
	dto := ValidationDTO{
		IsValid:        result.IsValid,
		CustomerName:   result.CustomerName,
		CustomerNumber: result.CustomerPhone,
		OfferTitle:     result.OfferTitle,
		Status:         result.Status.String(),
		Message:        result.Message,
		Code:           result.Code,
		CustomerID:     result.CustomerID,
		OfferID:        result.OfferID,
	}
	if !result.RevealedAt.IsZero() {
		dto.RevealedAt = result.RevealedAt.Format(time.RFC3339)
	}
	if !result.ExpiresAt.IsZero() {
		dto.ExpiryDate = result.ExpiresAt.Format(time.RFC3339)
	}
	if !result.OfferEndDate.IsZero() {
		dto.OfferEndDate = result.OfferEndDate.Format(time.RFC3339)
	}
	return dto
}
