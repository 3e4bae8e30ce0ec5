package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CouponsIssued ...
var CouponsIssued = promauto.NewCounter(prometheus.CounterOpts{
	Name: "promo_coupons_issued_total",
	Help: "Number of coupons issued by the scratch flow",
})

// CouponsRevealed ...
var CouponsRevealed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "promo_coupons_revealed_total",
	Help: "Number of scratch reveals completed",
})

// CouponsRedeemed ...
var CouponsRedeemed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "promo_coupons_redeemed_total",
	Help: "Number of coupons redeemed at the terminal",
})

// IssueRejected ...
var IssueRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "promo_issue_rejected_total",
	Help: "Scratch requests rejected, by reason",
}, []string{"reason"})

// RedeemRejected ...
var RedeemRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "promo_redeem_rejected_total",
	Help: "Validate/redeem requests rejected, by reason",
}, []string{"reason"})
