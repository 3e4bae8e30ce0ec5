package config

import "time"

// PromoConfig holds the operational constants of the scratch promotion.
type PromoConfig struct {
	// how long an issued coupon stays redeemable
	ValidityMinutes int `mapstructure:"validity_minutes"`

	// business local reporting timezone, drives the one-per-day rule
	Timezone string `mapstructure:"timezone"`

	CodePrefix string `mapstructure:"code_prefix"`

	CacheTTLSeconds uint32 `mapstructure:"cache_ttl_seconds"`
}

// Validity ...
func (c PromoConfig) Validity() time.Duration {
	if c.ValidityMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.ValidityMinutes) * time.Minute
}

// Location ...
func (c PromoConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		panic(err)
	}
	return loc
}
