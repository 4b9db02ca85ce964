package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// DefaultFeeRate is the marketplace cut applied when PLATFORM_FEE_RATE is unset.
const DefaultFeeRate = 0.10

// GSTRate applies to the owner share of every invoice.
const GSTRate = 0.18

func GetFeeRate() float64 {
	raw := os.Getenv("PLATFORM_FEE_RATE")
	if raw == "" {
		return DefaultFeeRate
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate >= 1 {
		log.Printf("Invalid PLATFORM_FEE_RATE %q, using default\n", raw)
		return DefaultFeeRate
	}
	return rate
}

func GetCurrency() string {
	currency := os.Getenv("PLATFORM_CURRENCY")
	if currency == "" {
		return "usd"
	}
	return currency
}
