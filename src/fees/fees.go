package fees

import (
	"errors"
	"math"

	"rently/src/config"
)

var ErrNegativeAmount = errors.New("amount must not be negative")

// Split divides a total (cents) into the platform fee and the owner share.
// The fee is rounded, the owner share is the remainder, so the two always sum
// back to the total exactly.
func Split(totalPrice int64) (platformFee int64, ownerAmount int64, err error) {
	return SplitWithRate(totalPrice, config.GetFeeRate())
}

func SplitWithRate(totalPrice int64, rate float64) (platformFee int64, ownerAmount int64, err error) {
	if totalPrice < 0 {
		return 0, 0, ErrNegativeAmount
	}
	platformFee = int64(math.Round(float64(totalPrice) * rate))
	ownerAmount = totalPrice - platformFee
	return platformFee, ownerAmount, nil
}

// Tax computes the GST line for an invoice: 18% of the owner share, rounded once.
func Tax(totalPrice, platformFee int64) int64 {
	base := totalPrice - platformFee
	return int64(math.Round(float64(base) * config.GSTRate))
}

// LateFee charges the booking's daily rate for every day the return ran late.
func LateFee(totalPrice, rentalDays, daysLate int64) int64 {
	if daysLate <= 0 || rentalDays <= 0 {
		return 0
	}
	dailyRate := totalPrice / rentalDays
	return dailyRate * daysLate
}
