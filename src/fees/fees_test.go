package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWithRate(t *testing.T) {
	fee, owner, err := SplitWithRate(10000, 0.10)
	assert.Nil(t, err)
	assert.Equal(t, int64(1000), fee)
	assert.Equal(t, int64(9000), owner)
}

func TestSplitRoundsFee(t *testing.T) {
	// 10% of 10005 is 1000.5, rounds to 1001.
	fee, owner, err := SplitWithRate(10005, 0.10)
	assert.Nil(t, err)
	assert.Equal(t, int64(1001), fee)
	assert.Equal(t, int64(9004), owner)
	assert.Equal(t, int64(10005), fee+owner)
}

func TestSplitAlwaysSumsToTotal(t *testing.T) {
	for _, total := range []int64{0, 1, 3, 99, 10001, 10004, 10005, 123456789} {
		fee, owner, err := SplitWithRate(total, 0.10)
		assert.Nil(t, err)
		assert.Equal(t, total, fee+owner, "total %d", total)
		assert.GreaterOrEqual(t, fee, int64(0))
		assert.GreaterOrEqual(t, owner, int64(0))
	}
}

func TestSplitRejectsNegative(t *testing.T) {
	_, _, err := SplitWithRate(-1, 0.10)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestSplitZeroTotal(t *testing.T) {
	fee, owner, err := SplitWithRate(0, 0.10)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), fee)
	assert.Equal(t, int64(0), owner)
}

func TestTax(t *testing.T) {
	// 18% of the 9000 owner share.
	assert.Equal(t, int64(1620), Tax(10000, 1000))
	assert.Equal(t, int64(0), Tax(0, 0))
}

func TestLateFee(t *testing.T) {
	// 5-day rental at 2000/day, 2 days late.
	assert.Equal(t, int64(4000), LateFee(10000, 5, 2))
	assert.Equal(t, int64(0), LateFee(10000, 5, 0))
	assert.Equal(t, int64(0), LateFee(10000, 0, 3))
}
