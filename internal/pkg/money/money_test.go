package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSat(t *testing.T) {
	cases := []struct {
		a, b, want Amount
	}{
		{0, 0, 0},
		{100, 250, 350},
		{MaxAmount, 1, MaxAmount},
		{MaxAmount - 5, 10, MaxAmount},
		{MinAmount, -1, MinAmount},
		{-100, 40, -60},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AddSat(c.a, c.b), "AddSat(%d, %d)", c.a, c.b)
	}
}

func TestSubFloor(t *testing.T) {
	got, clamped := SubFloor(1000, 300)
	assert.Equal(t, Amount(700), got)
	assert.Equal(t, Amount(0), clamped)

	got, clamped = SubFloor(300, 1000)
	assert.Equal(t, Amount(0), got)
	assert.Equal(t, Amount(700), clamped)

	got, clamped = SubFloor(500, 500)
	assert.Equal(t, Amount(0), got)
	assert.Equal(t, Amount(0), clamped)
}

func TestApplyRate(t *testing.T) {
	cases := []struct {
		amount  Amount
		rateBps int64
		want    Amount
	}{
		{100000, 1000, 10000}, // 10%
		{100000, 750, 7500},   // 7.5%
		{333, 1000, 33},       // 33.3 rounds down
		{335, 1000, 34},       // 33.5 rounds half-up
		{1, 50, 0},            // 0.005 rounds down
		{0, 1000, 0},
		{100000, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ApplyRate(c.amount, c.rateBps), "ApplyRate(%d, %d)", c.amount, c.rateBps)
	}
}

func TestCeilDiv(t *testing.T) {
	cases := []struct {
		amount Amount
		n      int64
		want   Amount
	}{
		{90000, 3, 30000},
		{100000, 3, 33334},
		{1, 3, 1},
		{0, 3, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CeilDiv(c.amount, c.n), "CeilDiv(%d, %d)", c.amount, c.n)
	}
}
