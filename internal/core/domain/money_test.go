package domain_test

import (
	"testing"

	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinorUnits(t *testing.T) {
	t.Run("parses integer strings", func(t *testing.T) {
		minor, err := domain.ParseMinorUnits("150000")

		require.NoError(t, err)
		assert.Equal(t, int64(150000), minor)
	})

	t.Run("leaves the sign of negative amounts to the caller", func(t *testing.T) {
		minor, err := domain.ParseMinorUnits("-150000")

		require.NoError(t, err)
		assert.Equal(t, int64(-150000), minor)
	})

	for _, raw := range []string{"abc", "12.5", "", "1e3", "  ", "+5", " +150000"} {
		t.Run("rejects "+label(raw), func(t *testing.T) {
			_, err := domain.ParseMinorUnits(raw)

			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmount))
		})
	}
}

func TestMinorToMajor(t *testing.T) {
	tests := []struct {
		minor  int64
		factor int64
		want   string
	}{
		{150000, 100, "1500"},
		{1, 100, "0.01"},
		{199, 100, "1.99"},
		{5000, 1000, "5"},
		{250, 0, "2.5"},
	}

	for _, tt := range tests {
		got := domain.MinorToMajor(tt.minor, tt.factor)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "minor=%d factor=%d got %s", tt.minor, tt.factor, got)
	}
}

func TestMajorToMinor(t *testing.T) {
	t.Run("round trips with minor to major", func(t *testing.T) {
		for _, minor := range []int64{0, 1, 99, 100, 150000, 123456789} {
			got, err := domain.MajorToMinor(domain.MinorToMajor(minor, 100), 100)

			require.NoError(t, err)
			assert.Equal(t, minor, got)
		}
	})

	t.Run("rejects sub-minor precision", func(t *testing.T) {
		_, err := domain.MajorToMinor(decimal.RequireFromString("1.005"), 100)

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmount))
	})
}

func TestParseMajorUnits(t *testing.T) {
	t.Run("parses decimals", func(t *testing.T) {
		d, err := domain.ParseMajorUnits("999.50")

		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("999.5").Equal(d))
	})

	t.Run("accepts trailing zeros past two places", func(t *testing.T) {
		d, err := domain.ParseMajorUnits("10.500")

		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("10.5").Equal(d))
	})

	for _, raw := range []string{"", "ten", "-5", "10.005", "0.001"} {
		t.Run("rejects "+label(raw), func(t *testing.T) {
			_, err := domain.ParseMajorUnits(raw)

			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmount))
		})
	}
}
