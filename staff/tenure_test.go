package staff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/staff-ledger/generic"
	"github.com/warp/staff-ledger/staff"
)

func TestTenure(t *testing.T) {
	hire := generic.MustDate("2022-03-15")

	tests := []struct {
		ref    string
		months int
		text   string
	}{
		{"2022-03-15", 0, "0 months"},
		{"2022-04-14", 0, "0 months"},
		{"2022-04-15", 1, "1 month"},
		{"2023-03-14", 11, "11 months"},
		{"2023-03-15", 12, "1 year"},
		{"2024-06-01", 26, "2 years 2 months"},
		{"2023-04-20", 13, "1 year 1 month"},
		{"2021-01-01", 0, "0 months"},
	}
	for _, tt := range tests {
		got := staff.Tenure(hire, generic.MustDate(tt.ref))
		assert.Equal(t, tt.months, got.Months, tt.ref)
		assert.Equal(t, tt.text, got.String(), tt.ref)
	}
}

func TestAge(t *testing.T) {
	birth := generic.MustDate("1990-06-02")

	years, ok := staff.Age(&birth, generic.MustDate("2024-06-01"))
	assert.True(t, ok)
	assert.Equal(t, 33, years, "day before birthday")

	years, _ = staff.Age(&birth, generic.MustDate("2024-06-02"))
	assert.Equal(t, 34, years)

	_, ok = staff.Age(nil, generic.MustDate("2024-06-01"))
	assert.False(t, ok)
}
