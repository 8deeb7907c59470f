package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAnnualIncomeTax(t *testing.T) {
	tests := []struct {
		name    string
		taxable float64
		want    float64
	}{
		{"zero income", 0, 0},
		{"negative income", -1000, 0},
		{"first bracket", 100000, 18000},
		{"first bracket upper edge", 237100, 42678},
		{"second bracket", 300000, 59032},  // 42678 + 26% of 62900
		{"third bracket", 400000, 86507},   // 77362 + 31% of 29500
		{"fourth bracket", 600000, 152867}, // 121475 + 36% of 87200
		{"fifth bracket", 700000, 189677},  // 179147 + 39% of 27000
		{"sixth bracket", 1000000, 309519}, // 251258 + 41% of 142100
		{"top bracket", 2000000, 726839},   // 644489 + 45% of 183000
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnnualIncomeTax(decimal.NewFromFloat(tt.taxable))
			assert.True(t, got.Equal(decimal.NewFromFloat(tt.want)),
				"got %s, want %v", got, tt.want)
		})
	}
}

func TestAnnualPAYE(t *testing.T) {
	t.Run("rebate applied", func(t *testing.T) {
		// 18% of 100000 = 18000, minus 17235 rebate = 765
		got := AnnualPAYE(decimal.NewFromInt(100000))
		assert.True(t, got.Equal(decimal.NewFromInt(765)), "got %s", got)
	})

	t.Run("below tax threshold pays nothing", func(t *testing.T) {
		// 18% of 90000 = 16200 < 17235 rebate
		got := AnnualPAYE(decimal.NewFromInt(90000))
		assert.True(t, got.IsZero(), "got %s", got)
	})
}

func TestMonthlyPAYE(t *testing.T) {
	t.Run("R30000 per month", func(t *testing.T) {
		// Annual 360000: 42678 + 26% of 122900 = 74632, minus 17235 = 57397; /12 = 4783.08
		got := MonthlyPAYE(decimal.NewFromInt(30000))
		assert.True(t, got.Equal(decimal.NewFromFloat(4783.08)), "got %s", got)
	})

	t.Run("low earner pays nothing", func(t *testing.T) {
		got := MonthlyPAYE(decimal.NewFromInt(7000))
		assert.True(t, got.IsZero(), "got %s", got)
	})
}

func TestMonthlyUIF(t *testing.T) {
	t.Run("one percent below ceiling", func(t *testing.T) {
		got := MonthlyUIFEmployee(decimal.NewFromInt(10000))
		assert.True(t, got.Equal(decimal.NewFromInt(100)), "got %s", got)
	})

	t.Run("capped at ceiling", func(t *testing.T) {
		got := MonthlyUIFEmployee(decimal.NewFromInt(50000))
		assert.True(t, got.Equal(UIFMonthlyCapEach), "got %s", got)
	})

	t.Run("total is double employee", func(t *testing.T) {
		got := MonthlyUIFTotal(decimal.NewFromInt(10000))
		assert.True(t, got.Equal(decimal.NewFromInt(200)), "got %s", got)
	})

	t.Run("zero gross", func(t *testing.T) {
		assert.True(t, MonthlyUIFEmployee(decimal.Zero).IsZero())
	})
}

func TestMonthlySDL(t *testing.T) {
	got := MonthlySDL(decimal.NewFromInt(25000))
	assert.True(t, got.Equal(decimal.NewFromInt(250)), "got %s", got)
	assert.True(t, MonthlySDL(decimal.Zero).IsZero())
}
