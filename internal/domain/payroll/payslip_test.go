package payroll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayslip(t *testing.T, gross int64) *Payslip {
	t.Helper()
	p, err := NewPayslip(uuid.New(), "PAY-202508-00001", uuid.New(), "Thandi Ngcobo", "EMP-042",
		2025, time.August, decimal.NewFromInt(gross), decimal.Zero)
	require.NoError(t, err)
	return p
}

func TestNewPayslipDeductions(t *testing.T) {
	t.Run("deductions derived from gross", func(t *testing.T) {
		// R30,000/month: annual 360,000 -> 42,678 + 26% of 122,900 = 74,632
		// less rebate 17,235 = 57,397; /12 = 4,783.08
		p := newTestPayslip(t, 30000)
		assert.True(t, p.PAYE.Equal(decimal.NewFromFloat(4783.08)), "paye %s", p.PAYE)
		assert.True(t, p.UIFEmployee.Equal(decimal.NewFromFloat(177.12)), "uif %s", p.UIFEmployee)
		assert.True(t, p.SDL.Equal(decimal.NewFromInt(300)), "sdl %s", p.SDL)
		assert.True(t, p.NetPay.Equal(decimal.NewFromFloat(25039.80)), "net %s", p.NetPay)
	})

	t.Run("uif capped at ceiling", func(t *testing.T) {
		p := newTestPayslip(t, 100000)
		assert.True(t, p.UIFEmployee.Equal(decimal.NewFromFloat(177.12)), "uif %s", p.UIFEmployee)
	})

	t.Run("low earner below rebate pays no paye", func(t *testing.T) {
		p := newTestPayslip(t, 7000)
		assert.True(t, p.PAYE.IsZero(), "paye %s", p.PAYE)
	})

	t.Run("allowances included in gross", func(t *testing.T) {
		p, err := NewPayslip(uuid.New(), "PAY-202508-00002", uuid.New(), "Thandi Ngcobo", "EMP-042",
			2025, time.August, decimal.NewFromInt(25000), decimal.NewFromInt(5000))
		require.NoError(t, err)
		assert.True(t, p.GrossPay.Equal(decimal.NewFromInt(30000)))
		assert.True(t, p.PAYE.Equal(decimal.NewFromFloat(4783.08)), "paye %s", p.PAYE)
	})
}

func TestPayslipEmployerCost(t *testing.T) {
	p := newTestPayslip(t, 30000)
	// 30,000 + 177.12 employer UIF + 300 SDL
	assert.True(t, p.EmployerCost().Equal(decimal.NewFromFloat(30477.12)), "got %s", p.EmployerCost())
}

func TestPayslipLifecycle(t *testing.T) {
	t.Run("finalise then pay", func(t *testing.T) {
		p := newTestPayslip(t, 30000)
		require.NoError(t, p.Finalise())
		assert.Equal(t, PayslipStatusFinalised, p.Status)
		require.NoError(t, p.MarkPaid())
		assert.Equal(t, PayslipStatusPaid, p.Status)
	})

	t.Run("cannot pay draft", func(t *testing.T) {
		p := newTestPayslip(t, 30000)
		assert.Error(t, p.MarkPaid())
	})

	t.Run("earnings locked after finalise", func(t *testing.T) {
		p := newTestPayslip(t, 30000)
		require.NoError(t, p.Finalise())
		assert.Error(t, p.UpdateEarnings(decimal.NewFromInt(40000), decimal.Zero))
	})

	t.Run("update recomputes deductions", func(t *testing.T) {
		p := newTestPayslip(t, 30000)
		require.NoError(t, p.UpdateEarnings(decimal.NewFromInt(10000), decimal.Zero))
		assert.True(t, p.UIFEmployee.Equal(decimal.NewFromInt(100)), "uif %s", p.UIFEmployee)
	})

	t.Run("void requires reason and blocks paid", func(t *testing.T) {
		p := newTestPayslip(t, 30000)
		assert.Error(t, p.Void(""))
		require.NoError(t, p.Void("duplicate run"))

		q := newTestPayslip(t, 30000)
		require.NoError(t, q.Finalise())
		require.NoError(t, q.MarkPaid())
		assert.Error(t, q.Void("too late"))
	})
}
