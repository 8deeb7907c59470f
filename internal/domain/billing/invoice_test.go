package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), "INV-202508-00001", uuid.New(), "Mokoena Holdings", "accounts@mokoena.example")
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft with created event", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.Total.IsZero())
		assert.Len(t, inv.GetDomainEvents(), 1)
		assert.Equal(t, "InvoiceCreated", inv.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "", uuid.New(), "Mokoena Holdings", "")
		assert.Error(t, err)
	})

	t.Run("rejects nil customer", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-202508-00001", uuid.Nil, "Mokoena Holdings", "")
		assert.Error(t, err)
	})
}

func TestInvoiceLines(t *testing.T) {
	t.Run("totals derive from lines with VAT", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddLine("Office rental August", decimal.NewFromInt(1), decimal.NewFromInt(10000))
		require.NoError(t, err)
		_, err = inv.AddLine("Parking bays", decimal.NewFromInt(4), decimal.NewFromInt(500))
		require.NoError(t, err)

		assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(12000)), "subtotal %s", inv.Subtotal)
		assert.True(t, inv.VATAmount.Equal(decimal.NewFromInt(1800)), "vat %s", inv.VATAmount)
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(13800)), "total %s", inv.Total)
	})

	t.Run("remove line recalculates", func(t *testing.T) {
		inv := newTestInvoice(t)
		line, err := inv.AddLine("Office rental August", decimal.NewFromInt(1), decimal.NewFromInt(10000))
		require.NoError(t, err)
		require.NoError(t, inv.RemoveLine(line.ID))
		assert.True(t, inv.Total.IsZero())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddLine("Office rental August", decimal.Zero, decimal.NewFromInt(10000))
		assert.Error(t, err)
	})

	t.Run("rejects edits after send", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddLine("Office rental August", decimal.NewFromInt(1), decimal.NewFromInt(10000))
		require.NoError(t, err)
		require.NoError(t, inv.Send(time.Now().Add(14*24*time.Hour)))
		_, err = inv.AddLine("Late addition", decimal.NewFromInt(1), decimal.NewFromInt(100))
		assert.Error(t, err)
	})
}

func TestInvoiceLifecycle(t *testing.T) {
	t.Run("send requires lines", func(t *testing.T) {
		inv := newTestInvoice(t)
		err := inv.Send(time.Now().Add(24 * time.Hour))
		assert.Error(t, err)
	})

	t.Run("send rejects past due date", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddLine("Office rental August", decimal.NewFromInt(1), decimal.NewFromInt(10000))
		require.NoError(t, err)
		assert.Error(t, inv.Send(time.Now().Add(-time.Hour)))
	})

	t.Run("full paid path", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddLine("Office rental August", decimal.NewFromInt(1), decimal.NewFromInt(10000))
		require.NoError(t, err)
		require.NoError(t, inv.Send(time.Now().Add(14*24*time.Hour)))
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		require.NoError(t, inv.MarkPaid(PaymentMethodBankTransfer))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		require.NotNil(t, inv.PaidAt)
	})

	t.Run("overdue then paid", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddLine("Office rental August", decimal.NewFromInt(1), decimal.NewFromInt(10000))
		require.NoError(t, err)
		require.NoError(t, inv.Send(time.Now().Add(time.Hour)))
		require.NoError(t, inv.MarkOverdue(time.Now().Add(48*time.Hour)))
		assert.Equal(t, InvoiceStatusOverdue, inv.Status)
		require.NoError(t, inv.MarkPaid(PaymentMethodCard))
	})

	t.Run("overdue requires lapsed due date", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddLine("Office rental August", decimal.NewFromInt(1), decimal.NewFromInt(10000))
		require.NoError(t, err)
		require.NoError(t, inv.Send(time.Now().Add(14*24*time.Hour)))
		assert.Error(t, inv.MarkOverdue(time.Now()))
	})

	t.Run("cancel requires reason", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Error(t, inv.Cancel(""))
		require.NoError(t, inv.Cancel("duplicate capture"))
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	})

	t.Run("paid invoice cannot be cancelled", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddLine("Office rental August", decimal.NewFromInt(1), decimal.NewFromInt(10000))
		require.NoError(t, err)
		require.NoError(t, inv.Send(time.Now().Add(time.Hour)))
		require.NoError(t, inv.MarkPaid(PaymentMethodCash))
		assert.Error(t, inv.Cancel("too late"))
	})
}
