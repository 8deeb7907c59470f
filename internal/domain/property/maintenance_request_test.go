package property

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaintenanceRequest(t *testing.T) *MaintenanceRequest {
	t.Helper()
	m, err := NewMaintenanceRequest(uuid.New(), "MNT-202508-00001", uuid.New(), "Mokoena Holdings",
		"A-101", "Geyser leaking", "Water dripping from ceiling in unit A-101")
	require.NoError(t, err)
	return m
}

func TestNewMaintenanceRequest(t *testing.T) {
	t.Run("submits at medium priority", func(t *testing.T) {
		m := newTestMaintenanceRequest(t)
		assert.Equal(t, MaintenanceStatusSubmitted, m.Status)
		assert.Equal(t, MaintenancePriorityMedium, m.Priority)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewMaintenanceRequest(uuid.New(), "MNT-202508-00002", uuid.New(), "X", "A-101", "", "desc")
		assert.Error(t, err)
	})
}

func TestMaintenanceRequestFlow(t *testing.T) {
	t.Run("full forward path", func(t *testing.T) {
		m := newTestMaintenanceRequest(t)
		require.NoError(t, m.Triage(MaintenancePriorityHigh))
		assert.Equal(t, MaintenanceStatusTriaged, m.Status)

		require.NoError(t, m.Schedule("Khumalo Plumbing", time.Now().Add(48*time.Hour)))
		assert.Equal(t, MaintenanceStatusScheduled, m.Status)

		require.NoError(t, m.StartWork())
		assert.Equal(t, MaintenanceStatusInProgress, m.Status)

		require.NoError(t, m.Complete(decimal.NewFromFloat(3450.50), "Replaced geyser element"))
		assert.Equal(t, MaintenanceStatusCompleted, m.Status)
		require.NotNil(t, m.ActualCost)
		assert.True(t, m.ActualCost.Equal(decimal.NewFromFloat(3450.50)))
	})

	t.Run("cannot skip triage", func(t *testing.T) {
		m := newTestMaintenanceRequest(t)
		assert.Error(t, m.Schedule("Khumalo Plumbing", time.Now().Add(time.Hour)))
	})

	t.Run("cannot start unscheduled", func(t *testing.T) {
		m := newTestMaintenanceRequest(t)
		require.NoError(t, m.Triage(MaintenancePriorityLow))
		assert.Error(t, m.StartWork())
	})

	t.Run("schedule rejects past date", func(t *testing.T) {
		m := newTestMaintenanceRequest(t)
		require.NoError(t, m.Triage(MaintenancePriorityLow))
		assert.Error(t, m.Schedule("Khumalo Plumbing", time.Now().Add(-time.Hour)))
	})

	t.Run("complete rejects negative cost", func(t *testing.T) {
		m := newTestMaintenanceRequest(t)
		require.NoError(t, m.Triage(MaintenancePriorityHigh))
		require.NoError(t, m.Schedule("Khumalo Plumbing", time.Now().Add(time.Hour)))
		require.NoError(t, m.StartWork())
		assert.Error(t, m.Complete(decimal.NewFromInt(-1), ""))
	})

	t.Run("cancel blocked once in progress", func(t *testing.T) {
		m := newTestMaintenanceRequest(t)
		require.NoError(t, m.Triage(MaintenancePriorityHigh))
		require.NoError(t, m.Schedule("Khumalo Plumbing", time.Now().Add(time.Hour)))
		require.NoError(t, m.StartWork())
		assert.Error(t, m.Cancel("changed mind"))
	})

	t.Run("cancel before work starts", func(t *testing.T) {
		m := newTestMaintenanceRequest(t)
		require.NoError(t, m.Cancel("reported in error"))
		assert.Equal(t, MaintenanceStatusCancelled, m.Status)
	})
}
