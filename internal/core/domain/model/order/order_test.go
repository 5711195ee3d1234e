package order_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
	"washline/internal/pkg/errs"
)

func validCharges(t *testing.T) order.Charges {
	t.Helper()
	charges, err := order.NewCharges(2500, 500, 0, 240)
	require.NoError(t, err)
	return charges
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), "ORD-0A1B2C3D", kernel.NewUUID(),
		kernel.NewUUID(), kernel.NewUUID(),
		10, false, validCharges(t), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	return o
}

func orderInStatus(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	var pickupDriverID, deliveryDriverID *kernel.UUID
	if status >= order.Assigned && status != order.Cancelled {
		id := kernel.NewUUID()
		pickupDriverID = &id
	}
	if status >= order.OutForDelivery && status != order.Cancelled {
		id := kernel.NewUUID()
		deliveryDriverID = &id
	}

	now := time.Now().UTC()
	o, err := order.RestoreOrder(
		kernel.NewUUID(), "ORD-0A1B2C3D", status,
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		10, nil, nil, false, validCharges(t),
		pickupDriverID, deliveryDriverID,
		now, now, now)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order with all valid parameters", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, 10, o.ConfirmedItemCount())
		assert.Nil(t, o.PickupItemCount())
		assert.Nil(t, o.PickupDriver())
		assert.Nil(t, o.DeliveryDriver())
		assert.Equal(t, int64(3240), o.Charges().TotalCents)
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID
		o, err := order.NewOrder(
			invalidID, "ORD-0A1B2C3D", kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(),
			10, false, validCharges(t), time.Now())

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with empty order number", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), "  ", kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(),
			10, false, validCharges(t), time.Now())

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with zero item count", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), "ORD-0A1B2C3D", kernel.NewUUID(),
			kernel.NewUUID(), kernel.NewUUID(),
			0, false, validCharges(t), time.Now())

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})
}

func TestRestoreOrder_DriverConsistency(t *testing.T) {
	now := time.Now().UTC()
	driverID := kernel.NewUUID()

	t.Run("should reject pickup driver on pending order", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.NewUUID(), "ORD-0A1B2C3D", order.Pending,
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			10, nil, nil, false, validCharges(t),
			&driverID, nil, now, now, now)

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should reject assigned order without pickup driver", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.NewUUID(), "ORD-0A1B2C3D", order.Assigned,
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			10, nil, nil, false, validCharges(t),
			nil, nil, now, now, now)

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should keep assignments on cancelled order", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.NewUUID(), "ORD-0A1B2C3D", order.Cancelled,
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			10, nil, nil, false, validCharges(t),
			&driverID, nil, now, now, now)

		require.NoError(t, err)
		require.NotNil(t, o.PickupDriver())
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("should advance from canonical predecessor", func(t *testing.T) {
		o := orderInStatus(t, order.Assigned)

		require.NoError(t, o.ChangeStatus(order.DriverEnRoutePickup))
		assert.Equal(t, order.DriverEnRoutePickup, o.Status())
	})

	t.Run("should conflict on repeated transition", func(t *testing.T) {
		o := orderInStatus(t, order.Assigned)

		require.NoError(t, o.ChangeStatus(order.DriverEnRoutePickup))
		err := o.ChangeStatus(order.DriverEnRoutePickup)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.DriverEnRoutePickup, o.Status())
	})

	t.Run("should conflict on skipped predecessor", func(t *testing.T) {
		o := orderInStatus(t, order.Assigned)

		err := o.ChangeStatus(order.ArrivedPickup)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("should reject assignment outside courier acceptance", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.ChangeStatus(order.Assigned)

		require.ErrorIs(t, err, errs.ErrValidationFailed)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should reject out_for_delivery outside courier acceptance", func(t *testing.T) {
		o := orderInStatus(t, order.Ready)

		err := o.ChangeStatus(order.OutForDelivery)

		require.ErrorIs(t, err, errs.ErrValidationFailed)
	})

	t.Run("should reject transition into pending", func(t *testing.T) {
		o := orderInStatus(t, order.Cleaning)

		err := o.ChangeStatus(order.Pending)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should reject transitions out of delivered", func(t *testing.T) {
		o := orderInStatus(t, order.Delivered)

		err := o.ChangeStatus(order.ArrivedDelivery)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel from any non-terminal status", func(t *testing.T) {
		for _, status := range []order.Status{
			order.Pending, order.Assigned, order.PickedUp, order.Cleaning, order.OutForDelivery,
		} {
			o := orderInStatus(t, status)
			require.NoError(t, o.ChangeStatus(order.Cancelled), "from %s", status)
			assert.Equal(t, order.Cancelled, o.Status())
		}
	})

	t.Run("should conflict on double cancel", func(t *testing.T) {
		o := orderInStatus(t, order.Cancelled)

		err := o.ChangeStatus(order.Cancelled)

		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should not cancel a delivered order", func(t *testing.T) {
		o := orderInStatus(t, order.Delivered)

		err := o.ChangeStatus(order.Cancelled)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should not revive a cancelled order", func(t *testing.T) {
		o := orderInStatus(t, order.Cancelled)

		err := o.ChangeStatus(order.InFacility)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrder_ApplyCheckpointTransition(t *testing.T) {
	sources := []order.Status{order.Assigned, order.DriverEnRoutePickup, order.ArrivedPickup}

	t.Run("should advance from any admissible source", func(t *testing.T) {
		for _, from := range sources {
			o := orderInStatus(t, from)
			require.NoError(t, o.ApplyCheckpointTransition(order.PickedUp, sources...), "from %s", from)
			assert.Equal(t, order.PickedUp, o.Status())
		}
	})

	t.Run("should conflict on duplicate scan", func(t *testing.T) {
		o := orderInStatus(t, order.PickedUp)

		err := o.ApplyCheckpointTransition(order.PickedUp, sources...)

		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should reject scan from outside the source set", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.ApplyCheckpointTransition(order.PickedUp, sources...)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should reject scan on cancelled order", func(t *testing.T) {
		o := orderInStatus(t, order.Cancelled)

		err := o.ApplyCheckpointTransition(order.PickedUp, sources...)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrder_AcceptPickup(t *testing.T) {
	t.Run("should assign driver and move to assigned", func(t *testing.T) {
		o := newPendingOrder(t)
		driverID := kernel.NewUUID()

		require.NoError(t, o.AcceptPickup(driverID))
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.PickupDriver())
		assert.True(t, driverID.IsEqual(*o.PickupDriver()))
	})

	t.Run("should conflict once the order left pending", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.AcceptPickup(kernel.NewUUID()))

		err := o.AcceptPickup(kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Assigned, o.Status())
	})
}

func TestOrder_AcceptDelivery(t *testing.T) {
	t.Run("should assign driver and move to out_for_delivery", func(t *testing.T) {
		o := orderInStatus(t, order.Ready)
		driverID := kernel.NewUUID()

		require.NoError(t, o.AcceptDelivery(driverID))
		assert.Equal(t, order.OutForDelivery, o.Status())
		require.NotNil(t, o.DeliveryDriver())
		assert.True(t, driverID.IsEqual(*o.DeliveryDriver()))
	})

	t.Run("should conflict before the order is ready", func(t *testing.T) {
		o := orderInStatus(t, order.Cleaning)

		err := o.AcceptDelivery(kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestOrder_ItemCounts(t *testing.T) {
	t.Run("pickup count matching declared count raises no mismatch", func(t *testing.T) {
		o := newPendingOrder(t)

		mismatch, err := o.RecordPickupCount(10)

		require.NoError(t, err)
		assert.False(t, mismatch)
		require.NotNil(t, o.PickupItemCount())
		assert.Equal(t, 10, *o.PickupItemCount())
	})

	t.Run("pickup count diverging from declared count is recorded with mismatch", func(t *testing.T) {
		o := newPendingOrder(t)

		mismatch, err := o.RecordPickupCount(8)

		require.NoError(t, err)
		assert.True(t, mismatch)
		assert.Equal(t, 8, *o.PickupItemCount())
	})

	t.Run("reception count reconciles against pickup count when present", func(t *testing.T) {
		o := newPendingOrder(t)
		_, err := o.RecordPickupCount(8)
		require.NoError(t, err)

		mismatch, err := o.RecordReceptionCount(8)

		require.NoError(t, err)
		assert.False(t, mismatch, "reception matches what was picked up, not what was declared")
	})

	t.Run("reception count falls back to declared count", func(t *testing.T) {
		o := newPendingOrder(t)

		mismatch, err := o.RecordReceptionCount(9)

		require.NoError(t, err)
		assert.True(t, mismatch)
	})

	t.Run("negative counts are rejected", func(t *testing.T) {
		o := newPendingOrder(t)

		_, err := o.RecordPickupCount(-1)
		require.Error(t, err)

		_, err = o.RecordReceptionCount(-1)
		require.Error(t, err)
	})
}
