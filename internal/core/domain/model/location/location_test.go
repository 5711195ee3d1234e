package location_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/location"
	"washline/internal/pkg/errs"
)

func floatPtr(v float64) *float64 { return &v }

func TestNewLocation(t *testing.T) {
	t.Run("should create location with coordinates", func(t *testing.T) {
		l, err := location.NewLocation(
			kernel.NewUUID(), kernel.NewUUID(), "home", "123 Main St",
			floatPtr(40.7128), floatPtr(-74.0060))

		require.NoError(t, err)
		require.NoError(t, l.Validate())
		assert.Equal(t, "home", l.Label())
		assert.Equal(t, "123 Main St", l.Address())
		require.NotNil(t, l.Latitude())
		assert.InDelta(t, 40.7128, *l.Latitude(), 1e-9)
	})

	t.Run("coordinates are optional", func(t *testing.T) {
		l, err := location.NewLocation(
			kernel.NewUUID(), kernel.NewUUID(), "office", "456 Oak Ave", nil, nil)

		require.NoError(t, err)
		assert.Nil(t, l.Latitude())
		assert.Nil(t, l.Longitude())
	})

	t.Run("should fail with only one coordinate", func(t *testing.T) {
		_, err := location.NewLocation(
			kernel.NewUUID(), kernel.NewUUID(), "home", "123 Main St",
			floatPtr(40.7128), nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should fail with out of range coordinates", func(t *testing.T) {
		_, err := location.NewLocation(
			kernel.NewUUID(), kernel.NewUUID(), "home", "123 Main St",
			floatPtr(91), floatPtr(0))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = location.NewLocation(
			kernel.NewUUID(), kernel.NewUUID(), "home", "123 Main St",
			floatPtr(0), floatPtr(-181))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should fail with blank address", func(t *testing.T) {
		_, err := location.NewLocation(
			kernel.NewUUID(), kernel.NewUUID(), "home", "   ", nil, nil)

		require.ErrorIs(t, err, location.ErrAddressIsRequired)
	})
}
