package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/bakery-app/delivery"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/store/memory"
)

func sessionAtDelivery(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	require.NoError(t, s.Begin("uid-1", 2))
	return s
}

func TestBeginGuards(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.Begin("", 3), ErrLoginRequired)
	assert.Equal(t, StepCart, s.Step)

	err := s.Begin("uid-1", 0)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.True(t, models.IsValidation(err))
	assert.Equal(t, StepCart, s.Step)

	require.NoError(t, s.Begin("uid-1", 1))
	assert.Equal(t, StepDelivery, s.Step)
	assert.ErrorIs(t, s.Begin("uid-1", 1), ErrInvalidTransition)
}

func TestAdvancePickup(t *testing.T) {
	s := sessionAtDelivery(t)

	require.NoError(t, s.SetDelivery(DeliverySelection{Type: models.DeliveryPickup}))
	assert.True(t, models.IsValidation(s.Advance()))

	require.NoError(t, s.SetDelivery(DeliverySelection{Type: models.DeliveryPickup, Date: "2026-10-20"}))
	assert.True(t, models.IsValidation(s.Advance()))

	require.NoError(t, s.SetDelivery(DeliverySelection{Type: models.DeliveryPickup, Date: "2026-10-20", Time: "10:00"}))
	require.NoError(t, s.Advance())
	assert.Equal(t, StepCheckout, s.Step)
}

func TestAdvanceDeliveryNeedsVerifiedAvailableAddress(t *testing.T) {
	s := sessionAtDelivery(t)
	sel := DeliverySelection{Type: models.DeliveryHome, Date: "2026-10-20", Time: "10:00", Street: "Rua A", PostalCode: "4000-123"}
	require.NoError(t, s.SetDelivery(sel))

	assert.True(t, models.IsValidation(s.Advance()), "unverified address")

	require.NoError(t, s.RecordCalculation(delivery.DefaultFeePolicy().Quote(31)))
	assert.Equal(t, StepDelivery, s.Step)
	assert.True(t, models.IsValidation(s.Advance()), "address outside delivery area")

	far := delivery.DefaultFeePolicy().Quote(31)
	far.Verified = true
	require.NoError(t, s.RecordCalculation(far))
	assert.True(t, models.IsValidation(s.Advance()))

	ok := delivery.DefaultFeePolicy().Quote(15)
	ok.Verified = true
	require.NoError(t, s.RecordCalculation(ok))
	require.NoError(t, s.Advance())
	assert.Equal(t, StepCheckout, s.Step)
}

func TestChangingAddressDropsCalculation(t *testing.T) {
	s := sessionAtDelivery(t)
	require.NoError(t, s.SetDelivery(DeliverySelection{Type: models.DeliveryHome, Street: "Rua A", PostalCode: "4000-123"}))
	calc := delivery.DefaultFeePolicy().Quote(5)
	calc.Verified = true
	require.NoError(t, s.RecordCalculation(calc))

	require.NoError(t, s.SetDelivery(DeliverySelection{Type: models.DeliveryHome, Street: "Rua A", PostalCode: "4000-123", Date: "2026-10-20"}))
	assert.NotNil(t, s.Calculation)

	require.NoError(t, s.SetDelivery(DeliverySelection{Type: models.DeliveryHome, Street: "Rua B", PostalCode: "4000-123"}))
	assert.Nil(t, s.Calculation)

	require.NoError(t, s.RecordCalculation(calc))
	require.NoError(t, s.SetDelivery(DeliverySelection{Type: models.DeliveryPickup, Street: "Rua B"}))
	assert.Nil(t, s.Calculation)
	assert.Empty(t, s.Delivery.Street)
}

func TestRecordCalculationRequiresHomeDelivery(t *testing.T) {
	s := sessionAtDelivery(t)
	assert.True(t, models.IsValidation(s.RecordCalculation(delivery.Calculation{})))
}

func TestBack(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.Back(), ErrInvalidTransition)

	require.NoError(t, s.Begin("uid-1", 1))
	require.NoError(t, s.SetDelivery(DeliverySelection{Date: "2026-10-20", Time: "10:00"}))
	require.NoError(t, s.Advance())

	require.NoError(t, s.Back())
	assert.Equal(t, StepDelivery, s.Step)
	assert.Equal(t, "2026-10-20", s.Delivery.Date, "selection survives going back")
	require.NoError(t, s.Back())
	assert.Equal(t, StepCart, s.Step)
}

func TestConfirm(t *testing.T) {
	s := sessionAtDelivery(t)
	assert.ErrorIs(t, s.Confirm(PaymentSelection{Method: "MB WAY"}), ErrInvalidTransition)

	require.NoError(t, s.SetDelivery(DeliverySelection{Date: "2026-10-20", Time: "10:00"}))
	require.NoError(t, s.Advance())

	assert.True(t, models.IsValidation(s.Confirm(PaymentSelection{})))
	assert.True(t, models.IsValidation(s.Confirm(PaymentSelection{Method: "Bitcoin"})))
	assert.True(t, models.IsValidation(s.Confirm(PaymentSelection{Method: "MB WAY", WantsInvoice: true, TaxID: "12345678"})))

	require.NoError(t, s.Confirm(PaymentSelection{Method: "MB WAY", WantsInvoice: true, TaxID: "123 456 789"}))
	assert.Equal(t, "123456789", s.Payment.TaxID)

	require.NoError(t, s.Confirm(PaymentSelection{Method: "Dinheiro", TaxID: "999999999"}))
	assert.Empty(t, s.Payment.TaxID, "tax id is dropped when no invoice was requested")

	require.NoError(t, s.Complete("ORD-1"))
	assert.Equal(t, StepSuccess, s.Step)
	assert.ErrorIs(t, s.Back(), ErrInvalidTransition)

	require.NoError(t, s.Begin("uid-1", 1), "a finished session starts over")
	assert.Equal(t, StepDelivery, s.Step)
	assert.Empty(t, s.OrderID)
}

func TestValidateTaxID(t *testing.T) {
	_, err := ValidateTaxID("12345678")
	assert.True(t, models.IsValidation(err))

	id, err := ValidateTaxID("123456789")
	require.NoError(t, err)
	assert.Equal(t, "123456789", id)

	for _, bad := range []string{"", "1234567890", "12345678a"} {
		_, err := ValidateTaxID(bad)
		assert.Error(t, err, bad)
	}
}

func TestSessionPersistence(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()

	s, err := LoadSession(ctx, kv, "b1")
	require.NoError(t, err)
	assert.Equal(t, StepCart, s.Step)

	require.NoError(t, s.Begin("uid-1", 1))
	require.NoError(t, SaveSession(ctx, kv, "b1", s))

	again, err := LoadSession(ctx, kv, "b1")
	require.NoError(t, err)
	assert.Equal(t, StepDelivery, again.Step)

	other, err := LoadSession(ctx, kv, "b2")
	require.NoError(t, err)
	assert.Equal(t, StepCart, other.Step)
}
