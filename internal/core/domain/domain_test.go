package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeliveryStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status DeliveryStatus
		want   bool
	}{
		{"pending", DeliveryStatusPending, true},
		{"processing", DeliveryStatusProcessing, true},
		{"completed", DeliveryStatusCompleted, true},
		{"cancelled", DeliveryStatusCancelled, true},
		{"empty", DeliveryStatus(""), false},
		{"shipped", DeliveryStatus("shipped"), false},
		{"uppercase", DeliveryStatus("PENDING"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestTransactionType_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		txType TransactionType
		want   bool
	}{
		{"deposit", TransactionTypeDeposit, true},
		{"purchase", TransactionTypePurchase, true},
		{"withdrawal", TransactionTypeWithdrawal, true},
		{"refund", TransactionTypeRefund, true},
		{"sale", TransactionType("sale"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txType.IsValid())
		})
	}
}

func TestTransaction_IsCredit(t *testing.T) {
	deposit := &Transaction{Amount: decimal.RequireFromString("25.50")}
	purchase := &Transaction{Amount: decimal.RequireFromString("-9.99")}

	assert.True(t, deposit.IsCredit())
	assert.False(t, purchase.IsCredit())
}

func TestOrderItem_OwnedBy(t *testing.T) {
	seller := uuid.New()
	item := &OrderItem{ID: uuid.New(), SellerID: seller}

	assert.True(t, item.OwnedBy(seller))
	assert.False(t, item.OwnedBy(uuid.New()))
}

func TestSession(t *testing.T) {
	id := uuid.New()

	s := Authenticated(id)
	got, ok := s.Principal()
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.True(t, s.IsAuthenticated())

	anon := Unauthenticated()
	got, ok = anon.Principal()
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, got)

	var zero Session
	assert.False(t, zero.IsAuthenticated())
}

func TestSessionFromContext(t *testing.T) {
	assert.False(t, SessionFromContext(context.Background()).IsAuthenticated())

	id := uuid.New()
	ctx := ContextWithSession(context.Background(), Authenticated(id))
	got, ok := SessionFromContext(ctx).Principal()
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestDeliveryStatus_Constants(t *testing.T) {
	assert.Equal(t, DeliveryStatus("pending"), DeliveryStatusPending)
	assert.Equal(t, DeliveryStatus("processing"), DeliveryStatusProcessing)
	assert.Equal(t, DeliveryStatus("completed"), DeliveryStatusCompleted)
	assert.Equal(t, DeliveryStatus("cancelled"), DeliveryStatusCancelled)
	assert.Len(t, DeliveryStatuses, 4)
}

func TestClientIPFromContext(t *testing.T) {
	assert.Empty(t, ClientIPFromContext(context.Background()))

	ctx := ContextWithClientIP(context.Background(), "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ClientIPFromContext(ctx))
}
