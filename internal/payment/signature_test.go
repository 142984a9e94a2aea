package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndVerify(t *testing.T) {
	message := ConfirmationMessage("order_rzp1", "pay_abc")
	signature := Sign("key-secret", message)

	assert.True(t, VerifySignature("key-secret", message, signature))
	assert.False(t, VerifySignature("other-secret", message, signature))
	assert.False(t, VerifySignature("key-secret", []byte("order_rzp1|pay_xyz"), signature))
	assert.False(t, VerifySignature("key-secret", message, signature+"00"))
}

func TestConfirmationMessageFraming(t *testing.T) {
	assert.Equal(t, []byte("order_rzp1|pay_abc"), ConfirmationMessage("order_rzp1", "pay_abc"))
}

func TestSignIsDeterministicHex(t *testing.T) {
	first := Sign("key-secret", []byte("payload"))
	second := Sign("key-secret", []byte("payload"))

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{0, 0},
		{1, 100},
		{249.50, 24950},
		{0.1 + 0.2, 30},
		{99.995, 10000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MinorUnits(tt.amount), "amount %v", tt.amount)
	}
}
