package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	payload := map[string]any{
		"orderCode":   float64(42),
		"amount":      float64(150000),
		"description": "Order #42",
		"signature":   "should-be-excluded",
		"cancelled":   false,
		"reference":   nil,
	}

	got := Canonicalize(payload)
	assert.Equal(t, "amount=150000&cancelled=false&description=Order #42&orderCode=42&reference=", got)
}

func TestCanonicalizeNestedData(t *testing.T) {
	payload := map[string]any{
		"code": "00",
		"data": map[string]any{
			"orderCode": float64(7),
			"status":    "PAID",
		},
	}

	got := Canonicalize(payload)
	assert.Equal(t, `code=00&data={"orderCode":7,"status":"PAID"}`, got)
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	const key = "test-checksum-key"
	payload := map[string]any{
		"orderCode": float64(42),
		"amount":    float64(150000),
		"status":    "PAID",
	}

	sig := Sign(key, payload)
	payload["signature"] = sig

	assert.True(t, VerifySignature(key, sig, payload))
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	const key = "test-checksum-key"
	payload := map[string]any{
		"orderCode": float64(42),
		"amount":    float64(150000),
		"status":    "CANCELLED",
	}
	sig := Sign(key, payload)

	// Flip the status while keeping the stale signature.
	payload["status"] = "PAID"
	payload["signature"] = sig

	assert.False(t, VerifySignature(key, sig, payload))
}

func TestVerifySignatureRejectsWrongKey(t *testing.T) {
	payload := map[string]any{"orderCode": float64(1)}
	sig := Sign("key-a", payload)
	assert.False(t, VerifySignature("key-b", sig, payload))
}

func TestVerifySignatureRejectsEmptySignature(t *testing.T) {
	assert.False(t, VerifySignature("key", "", map[string]any{"a": "b"}))
}
