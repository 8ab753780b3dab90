package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewRazorpayClient("key", "secret", "whsec")
	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, client.VerifyWebhookSignature(body, sign("whsec", body)))
	assert.False(t, client.VerifyWebhookSignature(body, sign("wrong", body)))
	assert.False(t, client.VerifyWebhookSignature(body, "not-a-signature"))
	assert.False(t, client.VerifyWebhookSignature([]byte(`tampered`), sign("whsec", body)))
}

func TestWebhookEventDecoding(t *testing.T) {
	raw := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_123", "order_id": "order_456"}}}
	}`)

	var event WebhookEvent
	require.NoError(t, json.Unmarshal(raw, &event))

	assert.Equal(t, EventPaymentCaptured, event.Event)
	assert.Equal(t, "pay_123", event.Payload.Payment.Entity.ID)
	assert.Equal(t, "order_456", event.Payload.Payment.Entity.OrderID)
}
