package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signFor(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test_key_secret"
	const orderID = "order_NXhj4Fqv2abc"
	const paymentID = "pay_NXhkPqw9xyz"

	valid := signFor(orderID, paymentID, secret)

	assert.True(t, VerifySignature(orderID, paymentID, valid, secret))

	// Any tampered field breaks the signature
	assert.False(t, VerifySignature("order_other", paymentID, valid, secret))
	assert.False(t, VerifySignature(orderID, "pay_other", valid, secret))
	assert.False(t, VerifySignature(orderID, paymentID, valid, "wrong_secret"))
	assert.False(t, VerifySignature(orderID, paymentID, "deadbeef", secret))
	assert.False(t, VerifySignature(orderID, paymentID, "", secret))
}
