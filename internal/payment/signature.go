package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex-encoded HMAC-SHA256 of message under secret.
func Sign(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature for message under secret
// and compares it against the provided value in constant time. Both the
// client confirmation path and the webhook path go through here; only the
// secret and the message framing differ.
func VerifySignature(secret string, message []byte, provided string) bool {
	expected := Sign(secret, message)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// ConfirmationMessage frames the client-confirmation payload the way the
// gateway signs it: gatewayOrderID + "|" + gatewayPaymentID.
func ConfirmationMessage(gatewayOrderID, gatewayPaymentID string) []byte {
	return []byte(gatewayOrderID + "|" + gatewayPaymentID)
}
