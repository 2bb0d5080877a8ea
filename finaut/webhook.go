package finaut

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// WebhookSignatureHeader is the request header carrying the webhook signature.
const WebhookSignatureHeader = "X-Hub-Signature"

// VerifyWebhookSignature reports whether signature matches the HMAC-SHA256 of
// payload keyed with secret. The expected format is "sha256=<hex digest>",
// as sent in the X-Hub-Signature header. The comparison is constant-time.
func VerifyWebhookSignature(payload []byte, signature, secret string) bool {
	digest, ok := strings.CutPrefix(signature, "sha256=")
	if !ok {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(digest))
}

// SignWebhookPayload computes the signature VerifyWebhookSignature expects.
// Useful for testing webhook receivers.
func SignWebhookPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
