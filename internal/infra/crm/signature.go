package crm

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks an inbound webhook signature.
//
// The CRM signs webhooks with hex-encoded HMAC-SHA256 over the
// concatenation of the timestamp header and the raw request body. The
// comparison is constant-time. When no webhook secret is configured the
// client operates in open mode and every payload is accepted.
func (c *Client) VerifySignature(body []byte, timestamp, signature string) bool {
	if c.config.WebhookSecret == "" {
		return true
	}

	mac := hmac.New(sha256.New, []byte(c.config.WebhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignatureConfigured reports whether webhook signature verification is
// enabled. Exposed for the health endpoint's configuration flags.
func (c *Client) SignatureConfigured() bool {
	return c.config.WebhookSecret != ""
}
