package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gowebpki/jcs"
)

// VerifyGitHubSignature verifies the X-Hub-Signature-256 header of an inbound
// GitHub webhook against the shared secret. The header carries the hex
// HMAC-SHA256 of the raw request body with a "sha256=" prefix.
func VerifyGitHubSignature(secret string, body []byte, signatureHeader string) bool {
	if secret == "" || signatureHeader == "" {
		return false
	}

	provided, ok := strings.CutPrefix(signatureHeader, "sha256=")
	if !ok {
		return false
	}
	providedBytes, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hmac.Equal(h.Sum(nil), providedBytes)
}

// GenerateSignedPayload generates a signed webhook payload with HMAC-SHA256 signature.
// The payload is canonicalized with JCS (RFC 8785) so that clients re-serializing
// the JSON arrive at the same bytes. Secrets are hex-encoded at rest.
// Returns the JSON payload, signature header value, timestamp, and any error
func GenerateSignedPayload(hexSecret string, event Event, now time.Time) (payload []byte, signature string, timestamp int64, err error) {
	secret, err := hex.DecodeString(hexSecret)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to decode hex secret: %w", err)
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to marshal event: %w", err)
	}
	payload, err = jcs.Transform(raw)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to canonicalize event: %w", err)
	}

	timestamp = now.Unix()

	// Signature payload: {timestamp}.{event_id}.{json_body}
	// This format allows clients to verify:
	// 1. The timestamp to prevent replay attacks
	// 2. The event ID for deduplication
	// 3. The entire payload integrity
	signaturePayload := fmt.Sprintf("%d.%s.%s", timestamp, event.EventID, string(payload))

	h := hmac.New(sha256.New, secret)
	h.Write([]byte(signaturePayload))
	signature = "sha256=" + hex.EncodeToString(h.Sum(nil))

	return payload, signature, timestamp, nil
}
