package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACVerifier authenticates webhook notifications: the gateway signs the
// payment token with a shared secret, HMAC-SHA256, hex-encoded. Verification
// never errors on attacker input; anything malformed verifies false. An empty
// secret also verifies false so a misconfigured deployment fails closed.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(token, signature string) bool {
	if len(v.secret) == 0 || token == "" || signature == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(token))
	return hmac.Equal(provided, mac.Sum(nil))
}

// Sign produces the signature Verify expects. Exported for tests and for the
// mock flow, which signs its own synthetic notifications.
func (v *HMACVerifier) Sign(token string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
