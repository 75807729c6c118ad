// Package signature verifies the HMAC signatures GitHub attaches to webhook
// deliveries.
package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

const (
	Header          = "X-Hub-Signature"
	Header256       = "X-Hub-Signature-256"
	AlgorithmSHA1   = "sha1"
	AlgorithmSHA256 = "sha256"
)

// AuthenticationError is returned for every signature that cannot be
// accepted. Callers should reject the request without processing it.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook authentication failed: %s: %s", e.Reason, e.Err)
	}
	return "webhook authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func hashFor(algorithm string) (func() hash.Hash, bool) {
	switch algorithm {
	case AlgorithmSHA1:
		return sha1.New, true
	case AlgorithmSHA256:
		return sha256.New, true
	}
	return nil, false
}

// Verify checks a "<algorithm>=<hex digest>" header value against the HMAC of
// body keyed with secret.
func Verify(body []byte, header string, secret string) error {
	if header == "" {
		return &AuthenticationError{Reason: "missing signature"}
	}

	separator := strings.Index(header, "=")
	if separator == -1 {
		return &AuthenticationError{Reason: "no algorithm prefix"}
	}

	algorithm := strings.ToLower(header[:separator])
	hashFunc, ok := hashFor(algorithm)
	if !ok {
		return &AuthenticationError{Reason: fmt.Sprintf("unsupported signature algorithm %q", algorithm)}
	}

	actual, err := hex.DecodeString(header[separator+1:])
	if err != nil {
		return &AuthenticationError{Reason: "malformed digest", Err: err}
	}

	if !hmac.Equal(digest(hashFunc, body, secret), actual) {
		return &AuthenticationError{Reason: "signature mismatch"}
	}

	return nil
}

// Sign returns the header value GitHub would send for body.
func Sign(body []byte, algorithm string, secret string) (string, error) {
	algorithm = strings.ToLower(algorithm)
	hashFunc, ok := hashFor(algorithm)
	if !ok {
		return "", fmt.Errorf("unsupported signature algorithm %q", algorithm)
	}
	return algorithm + "=" + hex.EncodeToString(digest(hashFunc, body, secret)), nil
}

func digest(hashFunc func() hash.Hash, body []byte, secret string) []byte {
	mac := hmac.New(hashFunc, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
