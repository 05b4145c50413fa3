package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"time"
)

// FunctionBinding maps one (target, selector) pair to the role required to
// call it. Multiple selectors may map to the same role; the last writer wins.
type FunctionBinding struct {
	Target    string    `json:"target"`
	Selector  string    `json:"selector"`
	RoleID    uint64    `json:"role_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessDecision is the result of evaluating one principal against one
// (target, selector) pair. Bound is false when no binding exists, in which
// case the calling component applies its own owner-only/public policy.
type AccessDecision struct {
	Principal string        `json:"principal"`
	Target    string        `json:"target"`
	Selector  string        `json:"selector"`
	Bound     bool          `json:"bound"`
	RoleID    uint64        `json:"role_id,omitempty"`
	Allowed   bool          `json:"allowed"`
	Delay     time.Duration `json:"delay,omitempty"`
	CheckedAt time.Time     `json:"checked_at"`
}

var selectorPattern = regexp.MustCompile(`^0x[0-9a-f]{8}$`)

// IsValidSelector reports whether value is a 0x-prefixed 4-byte hex selector.
func IsValidSelector(value string) bool {
	return selectorPattern.MatchString(value)
}

// SelectorFromSignature derives the opaque 4-byte selector for a function
// signature, e.g. "mintAuthorizer(address)".
func SelectorFromSignature(signature string) string {
	sum := sha256.Sum256([]byte(signature))
	return "0x" + hex.EncodeToString(sum[:4])
}
