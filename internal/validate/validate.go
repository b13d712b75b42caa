package validate

import (
	"regexp"
	"strings"
)

var (
	reNftID   = regexp.MustCompile(`^[A-Za-z0-9:._-]{1,128}$`)
	reAddress = regexp.MustCompile(`^[\x21-\x7e]{1,128}$`)
	rePrice   = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// NftID validates a token identifier.
func NftID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reNftID.MatchString(s)
}

// Address validates a wallet address. Both 0x-hex and bech32-style
// addresses pass; the check only rejects whitespace/control characters
// and oversized input.
func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reAddress.MatchString(s)
}

// Price validates a decimal-as-string amount.
func Price(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 64 {
		return "", false
	}
	return s, rePrice.MatchString(s)
}

// Prompt validates free-text prompt input: trims and enforces a max length.
func Prompt(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 2000 {
		return "", false
	}
	return s, true
}
