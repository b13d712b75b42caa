// Package sigverify checks EIP-191 personal-sign signatures: it recovers
// the signing address from a (message, signature) pair and compares it to
// a claimed address. It is stateless and safe for concurrent use.
package sigverify

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Verify reports whether signature signs message as claimed. It is a total
// predicate: malformed input of any kind yields false, never an error.
func Verify(claimed, message, signature string) bool {
	if claimed == "" {
		return false
	}
	sig, err := decodeSig(signature)
	if err != nil {
		return false
	}
	pub, err := crypto.SigToPub(textHash(message), sig)
	if err != nil {
		return false
	}
	recovered := crypto.PubkeyToAddress(*pub)
	// Addresses are not case-sensitive identity (EIP-55 casing is
	// presentation only).
	return strings.EqualFold(recovered.Hex(), claimed)
}

// decodeSig parses a hex-encoded 65-byte [R || S || V] signature. Wallets
// emit V as 27/28; crypto.SigToPub wants 0/1.
func decodeSig(signature string) ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimSpace(signature), "0x")
	sig, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return nil, fmt.Errorf("invalid recovery id %d", sig[64])
	}
	return sig, nil
}

// textHash applies the EIP-191 prefix before hashing, matching what
// wallet personal_sign does. A message hashed without the prefix recovers
// a different (wrong) address, never a false positive.
func textHash(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}
