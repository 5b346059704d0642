package blockchain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// The registry contract exposes a single read-only function:
//
//	get(bytes32 idHash) -> (bytes32 idHash, address issuer, uint8 status)
//
// The ABI surface is small enough to encode by hand: four selector bytes
// followed by the 32-byte argument, and a fixed 96-byte return payload.

const getSignature = "get(bytes32)"

// record is the decoded contract return value.
type record struct {
	IDHash [32]byte
	Issuer [20]byte
	Status int
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// selector returns the 4-byte function selector for an ABI signature.
func selector(signature string) []byte {
	return keccak256([]byte(signature))[:4]
}

// parseHash decodes a hex id hash, with or without the 0x prefix. The decoded
// value must be exactly 32 bytes.
func parseHash(s string) ([32]byte, error) {
	var out [32]byte
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("decode id hash: %w", err)
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("id hash must be 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// encodeGetCall builds the 0x-prefixed calldata for get(idHash).
func encodeGetCall(idHash [32]byte) string {
	data := make([]byte, 0, 4+32)
	data = append(data, selector(getSignature)...)
	data = append(data, idHash[:]...)
	return "0x" + hex.EncodeToString(data)
}

// decodeGetResult unpacks the three return words. The address occupies the low
// 20 bytes of its word and uint8 the low byte of its word; the high bytes of
// both words must be zero in a well-formed response but are not checked.
func decodeGetResult(data []byte) (record, error) {
	var rec record
	if len(data) < 96 {
		return rec, fmt.Errorf("eth_call returned %d bytes, want 96", len(data))
	}
	copy(rec.IDHash[:], data[0:32])
	copy(rec.Issuer[:], data[44:64])
	rec.Status = int(data[95])
	return rec, nil
}

// isZeroHash reports whether every byte of the hash is zero, which the
// contract uses to signal an absent record.
func isZeroHash(h [32]byte) bool {
	for _, b := range h {
		if b != 0 {
			return false
		}
	}
	return true
}

// checksumAddress renders an address in EIP-55 mixed-case form.
func checksumAddress(addr [20]byte) string {
	lower := hex.EncodeToString(addr[:])
	hash := keccak256([]byte(lower))
	out := []byte(lower)
	for i := range out {
		if out[i] < 'a' {
			continue
		}
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] -= 'a' - 'A'
		}
	}
	return "0x" + string(out)
}
