package model

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// idAlphabet is the base62 alphabet used for catalog ids, digits first,
// then lowercase, then uppercase. This matches the encoding Spotify uses
// in URIs and share URLs.
const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// IDLength is the length of a catalog id in its base62 text form.
const IDLength = 22

// ID is a 128-bit catalog identifier.
//
// The same id type is used for tracks, playlists, albums and artists;
// the kind is carried separately (see Reference). ID is a value type and
// can be used directly as a map key, which is how the resolution phase
// deduplicates tracks across input references.
type ID [16]byte

var idValues = func() [256]int8 {
	var v [256]int8
	for i := range v {
		v[i] = -1
	}
	for i := 0; i < len(idAlphabet); i++ {
		v[idAlphabet[i]] = int8(i)
	}
	return v
}()

// IDFromBase62 decodes a 22-character base62 string into an ID.
//
// Returns an error if the string has the wrong length or contains a
// character outside the base62 alphabet.
func IDFromBase62(s string) (ID, error) {
	var id ID
	if len(s) != IDLength {
		return id, fmt.Errorf("invalid id %q: want %d characters, got %d", s, IDLength, len(s))
	}

	n := new(big.Int)
	base := big.NewInt(62)
	digit := new(big.Int)
	for i := 0; i < len(s); i++ {
		v := idValues[s[i]]
		if v < 0 {
			return id, fmt.Errorf("invalid id %q: bad character %q", s, s[i])
		}
		n.Mul(n, base)
		n.Add(n, digit.SetInt64(int64(v)))
	}

	// 22 base62 digits can encode values past 2^128; FillBytes panics on
	// those instead of truncating.
	if n.BitLen() > len(id)*8 {
		return id, fmt.Errorf("invalid id %q: value exceeds 128 bits", s)
	}

	n.FillBytes(id[:])
	return id, nil
}

// IDFromRaw builds an ID from a raw 16-byte identifier as returned by the
// metadata service. Shorter input is left-padded with zeros; longer input
// is rejected.
func IDFromRaw(raw []byte) (ID, error) {
	var id ID
	if len(raw) > len(id) {
		return id, fmt.Errorf("invalid raw id: %d bytes", len(raw))
	}
	copy(id[len(id)-len(raw):], raw)
	return id, nil
}

// Base62 returns the canonical 22-character base62 form of the id. This
// is the form shown to the user.
func (id ID) Base62() string {
	n := new(big.Int).SetBytes(id[:])
	base := big.NewInt(62)
	rem := new(big.Int)

	buf := make([]byte, IDLength)
	for i := IDLength - 1; i >= 0; i-- {
		n.QuoRem(n, base, rem)
		buf[i] = idAlphabet[rem.Int64()]
	}
	return string(buf)
}

// Hex returns the 32-character lowercase hex form of the id, which is the
// form the metadata service addresses records by.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

// Raw returns the raw 16-byte form of the id.
func (id ID) Raw() []byte {
	raw := make([]byte, len(id))
	copy(raw, id[:])
	return raw
}

// String implements fmt.Stringer using the base62 form.
func (id ID) String() string {
	return id.Base62()
}
