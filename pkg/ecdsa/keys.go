package ecdsa

import (
	"fmt"
	"io"

	"github.com/ecdsalab/go-ecdsa-ru256/internal/crypto/curves"
	"github.com/ecdsalab/go-ecdsa-ru256/internal/crypto/ru256"
)

// PrivateKey is a secret scalar in [1, n-1], where n is the secp256k1
// group order.
type PrivateKey struct {
	d ru256.RU256
}

// GenerateKey draws a uniform private key from random (callers normally
// pass crypto/rand.Reader), redrawing anything outside [1, n-1].
func GenerateKey(random io.Reader) (*PrivateKey, error) {
	for {
		var buf [32]byte
		if _, err := io.ReadFull(random, buf[:]); err != nil {
			return nil, fmt.Errorf("ecdsa: reading key randomness: %w", err)
		}
		d := ru256.FromBytes(buf[:])
		if d.IsZero() || d.Cmp(curves.N) >= 0 {
			continue
		}
		return &PrivateKey{d: d}, nil
	}
}

// PrivateKeyFromHex parses a big-endian hex scalar and validates its
// range.
func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	d, err := ru256.FromHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	if d.IsZero() || d.Cmp(curves.N) >= 0 {
		return nil, ErrInvalidPrivateKey
	}
	return &PrivateKey{d: d}, nil
}

// Hex returns the canonical 64-character hex encoding of the scalar.
func (priv *PrivateKey) Hex() string { return priv.d.String() }

// PublicKey derives the public key d*G. The pairing between a private
// key and its derived public key is not retained anywhere; callers are
// responsible for keeping them together.
func (priv *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{point: curves.ScalarBaseMult(priv.d)}
}

// PublicKey is a point on the secp256k1 curve.
type PublicKey struct {
	point curves.Point
}

// ParsePublicKey parses the SEC1 uncompressed hex encoding
// "04" || X || Y (130 hex characters). The coordinates are trusted to be
// on the curve; only the encoding is validated.
func ParsePublicKey(s string) (*PublicKey, error) {
	pt, err := curves.ParseUncompressed(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return &PublicKey{point: pt}, nil
}

// UncompressedHex returns the SEC1 uncompressed encoding of the key.
func (pub *PublicKey) UncompressedHex() string {
	return pub.point.UncompressedHex()
}
