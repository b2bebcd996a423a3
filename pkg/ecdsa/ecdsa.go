// Package ecdsa implements ECDSA signing and verification over
// secp256k1, on top of the from-scratch modular and curve arithmetic in
// internal/crypto.
//
// Messages are hashed with SHA-256 and the digest is interpreted as a
// 256-bit big-endian integer. Every call is a single-shot pure
// computation with no retained state, so independent goroutines may sign
// and verify concurrently.
//
// Two operational warnings. The per-signature nonce is drawn fresh from
// a cryptographically secure source; if the same nonce is ever used for
// two signatures under one key, the private key can be recovered from
// the two signatures alone. Deterministic nonces (RFC 6979) are not
// implemented. And, like the arithmetic underneath, nothing here runs in
// constant time.
package ecdsa

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/ecdsalab/go-ecdsa-ru256/internal/crypto/curves"
	"github.com/ecdsalab/go-ecdsa-ru256/internal/crypto/ru256"
)

// Signature is an (r, s) pair, each reduced modulo the group order.
// Signatures are immutable and have no identity beyond their two
// components.
type Signature struct {
	r, s ru256.RU256
}

// NewSignature rebuilds a signature from canonical hex components.
// Components that are zero or not below the group order are rejected.
func NewSignature(rHex, sHex string) (*Signature, error) {
	r, err := ru256.FromHex(rHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	s, err := ru256.FromHex(sHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	sig := &Signature{r: r, s: s}
	if !sig.wellFormed() {
		return nil, ErrInvalidSignature
	}
	return sig, nil
}

// R returns the canonical 64-character hex encoding of r.
func (sig *Signature) R() string { return sig.r.String() }

// S returns the canonical 64-character hex encoding of s.
func (sig *Signature) S() string { return sig.s.String() }

func (sig *Signature) wellFormed() bool {
	return !sig.r.IsZero() && !sig.s.IsZero() &&
		sig.r.Cmp(curves.N) < 0 && sig.s.Cmp(curves.N) < 0
}

// digest hashes the message and interprets the 32-byte SHA-256 output as
// a big-endian integer.
func digest(message []byte) ru256.RU256 {
	h := sha256.Sum256(message)
	return ru256.FromBytes(h[:])
}

// Sign signs message with priv, drawing the nonce from crypto/rand.
func Sign(message []byte, priv *PrivateKey) (*Signature, error) {
	return SignWithRand(rand.Reader, message, priv)
}

// SignWithRand signs message with priv, drawing the per-signature nonce
// from the supplied source. The source must be cryptographically secure
// and safe for concurrent use if the caller signs from multiple
// goroutines. Draws are silently retried until the nonce lands in
// [1, n-1] and both signature components come out non-zero.
func SignWithRand(random io.Reader, message []byte, priv *PrivateKey) (*Signature, error) {
	z := digest(message)
	n := curves.N

	for {
		var buf [32]byte
		if _, err := io.ReadFull(random, buf[:]); err != nil {
			return nil, fmt.Errorf("ecdsa: reading nonce randomness: %w", err)
		}
		k := ru256.FromBytes(buf[:])
		if k.IsZero() || k.Cmp(n) >= 0 {
			continue
		}

		// R = kG; r is its x coordinate carried into the scalar field.
		r := curves.ScalarBaseMult(k).X().Mod(n)
		if r.IsZero() {
			continue
		}

		// s = (r*d + z) / k mod n
		s := r.MulMod(priv.d, n).AddMod(z, n).DivMod(k, n)
		if s.IsZero() {
			continue
		}

		return &Signature{r: r, s: s}, nil
	}
}

// Verify reports whether sig is a valid signature of message under pub.
// It never panics; a structurally invalid signature fails verification
// instead of erroring.
func Verify(message []byte, pub *PublicKey, sig *Signature) bool {
	if sig == nil || !sig.wellFormed() {
		return false
	}

	z := digest(message)
	n := curves.N

	// w = s^-1, u1 = z*w, u2 = r*w. Then
	//   u1*G + u2*Q = ((z + r*d)/s)*G = kG,
	// so the sum's x coordinate must reproduce r. The group add is
	// total: if the two scalar multiples coincide it degrades to a
	// doubling rather than failing.
	w := ru256.One().DivMod(sig.s, n)
	u1 := z.MulMod(w, n)
	u2 := sig.r.MulMod(w, n)

	pt := curves.Add(curves.ScalarBaseMult(u1), curves.ScalarMult(u2, pub.point))
	if pt.IsInfinity() {
		return false
	}
	return pt.X().Mod(n).Equal(sig.r)
}
