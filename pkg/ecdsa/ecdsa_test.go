package ecdsa

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	dcrsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	keys := []string{"3424", "01", "deadbeef", "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364140"}
	messages := []string{"hello-world", "", "a longer message with some length to it"}

	for _, keyHex := range keys {
		priv, err := PrivateKeyFromHex(keyHex)
		require.NoError(t, err)
		pub := priv.PublicKey()

		for _, msg := range messages {
			sig, err := Sign([]byte(msg), priv)
			require.NoError(t, err)
			assert.True(t, Verify([]byte(msg), pub, sig), "key %s message %q", keyHex, msg)
		}
	}
}

func TestVerifyNegativeCases(t *testing.T) {
	priv, err := PrivateKeyFromHex("3424")
	require.NoError(t, err)
	pub := priv.PublicKey()

	sig, err := Sign([]byte("hello-world"), priv)
	require.NoError(t, err)
	require.True(t, Verify([]byte("hello-world"), pub, sig))

	t.Run("different message", func(t *testing.T) {
		assert.False(t, Verify([]byte("different-message"), pub, sig))
	})

	t.Run("different key", func(t *testing.T) {
		other, err := PrivateKeyFromHex("3425")
		require.NoError(t, err)
		assert.False(t, Verify([]byte("hello-world"), other.PublicKey(), sig))
	})

	t.Run("nil signature", func(t *testing.T) {
		assert.False(t, Verify([]byte("hello-world"), pub, nil))
	})

	t.Run("zero components never panic", func(t *testing.T) {
		assert.False(t, Verify([]byte("hello-world"), pub, &Signature{}))
		assert.False(t, Verify([]byte("hello-world"), pub, &Signature{r: sig.r}))
		assert.False(t, Verify([]byte("hello-world"), pub, &Signature{s: sig.s}))
	})
}

func TestNewSignature(t *testing.T) {
	priv, err := PrivateKeyFromHex("3424")
	require.NoError(t, err)
	sig, err := Sign([]byte("hello-world"), priv)
	require.NoError(t, err)

	t.Run("round trips through hex components", func(t *testing.T) {
		rebuilt, err := NewSignature(sig.R(), sig.S())
		require.NoError(t, err)
		assert.True(t, Verify([]byte("hello-world"), priv.PublicKey(), rebuilt))
	})

	t.Run("rejects zero components", func(t *testing.T) {
		_, err := NewSignature("00", sig.S())
		assert.True(t, errors.Is(err, ErrInvalidSignature))
		_, err = NewSignature(sig.R(), "00")
		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})

	t.Run("rejects components at or above the group order", func(t *testing.T) {
		n := "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"
		_, err := NewSignature(n, sig.S())
		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})

	t.Run("rejects malformed hex", func(t *testing.T) {
		_, err := NewSignature("not-hex", sig.S())
		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})
}

// zeroThenReader feeds a block of zero bytes before delegating to the
// wrapped reader, to force the nonce rejection path.
type zeroThenReader struct {
	zeros int
	rest  io.Reader
}

func (r *zeroThenReader) Read(p []byte) (int, error) {
	if r.zeros > 0 {
		n := len(p)
		if n > r.zeros {
			n = r.zeros
		}
		for i := 0; i < n; i++ {
			p[i] = 0
		}
		r.zeros -= n
		return n, nil
	}
	return r.rest.Read(p)
}

func TestSignWithRand(t *testing.T) {
	priv, err := PrivateKeyFromHex("3424")
	require.NoError(t, err)

	t.Run("zero nonce draws are redrawn", func(t *testing.T) {
		// First 32-byte draw is all zeros and must be rejected.
		random := &zeroThenReader{zeros: 32, rest: bytes.NewReader(bytes.Repeat([]byte{0x5a}, 32))}
		sig, err := SignWithRand(random, []byte("hello-world"), priv)
		require.NoError(t, err)
		assert.True(t, Verify([]byte("hello-world"), priv.PublicKey(), sig))
	})

	t.Run("exhausted randomness surfaces the read error", func(t *testing.T) {
		_, err := SignWithRand(bytes.NewReader(nil), []byte("hello-world"), priv)
		assert.Error(t, err)
	})

	t.Run("deterministic nonce gives a deterministic signature", func(t *testing.T) {
		nonce := bytes.Repeat([]byte{0x5a}, 32)
		sig1, err := SignWithRand(bytes.NewReader(nonce), []byte("msg"), priv)
		require.NoError(t, err)
		sig2, err := SignWithRand(bytes.NewReader(nonce), []byte("msg"), priv)
		require.NoError(t, err)
		assert.Equal(t, sig1.R(), sig2.R())
		assert.Equal(t, sig1.S(), sig2.S())
	})
}

// TestAgainstDecred checks wire-level interoperability in both
// directions against the decred implementation.
func TestAgainstDecred(t *testing.T) {
	priv, err := PrivateKeyFromHex("3424")
	require.NoError(t, err)
	pub := priv.PublicKey()

	message := []byte("hello-world")
	hash := sha256.Sum256(message)

	privBytes, err := hex.DecodeString(priv.Hex())
	require.NoError(t, err)
	dcrPriv := dcrsecp.PrivKeyFromBytes(privBytes)

	t.Run("public keys agree", func(t *testing.T) {
		assert.Equal(t,
			hex.EncodeToString(dcrPriv.PubKey().SerializeUncompressed()),
			pub.UncompressedHex())
	})

	t.Run("our signature verifies under decred", func(t *testing.T) {
		sig, err := Sign(message, priv)
		require.NoError(t, err)

		var r, s dcrsecp.ModNScalar
		rBytes, err := hex.DecodeString(sig.R())
		require.NoError(t, err)
		sBytes, err := hex.DecodeString(sig.S())
		require.NoError(t, err)
		require.False(t, r.SetByteSlice(rBytes))
		require.False(t, s.SetByteSlice(sBytes))

		pubBytes, err := hex.DecodeString(pub.UncompressedHex())
		require.NoError(t, err)
		dcrPub, err := dcrsecp.ParsePubKey(pubBytes)
		require.NoError(t, err)

		assert.True(t, dcrecdsa.NewSignature(&r, &s).Verify(hash[:], dcrPub))
	})

	t.Run("decred signature verifies under us", func(t *testing.T) {
		dcrSig := dcrecdsa.Sign(dcrPriv, hash[:])
		rScalar := dcrSig.R()
		sScalar := dcrSig.S()
		rBytes := rScalar.Bytes()
		sBytes := sScalar.Bytes()

		sig, err := NewSignature(hex.EncodeToString(rBytes[:]), hex.EncodeToString(sBytes[:]))
		require.NoError(t, err)
		assert.True(t, Verify(message, pub, sig))
	})
}
