// Package ru256 implements a 256-bit unsigned integer with modular
// arithmetic over a caller-supplied modulus.
//
// Values are plain magnitudes; no modulus is stored. Every arithmetic
// operation reduces its operands before combining them, so inputs do not
// need to already be in [0, p). All intermediate results stay within 256
// bits: overflow in modular addition is corrected explicitly instead of
// widening, and multiplication and exponentiation are built from repeated
// modular addition (double-and-add) and repeated modular multiplication
// (square-and-multiply).
//
// The bit-by-bit loops branch on the values being processed, so none of
// this code runs in constant time. That is an accepted limitation of a
// reference implementation, not an oversight.
package ru256

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/bits"
	"strings"
)

// RU256 is a 256-bit unsigned integer, stored as four 64-bit limbs in
// little-endian limb order (limbs[0] holds the least significant bits).
// The zero value is the number zero. Values are immutable; every
// operation returns a new value.
type RU256 struct {
	limbs [4]uint64
}

// max256 is 2^256 - 1, the largest representable magnitude.
var max256 = RU256{limbs: [4]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}}

// ParseError reports a hex string that does not encode a 256-bit value.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ru256: cannot parse %q: %s", e.Input, e.Reason)
}

// Zero returns the additive identity.
func Zero() RU256 { return RU256{} }

// One returns the multiplicative identity.
func One() RU256 { return RU256{limbs: [4]uint64{1, 0, 0, 0}} }

// FromUint64 returns v as an RU256.
func FromUint64(v uint64) RU256 { return RU256{limbs: [4]uint64{v, 0, 0, 0}} }

// FromHex parses a big-endian hexadecimal string, with or without a
// "0x"/"0X" prefix. It fails if the string is empty, contains a non-hex
// digit, or encodes more than 256 bits.
func FromHex(s string) (RU256, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(digits) == 0 {
		return RU256{}, &ParseError{Input: s, Reason: "empty string"}
	}
	if len(digits) > 64 {
		return RU256{}, &ParseError{Input: s, Reason: "value exceeds 256 bits"}
	}

	var x RU256
	for i := 0; i < len(digits); i++ {
		c := digits[len(digits)-1-i]
		var nibble uint64
		switch {
		case c >= '0' && c <= '9':
			nibble = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			nibble = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			nibble = uint64(c-'A') + 10
		default:
			return RU256{}, &ParseError{Input: s, Reason: fmt.Sprintf("invalid hex digit %q", c)}
		}
		x.limbs[i/16] |= nibble << uint((i%16)*4)
	}
	return x, nil
}

// MustFromHex is FromHex for known-good constants; it panics on error.
func MustFromHex(s string) RU256 {
	x, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return x
}

// FromBytes interprets up to 32 bytes as a big-endian integer. A longer
// slice is a caller bug and panics.
func FromBytes(b []byte) RU256 {
	if len(b) > 32 {
		panic("ru256: FromBytes input longer than 32 bytes")
	}
	var buf [32]byte
	copy(buf[32-len(b):], b)

	var x RU256
	for i := 0; i < 4; i++ {
		x.limbs[3-i] = binary.BigEndian.Uint64(buf[i*8:])
	}
	return x
}

// Bytes returns the canonical 32-byte big-endian encoding.
func (x RU256) Bytes() []byte {
	out := make([]byte, 32)
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(out[i*8:], x.limbs[3-i])
	}
	return out
}

// String returns the canonical text encoding: exactly 64 lowercase hex
// characters, zero-padded, big-endian. FromHex(x.String()) round-trips.
func (x RU256) String() string {
	return hex.EncodeToString(x.Bytes())
}

// IsZero reports whether x is the additive identity.
func (x RU256) IsZero() bool {
	return x.limbs[0]|x.limbs[1]|x.limbs[2]|x.limbs[3] == 0
}

// Equal reports whether the two magnitudes are identical.
func (x RU256) Equal(y RU256) bool { return x == y }

// Cmp returns -1 if x < y, 0 if x == y, and 1 if x > y.
func (x RU256) Cmp(y RU256) int {
	for i := 3; i >= 0; i-- {
		if x.limbs[i] < y.limbs[i] {
			return -1
		}
		if x.limbs[i] > y.limbs[i] {
			return 1
		}
	}
	return 0
}

// Bit returns bit i (bit 0 is the least significant) as 0 or 1.
func (x RU256) Bit(i int) uint64 {
	return (x.limbs[i/64] >> uint(i%64)) & 1
}

// BitLen returns the minimum number of bits needed to represent x;
// the bit length of zero is 0.
func (x RU256) BitLen() int {
	for i := 3; i >= 0; i-- {
		if x.limbs[i] != 0 {
			return i*64 + bits.Len64(x.limbs[i])
		}
	}
	return 0
}

// add returns x+y and the carry out of bit 255.
func (x RU256) add(y RU256) (RU256, uint64) {
	var z RU256
	var c uint64
	z.limbs[0], c = bits.Add64(x.limbs[0], y.limbs[0], 0)
	z.limbs[1], c = bits.Add64(x.limbs[1], y.limbs[1], c)
	z.limbs[2], c = bits.Add64(x.limbs[2], y.limbs[2], c)
	z.limbs[3], c = bits.Add64(x.limbs[3], y.limbs[3], c)
	return z, c
}

// sub returns x-y modulo 2^256. The borrow is discarded; callers either
// guarantee x >= y or want the wraparound.
func (x RU256) sub(y RU256) RU256 {
	var z RU256
	var b uint64
	z.limbs[0], b = bits.Sub64(x.limbs[0], y.limbs[0], 0)
	z.limbs[1], b = bits.Sub64(x.limbs[1], y.limbs[1], b)
	z.limbs[2], b = bits.Sub64(x.limbs[2], y.limbs[2], b)
	z.limbs[3], b = bits.Sub64(x.limbs[3], y.limbs[3], b)
	return z
}

// shl1 returns x<<1 modulo 2^256 together with the bit shifted out.
func (x RU256) shl1() (RU256, uint64) {
	var z RU256
	z.limbs[3] = x.limbs[3]<<1 | x.limbs[2]>>63
	z.limbs[2] = x.limbs[2]<<1 | x.limbs[1]>>63
	z.limbs[1] = x.limbs[1]<<1 | x.limbs[0]>>63
	z.limbs[0] = x.limbs[0] << 1
	return z, x.limbs[3] >> 63
}

// mod returns x mod p by binary long division, most significant bit of x
// first. p must be non-zero.
func (x RU256) mod(p RU256) RU256 {
	if p.IsZero() {
		panic("ru256: modulus is zero")
	}
	if x.Cmp(p) < 0 {
		return x
	}

	var r RU256
	for i := x.BitLen() - 1; i >= 0; i-- {
		shifted, carry := r.shl1()
		shifted.limbs[0] |= x.Bit(i)
		// The candidate remainder 2r+bit is < 2p, so at most one
		// subtraction of p is needed. When the shift carried out of bit
		// 255 the stored value is candidate-2^256, and the wrapping
		// subtraction below still lands on candidate-p.
		if carry == 1 || shifted.Cmp(p) >= 0 {
			shifted = shifted.sub(p)
		}
		r = shifted
	}
	return r
}

// Mod returns x reduced into [0, p).
func (x RU256) Mod(p RU256) RU256 { return x.mod(p) }

// AddMod returns (x + y) mod p.
//
// Both operands are reduced first, but their sum can still overflow 256
// bits when p is close to 2^256. A wrapped sum has lost exactly 2^256
// relative to the true sum, and 2^256 ≡ 2^256 - p (mod p), so adding
// back MAX - p + 1 repairs the result without a wider integer. The
// repaired value is below p (the true sum is < 2p), so that addition
// cannot overflow again.
func (x RU256) AddMod(y, p RU256) RU256 {
	x1 := x.mod(p)
	x2 := y.mod(p)

	sum, carry := x1.add(x2)
	if carry == 1 {
		lost := max256.sub(p)
		lost, _ = lost.add(One())
		sum, _ = sum.add(lost)
	}
	return sum.mod(p)
}

// SubMod returns (x - y) mod p, computed as x plus the additive inverse
// p - (y mod p). No native subtraction that could underflow is involved.
func (x RU256) SubMod(y, p RU256) RU256 {
	x2 := y.mod(p)
	// p - x2 cannot underflow because x2 < p.
	return x.AddMod(p.sub(x2), p)
}

// MulMod returns (x * y) mod p by double-and-add: the larger reduced
// operand is repeatedly doubled while the smaller operand's bits select
// which doublings are accumulated. The operand order keeps the loop at
// the bit length of the smaller value.
func (x RU256) MulMod(y, p RU256) RU256 {
	x1 := x.mod(p)
	x2 := y.mod(p)

	seq, adder := x1, x2
	if x2.Cmp(x1) < 0 {
		seq, adder = x2, x1
	}

	result := Zero()
	for i := 0; i < seq.BitLen(); i++ {
		if seq.Bit(i) == 1 {
			result = result.AddMod(adder, p)
		}
		adder = adder.AddMod(adder, p)
	}
	return result
}

// ExpMod returns x^e mod p by square-and-multiply over e's bits, least
// significant first. x^0 is One for any x.
func (x RU256) ExpMod(e, p RU256) RU256 {
	result := One()
	multiplier := x.mod(p)

	for i := 0; i < e.BitLen(); i++ {
		if e.Bit(i) == 1 {
			result = result.MulMod(multiplier, p)
		}
		multiplier = multiplier.MulMod(multiplier, p)
	}
	return result
}

// DivMod returns (x / y) mod p using Fermat's little theorem: for prime
// p, y^-1 ≡ y^(p-2) (mod p), so x/y = x * y^(p-2). The result is
// meaningless when p is not prime; a modulus of 2 or less is a bug in
// the calling algorithm and panics.
func (x RU256) DivMod(y, p RU256) RU256 {
	two := FromUint64(2)
	if p.Cmp(two) <= 0 {
		panic("ru256: DivMod requires a prime modulus greater than 2")
	}
	return x.MulMod(y.ExpMod(p.sub(two), p), p)
}
