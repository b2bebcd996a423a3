// Package curves implements the secp256k1 elliptic curve group with
// affine coordinates, built entirely on ru256 modular arithmetic.
//
// The curve is y^2 = x^3 + 7 over the prime field F_p. Only secp256k1 is
// supported; the parameters are fixed package-level constants. Scalar
// multiplication is plain double-and-add and branches on scalar bits, so
// it is not constant time (a documented limitation, shared with ru256).
package curves

import (
	"fmt"
	"strings"

	"github.com/ecdsalab/go-ecdsa-ru256/internal/crypto/ru256"
)

// Curve parameters from SEC 2 v2 (https://www.secg.org/sec2-v2.pdf),
// parsed once at package init. A single differing nibble here would break
// interoperability with every other secp256k1 implementation.
var (
	// P is the field prime 2^256 - 2^32 - 2^9 - 2^8 - 2^7 - 2^6 - 2^4 - 1.
	P = ru256.MustFromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F")

	// N is the order of the cyclic group generated by G. All ECDSA scalar
	// arithmetic happens modulo N.
	N = ru256.MustFromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")

	// G is the generator point.
	G = Point{
		x: ru256.MustFromHex("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"),
		y: ru256.MustFromHex("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8"),
	}

	two   = ru256.FromUint64(2)
	three = ru256.FromUint64(3)
)

// Point is an affine point on secp256k1, or the group identity (the
// point at infinity), carried as an explicit tag so the identity can
// never be mistaken for on-curve coordinates. Points are immutable;
// group operations return new points.
//
// Construction does not check the curve equation: points must come from
// curve operations or from trusted, known-valid coordinates.
type Point struct {
	x, y ru256.RU256
	inf  bool
}

// Infinity returns the group identity.
func Infinity() Point { return Point{inf: true} }

// NewPoint builds an affine point from raw coordinates.
func NewPoint(x, y ru256.RU256) Point { return Point{x: x, y: y} }

// PointFromHex builds an affine point from big-endian hex coordinates.
func PointFromHex(xHex, yHex string) (Point, error) {
	x, err := ru256.FromHex(xHex)
	if err != nil {
		return Point{}, fmt.Errorf("curves: bad x coordinate: %w", err)
	}
	y, err := ru256.FromHex(yHex)
	if err != nil {
		return Point{}, fmt.Errorf("curves: bad y coordinate: %w", err)
	}
	return Point{x: x, y: y}, nil
}

// ParseUncompressed parses the SEC1 uncompressed hex encoding
// "04" || X || Y (130 hex characters).
func ParseUncompressed(s string) (Point, error) {
	if len(s) != 130 {
		return Point{}, fmt.Errorf("curves: uncompressed point must be 130 hex characters, got %d", len(s))
	}
	if !strings.HasPrefix(s, "04") {
		return Point{}, fmt.Errorf("curves: uncompressed point must start with 04, got %q", s[:2])
	}
	return PointFromHex(s[2:66], s[66:])
}

// X returns the x coordinate. Only meaningful for non-identity points.
func (p Point) X() ru256.RU256 { return p.x }

// Y returns the y coordinate. Only meaningful for non-identity points.
func (p Point) Y() ru256.RU256 { return p.y }

// IsInfinity reports whether p is the group identity.
func (p Point) IsInfinity() bool { return p.inf }

// Equal reports whether two points are the same group element.
func (p Point) Equal(q Point) bool {
	if p.inf || q.inf {
		return p.inf == q.inf
	}
	return p.x.Equal(q.x) && p.y.Equal(q.y)
}

// UncompressedHex returns the SEC1 uncompressed encoding
// "04" || X || Y (130 hex characters). The identity encodes as "00".
func (p Point) UncompressedHex() string {
	if p.inf {
		return "00"
	}
	return "04" + p.x.String() + p.y.String()
}

// Add applies the group law. It is total: identity operands return the
// other point, equal points are routed to Double, and a vertical chord
// (same x, opposite y) yields the identity, so no input combination can
// reach the chord formula's division by zero.
func Add(p1, p2 Point) Point {
	if p1.inf {
		return p2
	}
	if p2.inf {
		return p1
	}
	if p1.x.Equal(p2.x) {
		if p1.y.Equal(p2.y) {
			return Double(p1)
		}
		// p2 == -p1, the chord is vertical.
		return Infinity()
	}

	// lambda = (y1 - y2) / (x1 - x2)
	// x3 = lambda^2 - x1 - x2
	// y3 = lambda(x1 - x3) - y1
	yDiff := p1.y.SubMod(p2.y, P)
	xDiff := p1.x.SubMod(p2.x, P)
	lambda := yDiff.DivMod(xDiff, P)

	x3 := lambda.MulMod(lambda, P).SubMod(p1.x, P).SubMod(p2.x, P)
	y3 := p1.x.SubMod(x3, P).MulMod(lambda, P).SubMod(p1.y, P)

	return Point{x: x3, y: y3}
}

// Double returns p added to itself. Doubling the identity, or any point
// with y = 0 (vertical tangent), yields the identity.
func Double(p1 Point) Point {
	if p1.inf || p1.y.IsZero() {
		return Infinity()
	}

	// Tangent slope lambda = 3x^2 / 2y; the curve's a term is zero so it
	// does not appear.
	// x3 = lambda^2 - 2x
	// y3 = lambda(x - x3) - y
	threeXSquare := p1.x.MulMod(p1.x, P).MulMod(three, P)
	twoY := p1.y.MulMod(two, P)
	lambda := threeXSquare.DivMod(twoY, P)

	x3 := lambda.MulMod(lambda, P).SubMod(p1.x, P).SubMod(p1.x, P)
	y3 := p1.x.SubMod(x3, P).MulMod(lambda, P).SubMod(p1.y, P)

	return Point{x: x3, y: y3}
}

// ScalarMult returns k * pt by double-and-add over k's bits, least
// significant first. The accumulator starts at the identity, so a zero
// scalar returns the identity. Because Add is total, the degenerate case
// where the accumulator meets the running double degrades to a doubling
// instead of failing.
func ScalarMult(k ru256.RU256, pt Point) Point {
	result := Infinity()
	adder := pt

	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			result = Add(result, adder)
		}
		adder = Double(adder)
	}
	return result
}

// ScalarBaseMult returns k * G. For a private key scalar this is the
// public key derivation.
func ScalarBaseMult(k ru256.RU256) Point {
	return ScalarMult(k, G)
}
