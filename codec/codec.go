// package codec converts base field elements and curve points between the
// proving library's native representation and the byte layout consumed by the
// Solana alt_bn128 syscalls. It is the only package allowed to reorder bytes;
// every point crossing the library/on-chain boundary passes through here
// exactly once per direction.
package codec

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Sizes of the on-chain encodings. Field elements are 32-byte big-endian
// integers strictly below the base field modulus. A G1 point is x||y, a G2
// point is x.A1||x.A0||y.A1||y.A0 with the imaginary extension component
// first, matching the alt_bn128 syscall convention.
const (
	SizeFieldElement = fp.Bytes
	SizeG1           = 2 * SizeFieldElement
	SizeG2           = 4 * SizeFieldElement
)

var (
	// ErrMalformedPoint is returned when bytes cannot be decoded into a
	// valid curve point: wrong length, a coordinate not below the field
	// modulus, or coordinates that fail the curve membership check.
	ErrMalformedPoint = errors.New("malformed point")

	// ErrMalformedScalar is returned for a 32-byte scalar that is not a
	// canonical element of the scalar field.
	ErrMalformedScalar = errors.New("malformed scalar")
)

// EncodeFieldElement returns the on-chain form of a base field element.
func EncodeFieldElement(e *fp.Element) [SizeFieldElement]byte {
	var out [SizeFieldElement]byte
	fp.BigEndian.PutElement(&out, *e)
	return out
}

// DecodeFieldElement decodes an on-chain field element, rejecting values not
// strictly below the base field modulus.
func DecodeFieldElement(b []byte) (fp.Element, error) {
	var e fp.Element
	if len(b) != SizeFieldElement {
		return e, fmt.Errorf("%w: field element must be %d bytes, got %d",
			ErrMalformedPoint, SizeFieldElement, len(b))
	}
	var buf [SizeFieldElement]byte
	copy(buf[:], b)
	e, err := fp.BigEndian.Element(&buf)
	if err != nil {
		return e, fmt.Errorf("%w: coordinate not below field modulus", ErrMalformedPoint)
	}
	return e, nil
}

// DecodeScalar decodes a 32-byte big-endian scalar field element, rejecting
// values not strictly below the scalar field modulus.
func DecodeScalar(b []byte) (fr.Element, error) {
	var s fr.Element
	if len(b) != fr.Bytes {
		return s, fmt.Errorf("%w: scalar must be %d bytes, got %d",
			ErrMalformedScalar, fr.Bytes, len(b))
	}
	var buf [fr.Bytes]byte
	copy(buf[:], b)
	s, err := fr.BigEndian.Element(&buf)
	if err != nil {
		return s, fmt.Errorf("%w: value not below scalar field modulus", ErrMalformedScalar)
	}
	return s, nil
}

// EncodeG1 returns the 64-byte on-chain form of a G1 point. The point at
// infinity encodes as all zero bytes, the syscall convention.
func EncodeG1(p *bn254.G1Affine) [SizeG1]byte {
	var out [SizeG1]byte
	if p.IsInfinity() {
		return out
	}
	x := EncodeFieldElement(&p.X)
	y := EncodeFieldElement(&p.Y)
	copy(out[:SizeFieldElement], x[:])
	copy(out[SizeFieldElement:], y[:])
	return out
}

// DecodeG1 decodes a 64-byte on-chain G1 point, checking curve membership.
// All zero bytes decode to the point at infinity.
func DecodeG1(b []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if len(b) != SizeG1 {
		return p, fmt.Errorf("%w: G1 point must be %d bytes, got %d",
			ErrMalformedPoint, SizeG1, len(b))
	}
	if isAllZero(b) {
		return p, nil // point at infinity
	}
	var err error
	if p.X, err = DecodeFieldElement(b[:SizeFieldElement]); err != nil {
		return bn254.G1Affine{}, err
	}
	if p.Y, err = DecodeFieldElement(b[SizeFieldElement:]); err != nil {
		return bn254.G1Affine{}, err
	}
	if !p.IsOnCurve() {
		return bn254.G1Affine{}, fmt.Errorf("%w: G1 coordinates not on curve", ErrMalformedPoint)
	}
	return p, nil
}

// EncodeG2 returns the 128-byte on-chain form of a G2 point, imaginary
// extension component first per coordinate. The point at infinity encodes as
// all zero bytes.
func EncodeG2(p *bn254.G2Affine) [SizeG2]byte {
	var out [SizeG2]byte
	if p.IsInfinity() {
		return out
	}
	xa1 := EncodeFieldElement(&p.X.A1)
	xa0 := EncodeFieldElement(&p.X.A0)
	ya1 := EncodeFieldElement(&p.Y.A1)
	ya0 := EncodeFieldElement(&p.Y.A0)
	copy(out[0:], xa1[:])
	copy(out[SizeFieldElement:], xa0[:])
	copy(out[2*SizeFieldElement:], ya1[:])
	copy(out[3*SizeFieldElement:], ya0[:])
	return out
}

// DecodeG2 decodes a 128-byte on-chain G2 point, checking curve and subgroup
// membership. The subgroup check is load-bearing: G2 has a nontrivial
// cofactor and the pairing syscall trusts its caller on membership.
func DecodeG2(b []byte) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	if len(b) != SizeG2 {
		return p, fmt.Errorf("%w: G2 point must be %d bytes, got %d",
			ErrMalformedPoint, SizeG2, len(b))
	}
	if isAllZero(b) {
		return p, nil // point at infinity
	}
	var err error
	if p.X.A1, err = DecodeFieldElement(b[:SizeFieldElement]); err != nil {
		return bn254.G2Affine{}, err
	}
	if p.X.A0, err = DecodeFieldElement(b[SizeFieldElement : 2*SizeFieldElement]); err != nil {
		return bn254.G2Affine{}, err
	}
	if p.Y.A1, err = DecodeFieldElement(b[2*SizeFieldElement : 3*SizeFieldElement]); err != nil {
		return bn254.G2Affine{}, err
	}
	if p.Y.A0, err = DecodeFieldElement(b[3*SizeFieldElement:]); err != nil {
		return bn254.G2Affine{}, err
	}
	if !p.IsOnCurve() {
		return bn254.G2Affine{}, fmt.Errorf("%w: G2 coordinates not on curve", ErrMalformedPoint)
	}
	if !p.IsInSubGroup() {
		return bn254.G2Affine{}, fmt.Errorf("%w: G2 point not in the r-torsion subgroup", ErrMalformedPoint)
	}
	return p, nil
}

// NegateG1 negates a G1 point given in on-chain form. The pairing equation
// needs -A and negation must not become ad hoc byte arithmetic elsewhere.
func NegateG1(b []byte) ([SizeG1]byte, error) {
	p, err := DecodeG1(b)
	if err != nil {
		return [SizeG1]byte{}, err
	}
	p.Neg(&p)
	return EncodeG1(&p), nil
}

// NativeWireToOnChain converts a buffer of little-endian 32-byte field
// elements, the serialization used by arkworks-based tooling on the program
// side, into the big-endian on-chain form by reversing each 32-byte chunk.
// The reversal granularity is per field element, never per point.
func NativeWireToOnChain(b []byte) ([]byte, error) {
	return reverseChunks(b)
}

// OnChainToNativeWire is the inverse of NativeWireToOnChain.
func OnChainToNativeWire(b []byte) ([]byte, error) {
	return reverseChunks(b)
}

func reverseChunks(b []byte) ([]byte, error) {
	if len(b)%SizeFieldElement != 0 {
		return nil, fmt.Errorf("%w: buffer length %d not a multiple of %d",
			ErrMalformedPoint, len(b), SizeFieldElement)
	}
	out := make([]byte, len(b))
	for off := 0; off < len(b); off += SizeFieldElement {
		for i := 0; i < SizeFieldElement; i++ {
			out[off+i] = b[off+SizeFieldElement-1-i]
		}
	}
	return out, nil
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
