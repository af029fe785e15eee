package verifier

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"

	"github.com/earthskyorg/solana-zkproof/codec"
)

// PreparedVerifyingKey is a circuit's verifying key re-encoded into the
// on-chain byte layout. It is derived once per circuit, is immutable from
// then on, and may be shared by any number of concurrent verifications.
type PreparedVerifyingKey struct {
	AlphaG1 [codec.SizeG1]byte
	BetaG2  [codec.SizeG2]byte
	GammaG2 [codec.SizeG2]byte
	DeltaG2 [codec.SizeG2]byte

	// IC is the public input basis, one G1 point per public input plus
	// the constant term at index 0. Its length is never trimmed or
	// padded: a count mismatch here only surfaces much later as an
	// unexplainable verification failure.
	IC [][codec.SizeG1]byte
}

// icCountSize is the width of the ic count field in the serialized form.
const icCountSize = 4

// Prepare converts a gnark verifying key into the on-chain prepared form.
// It is pure and deterministic; amortized cost is irrelevant since it runs
// once per circuit.
func Prepare(vk groth16.VerifyingKey) (*PreparedVerifyingKey, error) {
	bn254Vk, ok := vk.(*groth16_bn254.VerifyingKey)
	if !ok {
		return nil, fmt.Errorf("unsupported verifying key type %T, the on-chain pairing primitive is BN254 only", vk)
	}
	if len(bn254Vk.PublicAndCommitmentCommitted) > 0 {
		return nil, fmt.Errorf("verifying keys with commitment constraints are not supported")
	}
	if len(bn254Vk.G1.K) == 0 {
		return nil, fmt.Errorf("verifying key has an empty public input basis")
	}

	pvk := &PreparedVerifyingKey{
		AlphaG1: codec.EncodeG1(&bn254Vk.G1.Alpha),
		BetaG2:  codec.EncodeG2(&bn254Vk.G2.Beta),
		GammaG2: codec.EncodeG2(&bn254Vk.G2.Gamma),
		DeltaG2: codec.EncodeG2(&bn254Vk.G2.Delta),
		IC:      make([][codec.SizeG1]byte, len(bn254Vk.G1.K)),
	}
	for i := range bn254Vk.G1.K {
		pvk.IC[i] = codec.EncodeG1(&bn254Vk.G1.K[i])
	}
	return pvk, nil
}

// NbPublicInputs returns the number of public inputs the key was set up for.
func (pvk *PreparedVerifyingKey) NbPublicInputs() int {
	return len(pvk.IC) - 1
}

// Marshal serializes the prepared verifying key as the flat buffer deployed
// on chain, see the package documentation for the layout.
func (pvk *PreparedVerifyingKey) Marshal() []byte {
	out := make([]byte, 0, codec.SizeG1+3*codec.SizeG2+icCountSize+len(pvk.IC)*codec.SizeG1)
	out = append(out, pvk.AlphaG1[:]...)
	out = append(out, pvk.BetaG2[:]...)
	out = append(out, pvk.GammaG2[:]...)
	out = append(out, pvk.DeltaG2[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pvk.IC)))
	for i := range pvk.IC {
		out = append(out, pvk.IC[i][:]...)
	}
	return out
}

// ParsePreparedVerifyingKey deserializes a prepared verifying key buffer,
// validating every point it contains.
func ParsePreparedVerifyingKey(data []byte) (*PreparedVerifyingKey, error) {
	header := codec.SizeG1 + 3*codec.SizeG2 + icCountSize
	if len(data) < header {
		return nil, fmt.Errorf("%w: verifying key buffer too short, got %d bytes",
			codec.ErrMalformedPoint, len(data))
	}
	count := binary.LittleEndian.Uint32(data[header-icCountSize : header])
	if count == 0 {
		return nil, fmt.Errorf("%w: verifying key has an empty public input basis",
			codec.ErrMalformedPoint)
	}
	want := header + int(count)*codec.SizeG1
	if len(data) != want {
		return nil, fmt.Errorf("%w: verifying key buffer is %d bytes, want %d for %d ic points",
			codec.ErrMalformedPoint, len(data), want, count)
	}

	pvk := &PreparedVerifyingKey{IC: make([][codec.SizeG1]byte, count)}
	off := 0
	if _, err := codec.DecodeG1(data[off : off+codec.SizeG1]); err != nil {
		return nil, fmt.Errorf("alpha: %w", err)
	}
	copy(pvk.AlphaG1[:], data[off:])
	off += codec.SizeG1
	for _, g2 := range []*[codec.SizeG2]byte{&pvk.BetaG2, &pvk.GammaG2, &pvk.DeltaG2} {
		if _, err := codec.DecodeG2(data[off : off+codec.SizeG2]); err != nil {
			return nil, err
		}
		copy(g2[:], data[off:])
		off += codec.SizeG2
	}
	off += icCountSize
	for i := 0; i < int(count); i++ {
		if _, err := codec.DecodeG1(data[off : off+codec.SizeG1]); err != nil {
			return nil, fmt.Errorf("ic[%d]: %w", i, err)
		}
		copy(pvk.IC[i][:], data[off:])
		off += codec.SizeG1
	}
	return pvk, nil
}
