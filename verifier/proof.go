package verifier

import (
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"

	"github.com/earthskyorg/solana-zkproof/codec"
)

// SizeProof is the byte length of a marshaled proof.
const SizeProof = 2*codec.SizeG1 + codec.SizeG2

// Proof is a Groth16 proof in the on-chain byte encoding. A is stored as
// produced by the prover; the negation the pairing equation needs is applied
// during assembly, not here.
type Proof struct {
	A [codec.SizeG1]byte
	B [codec.SizeG2]byte
	C [codec.SizeG1]byte
}

// ProofFromGnark converts a gnark proof into the on-chain encoding.
func ProofFromGnark(proof groth16.Proof) (*Proof, error) {
	bn254Proof, ok := proof.(*groth16_bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("unsupported proof type %T, the on-chain pairing primitive is BN254 only", proof)
	}
	if len(bn254Proof.Commitments) > 0 {
		return nil, fmt.Errorf("proofs with commitments are not supported")
	}
	return &Proof{
		A: codec.EncodeG1(&bn254Proof.Ar),
		B: codec.EncodeG2(&bn254Proof.Bs),
		C: codec.EncodeG1(&bn254Proof.Krs),
	}, nil
}

// Marshal serializes the proof as A || B || C, 256 bytes.
func (p *Proof) Marshal() []byte {
	out := make([]byte, 0, SizeProof)
	out = append(out, p.A[:]...)
	out = append(out, p.B[:]...)
	out = append(out, p.C[:]...)
	return out
}

// ParseProof deserializes a 256-byte proof blob, validating all three
// points. Malformed bytes fail here rather than corrupting a pairing call.
func ParseProof(data []byte) (*Proof, error) {
	if len(data) != SizeProof {
		return nil, fmt.Errorf("%w: proof must be %d bytes, got %d",
			codec.ErrMalformedPoint, SizeProof, len(data))
	}
	var p Proof
	if _, err := codec.DecodeG1(data[:codec.SizeG1]); err != nil {
		return nil, fmt.Errorf("proof A: %w", err)
	}
	if _, err := codec.DecodeG2(data[codec.SizeG1 : codec.SizeG1+codec.SizeG2]); err != nil {
		return nil, fmt.Errorf("proof B: %w", err)
	}
	if _, err := codec.DecodeG1(data[codec.SizeG1+codec.SizeG2:]); err != nil {
		return nil, fmt.Errorf("proof C: %w", err)
	}
	copy(p.A[:], data)
	copy(p.B[:], data[codec.SizeG1:])
	copy(p.C[:], data[codec.SizeG1+codec.SizeG2:])
	return &p, nil
}
