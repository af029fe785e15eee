package verifier

import (
	"fmt"

	"github.com/earthskyorg/solana-zkproof/altbn128"
	"github.com/earthskyorg/solana-zkproof/codec"
)

// SizePairingInput is the byte length of the assembled pairing operand
// buffer: four (G1, G2) pairs of 192 bytes each.
const SizePairingInput = 4 * altbn128.SizePairingPair

// Assemble builds the pairing operand buffer for the verification equation.
// The operand order is fixed to (-A, B), (alpha, beta), (input, gamma),
// (C, delta); the syscall concatenates operands positionally and does no
// reordering of its own.
//
// A is negated here. Skipping or double-applying the negation does not
// crash anything, it silently verifies garbage, so the negation is pinned
// by a dedicated test against a known-valid proof.
func Assemble(pvk *PreparedVerifyingKey, proof *Proof,
	preparedInput [codec.SizeG1]byte) ([]byte, error) {

	negA, err := codec.NegateG1(proof.A[:])
	if err != nil {
		return nil, fmt.Errorf("negating proof A: %w", err)
	}

	out := make([]byte, 0, SizePairingInput)
	out = append(out, negA[:]...)
	out = append(out, proof.B[:]...)
	out = append(out, pvk.AlphaG1[:]...)
	out = append(out, pvk.BetaG2[:]...)
	out = append(out, preparedInput[:]...)
	out = append(out, pvk.GammaG2[:]...)
	out = append(out, proof.C[:]...)
	out = append(out, pvk.DeltaG2[:]...)
	return out, nil
}
