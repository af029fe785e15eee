package verifier

import (
	"errors"
	"fmt"

	"github.com/earthskyorg/solana-zkproof/altbn128"
	"github.com/earthskyorg/solana-zkproof/codec"
)

// ErrPublicInputCountMismatch is returned when the number of supplied public
// inputs does not match the circuit the verifying key was set up for. This
// is a configuration error on the caller's side and retrying with the same
// inputs cannot succeed.
var ErrPublicInputCountMismatch = errors.New("public input count mismatch")

// PrepareInputs computes the G1 point representing the public inputs:
// ic[0] + sum(input[i] * ic[i+1]), using the same G1 syscalls the deployed
// program uses. The result is deterministic, bit-identical for identical
// arguments, and never persisted.
//
// The arity check runs before any curve work; a truncated or padded
// combination is never attempted.
func PrepareInputs(pvk *PreparedVerifyingKey, publicInputs [][codec.SizeFieldElement]byte,
	budget *altbn128.ComputeBudget) ([codec.SizeG1]byte, error) {

	var zero [codec.SizeG1]byte
	if len(publicInputs) != pvk.NbPublicInputs() {
		return zero, fmt.Errorf("%w: got %d public inputs, verifying key expects %d",
			ErrPublicInputCountMismatch, len(publicInputs), pvk.NbPublicInputs())
	}
	for i := range publicInputs {
		if _, err := codec.DecodeScalar(publicInputs[i][:]); err != nil {
			return zero, fmt.Errorf("public input %d: %w", i, err)
		}
	}

	acc := make([]byte, codec.SizeG1)
	copy(acc, pvk.IC[0][:])
	for i := range publicInputs {
		term, err := altbn128.G1ScalarMul(pvk.IC[i+1][:], publicInputs[i][:], budget)
		if err != nil {
			return zero, fmt.Errorf("scaling ic[%d]: %w", i+1, err)
		}
		acc, err = altbn128.G1Add(acc, term, budget)
		if err != nil {
			return zero, fmt.Errorf("accumulating ic[%d]: %w", i+1, err)
		}
	}

	var out [codec.SizeG1]byte
	copy(out[:], acc)
	return out, nil
}
