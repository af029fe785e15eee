package verifier

import (
	"errors"
	"fmt"

	"github.com/earthskyorg/solana-zkproof/altbn128"
	"github.com/earthskyorg/solana-zkproof/codec"
)

var (
	// ErrVerificationRejected means the pairing check executed and the
	// product of pairings was not the identity: the proof is invalid for
	// these inputs. This is a final answer, not a transient failure.
	ErrVerificationRejected = errors.New("proof verification rejected")

	// ErrPairingUnavailable means the pairing primitive could not run to
	// completion, e.g. the compute budget was exhausted. The proof's
	// validity is unknown; a retry with a larger budget may be meaningful.
	ErrPairingUnavailable = errors.New("pairing primitive unavailable")
)

// Verify runs the multi-pairing check over an assembled operand buffer.
// A nil return is the only acceptance signal.
func Verify(pairingInput []byte, budget *altbn128.ComputeBudget) error {
	ok, err := altbn128.PairingCheck(pairingInput, budget)
	if err != nil {
		if errors.Is(err, codec.ErrMalformedPoint) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPairingUnavailable, err)
	}
	if !ok {
		return ErrVerificationRejected
	}
	return nil
}

// VerifyProof runs the whole verification path the way the on-chain program
// does: prepare the public inputs, assemble the operand buffer, issue the
// single multi-pairing syscall. It holds no state across calls; verifying
// the same triple twice yields the same outcome both times.
func VerifyProof(pvk *PreparedVerifyingKey, proof *Proof,
	publicInputs [][codec.SizeFieldElement]byte, budget *altbn128.ComputeBudget) error {

	preparedInput, err := PrepareInputs(pvk, publicInputs, budget)
	if err != nil {
		if errors.Is(err, altbn128.ErrComputeBudgetExceeded) {
			return fmt.Errorf("%w: %v", ErrPairingUnavailable, err)
		}
		return err
	}
	pairingInput, err := Assemble(pvk, proof, preparedInput)
	if err != nil {
		return err
	}
	return Verify(pairingInput, budget)
}
