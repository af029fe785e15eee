// package altbn128 is an in-process implementation of the Solana runtime's
// alt_bn128 syscalls: G1 addition, G1 scalar multiplication and the
// multi-pairing check, all over the on-chain byte encodings. It lets the
// full verification path run and be tested without a validator, while
// metering compute units the way the runtime does.
package altbn128

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/earthskyorg/solana-zkproof/codec"
)

// Compute unit costs of the alt_bn128 syscalls, per the Solana runtime's
// published cost model.
const (
	CostG1Add                 = 334
	CostG1ScalarMul           = 3840
	CostPairingFirstPair      = 36364
	CostPairingAdditionalPair = 12121
)

// Transaction-level compute budgets of the runtime.
const (
	DefaultTxBudget = 200_000
	MaxTxBudget     = 1_400_000
)

// SizePairingPair is the byte length of one (G1, G2) pairing operand pair.
const SizePairingPair = codec.SizeG1 + codec.SizeG2

// ErrComputeBudgetExceeded is returned when an operation would consume more
// compute units than the budget has left. The whole invocation is then lost,
// matching the runtime aborting the transaction.
var ErrComputeBudgetExceeded = errors.New("compute budget exceeded")

// ComputeBudget meters compute units across syscall invocations. A nil
// *ComputeBudget means unmetered execution.
type ComputeBudget struct {
	remaining uint64
}

// NewComputeBudget returns a budget with the given number of compute units.
func NewComputeBudget(units uint64) *ComputeBudget {
	return &ComputeBudget{remaining: units}
}

// Remaining reports the compute units left in the budget.
func (b *ComputeBudget) Remaining() uint64 {
	if b == nil {
		return 0
	}
	return b.remaining
}

// consume deducts units up front, as the runtime does, so a failed syscall
// still pays for itself.
func (b *ComputeBudget) consume(units uint64) error {
	if b == nil {
		return nil
	}
	if b.remaining < units {
		b.remaining = 0
		return ErrComputeBudgetExceeded
	}
	b.remaining -= units
	return nil
}

// G1Add adds two G1 points given in 64-byte on-chain form.
func G1Add(a, b []byte, budget *ComputeBudget) ([]byte, error) {
	if err := budget.consume(CostG1Add); err != nil {
		return nil, err
	}
	pa, err := codec.DecodeG1(a)
	if err != nil {
		return nil, err
	}
	pb, err := codec.DecodeG1(b)
	if err != nil {
		return nil, err
	}
	var res bn254.G1Affine
	res.Add(&pa, &pb)
	out := codec.EncodeG1(&res)
	return out[:], nil
}

// G1ScalarMul multiplies a G1 point in 64-byte on-chain form by a 32-byte
// big-endian scalar.
func G1ScalarMul(point, scalar []byte, budget *ComputeBudget) ([]byte, error) {
	if err := budget.consume(CostG1ScalarMul); err != nil {
		return nil, err
	}
	p, err := codec.DecodeG1(point)
	if err != nil {
		return nil, err
	}
	s, err := codec.DecodeScalar(scalar)
	if err != nil {
		return nil, err
	}
	var k big.Int
	s.BigInt(&k)
	var res bn254.G1Affine
	res.ScalarMultiplication(&p, &k)
	out := codec.EncodeG1(&res)
	return out[:], nil
}

// PairingCheck runs the multi-pairing check over a buffer of concatenated
// (G1, G2) operand pairs, 192 bytes each, and reports whether the product of
// pairings is the identity element of the target group.
func PairingCheck(input []byte, budget *ComputeBudget) (bool, error) {
	if len(input) == 0 || len(input)%SizePairingPair != 0 {
		return false, fmt.Errorf("%w: pairing input must be a non-empty multiple of %d bytes, got %d",
			codec.ErrMalformedPoint, SizePairingPair, len(input))
	}
	n := len(input) / SizePairingPair
	cost := uint64(CostPairingFirstPair + (n-1)*CostPairingAdditionalPair)
	if err := budget.consume(cost); err != nil {
		return false, err
	}

	g1s := make([]bn254.G1Affine, n)
	g2s := make([]bn254.G2Affine, n)
	for i := 0; i < n; i++ {
		pair := input[i*SizePairingPair : (i+1)*SizePairingPair]
		var err error
		g1s[i], err = codec.DecodeG1(pair[:codec.SizeG1])
		if err != nil {
			return false, fmt.Errorf("pair %d: %w", i, err)
		}
		g2s[i], err = codec.DecodeG2(pair[codec.SizeG1:])
		if err != nil {
			return false, fmt.Errorf("pair %d: %w", i, err)
		}
	}

	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil {
		return false, fmt.Errorf("pairing computation failed: %v", err)
	}
	return ok, nil
}
