// package testutils contains fixture circuits and helper functions shared by
// tests and examples
package testutils

import (
	"fmt"
	"os"

	"github.com/consensys/gnark/frontend"
)

// MulCircuit constrains x * 1 == x with x public. It is deliberately
// trivial: the interesting part of its proofs is the verification-side
// byte plumbing, not the relation.
type MulCircuit struct {
	X frontend.Variable `gnark:",public"`
	// One is a secret witness pinned to 1 so the product is a real
	// constraint instead of a constant the compiler folds away.
	One frontend.Variable
}

func (circuit *MulCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(circuit.One, 1)
	api.AssertIsEqual(api.Mul(circuit.X, circuit.One), circuit.X)
	return nil
}

// CubicCircuit constrains x^3 + x + 5 == y with y public, the classic
// gnark example with a secret witness.
type CubicCircuit struct {
	X frontend.Variable
	Y frontend.Variable `gnark:",public"`
}

func (circuit *CubicCircuit) Define(api frontend.API) error {
	x3 := api.Mul(circuit.X, circuit.X, circuit.X)
	api.AssertIsEqual(api.Add(x3, circuit.X, 5), circuit.Y)
	return nil
}

// CreateDirectoryIfNeeded creates dir if it does not exist
func CreateDirectoryIfNeeded(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	case err != nil:
		return fmt.Errorf("error accessing %s: %v", dir, err)
	case !info.IsDir():
		return fmt.Errorf("%s exists and is not a directory", dir)
	}
	return nil
}

// InputsToBytes flattens 32-byte public inputs into one buffer.
func InputsToBytes(inputs [][32]byte) []byte {
	out := make([]byte, 0, len(inputs)*32)
	for i := range inputs {
		out = append(out, inputs[i][:]...)
	}
	return out
}

// BytesToInputs splits a buffer of concatenated 32-byte field elements.
func BytesToInputs(b []byte) ([][32]byte, error) {
	if len(b)%32 != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of 32", len(b))
	}
	inputs := make([][32]byte, len(b)/32)
	for i := range inputs {
		copy(inputs[i][:], b[i*32:])
	}
	return inputs, nil
}
