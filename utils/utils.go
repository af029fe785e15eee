// package utils contains functions and types to aid compilation caching and
// serialization / deserialization
package utils

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"

	zk "github.com/earthskyorg/solana-zkproof"
	"github.com/earthskyorg/solana-zkproof/codec"
	"github.com/earthskyorg/solana-zkproof/verifier"
)

// ShouldRecompile returns true if sourcePath is more recent than any of the
// files in targetPaths or if it encounters any error
func ShouldRecompile(sourcePath string, targetPaths ...string) bool {
	sourceFile, err := os.Stat(sourcePath)
	if err != nil {
		return true
	}
	sourceModTime := sourceFile.ModTime()

	for _, targetPath := range targetPaths {
		outputFile, err := os.Stat(targetPath)
		if err != nil {
			return true
		}
		if sourceModTime.After(outputFile.ModTime()) {
			return true
		}
	}
	return false
}

// InstructionData packs a proof blob and its public inputs into the
// instruction data of the on-chain verifier's verify instruction:
// proof (256B) || public inputs (32B each). The input count is not repeated
// here; the program reads it from the deployed verifying key account.
func InstructionData(proof []byte, publicInputs []byte) ([]byte, error) {
	if len(proof) != verifier.SizeProof {
		return nil, fmt.Errorf("proof must be %d bytes, got %d",
			verifier.SizeProof, len(proof))
	}
	if len(publicInputs)%codec.SizeFieldElement != 0 {
		return nil, fmt.Errorf("public inputs must be %d-byte aligned, got %d bytes",
			codec.SizeFieldElement, len(publicInputs))
	}
	data := make([]byte, 0, len(proof)+len(publicInputs))
	data = append(data, proof...)
	data = append(data, publicInputs...)
	return data, nil
}

// CompiledCircuitBytes contains the compiled circuit pre-serialized to bytes
type CompiledCircuitBytes struct {
	Ccs []byte
	Pk  []byte
	Vk  []byte
}

// SerializeCompiledCircuit serializes a compiled circuit to file
func SerializeCompiledCircuit(cc *zk.CompiledCircuit, filepath string) error {
	var ccsB, pkB, vkB bytes.Buffer
	if _, err := cc.Ccs.WriteTo(&ccsB); err != nil {
		return fmt.Errorf("error serializing constraint system: %v", err)
	}
	if _, err := cc.Pk.WriteTo(&pkB); err != nil {
		return fmt.Errorf("error serializing proving key: %v", err)
	}
	if _, err := cc.Vk.WriteTo(&vkB); err != nil {
		return fmt.Errorf("error serializing verifying key: %v", err)
	}

	c := CompiledCircuitBytes{Ccs: ccsB.Bytes(), Pk: pkB.Bytes(), Vk: vkB.Bytes()}

	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("error creating file: %v", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("error encoding compiled circuit: %v", err)
	}
	return nil
}

// DeserializeCompiledCircuit reads a compiled circuit back from file
func DeserializeCompiledCircuit(filepath string) (*zk.CompiledCircuit, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %v", err)
	}
	defer file.Close()

	var c CompiledCircuitBytes
	if err := gob.NewDecoder(file).Decode(&c); err != nil {
		return nil, fmt.Errorf("error decoding compiled circuit: %v", err)
	}

	cc := &zk.CompiledCircuit{
		Ccs: groth16.NewCS(ecc.BN254),
		Pk:  groth16.NewProvingKey(ecc.BN254),
		Vk:  groth16.NewVerifyingKey(ecc.BN254),
	}
	if _, err := cc.Ccs.ReadFrom(bytes.NewReader(c.Ccs)); err != nil {
		return nil, fmt.Errorf("error reading constraint system: %v", err)
	}
	if _, err := cc.Pk.ReadFrom(bytes.NewReader(c.Pk)); err != nil {
		return nil, fmt.Errorf("error reading proving key: %v", err)
	}
	if _, err := cc.Vk.ReadFrom(bytes.NewReader(c.Vk)); err != nil {
		return nil, fmt.Errorf("error reading verifying key: %v", err)
	}
	return cc, nil
}
