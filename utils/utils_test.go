package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/earthskyorg/solana-zkproof/verifier"
)

func TestInstructionData(t *testing.T) {
	proof := bytes.Repeat([]byte{0xab}, verifier.SizeProof)
	inputs := bytes.Repeat([]byte{0xcd}, 64)

	data, err := InstructionData(proof, inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data[:verifier.SizeProof], proof) {
		t.Errorf("proof must come first in the instruction data")
	}
	if !bytes.Equal(data[verifier.SizeProof:], inputs) {
		t.Errorf("public inputs must follow the proof")
	}

	if _, err := InstructionData(proof[:100], inputs); err == nil {
		t.Errorf("expected error for a short proof")
	}
	if _, err := InstructionData(proof, inputs[:33]); err == nil {
		t.Errorf("expected error for misaligned public inputs")
	}
	if _, err := InstructionData(proof, nil); err != nil {
		t.Errorf("no public inputs is valid, got %v", err)
	}
}

func TestShouldRecompile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "circuit.go")
	target := filepath.Join(dir, "circuit.gob")

	if err := os.WriteFile(source, []byte("source"), 0644); err != nil {
		t.Fatal(err)
	}

	if !ShouldRecompile(source, target) {
		t.Errorf("missing target must trigger recompilation")
	}

	if err := os.WriteFile(target, []byte("target"), 0644); err != nil {
		t.Fatal(err)
	}
	if ShouldRecompile(source, target) {
		t.Errorf("up to date target must not trigger recompilation")
	}

	newTime := time.Now().Add(time.Hour)
	if err := os.Chtimes(source, newTime, newTime); err != nil {
		t.Fatal(err)
	}
	if !ShouldRecompile(source, target) {
		t.Errorf("newer source must trigger recompilation")
	}

	if !ShouldRecompile(filepath.Join(dir, "missing.go"), target) {
		t.Errorf("missing source must trigger recompilation")
	}
}
