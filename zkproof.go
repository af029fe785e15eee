// package zkproof compiles gnark circuits, generates Groth16 proofs over
// BN254, and converts the resulting artifacts into the byte layout consumed
// by an on-chain Solana verifier built on the alt_bn128 pairing syscall.
package zkproof

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/earthskyorg/solana-zkproof/logger"
	"github.com/earthskyorg/solana-zkproof/setup"
	"github.com/earthskyorg/solana-zkproof/verifier"
)

// CompiledCircuit is a compiled circuit with its proving and verifying keys.
// The keys are immutable once generated; a single CompiledCircuit may serve
// any number of concurrent proving sessions.
type CompiledCircuit struct {
	Ccs constraint.ConstraintSystem
	Pk  groth16.ProvingKey
	Vk  groth16.VerifyingKey
}

// VerifiedProof is a proof and its witness, generated after checking the
// proof with gnark's own verifier.
type VerifiedProof struct {
	Proof   groth16.Proof
	Witness witness.Witness
}

// Compile generates a CompiledCircuit from a circuit definition. The curve
// is always BN254: it is the only pairing-friendly curve the Solana runtime
// exposes syscalls for. setupConf specifies whether to run a `Trusted` setup
// or a `TestOnly` setup, the latter not suitable for production.
func Compile(circuit frontend.Circuit, setupConf setup.Conf) (
	*CompiledCircuit, error) {

	log := logger.Logger()
	start := time.Now()
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("error compiling circuit: %v", err)
	}
	log.Debug().Dur("took", time.Since(start)).
		Int("constraints", ccs.GetNbConstraints()).Msg("circuit compiled")

	pk, vk, err := setup.Run(ccs, setupConf)
	if err != nil {
		return nil, fmt.Errorf("error setting up Groth16: %v", err)
	}
	return &CompiledCircuit{ccs, pk, vk}, nil
}

// Prove generates a proof from a circuit assignment and verifies it with
// gnark before handing it out, so an exported proof is known-good off chain.
func (cc *CompiledCircuit) Prove(assignment frontend.Circuit) (
	*VerifiedProof, error) {

	wtns, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("error creating witness: %v", err)
	}
	publicInputs, err := wtns.Public()
	if err != nil {
		return nil, fmt.Errorf("error creating public inputs: %v", err)
	}

	log := logger.Logger()
	start := time.Now()
	proof, err := groth16.Prove(cc.Ccs, cc.Pk, wtns)
	if err != nil {
		return nil, fmt.Errorf("error creating Groth16 proof: %v", err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("proof generated")

	if err := groth16.Verify(proof, cc.Vk, publicInputs); err != nil {
		return nil, fmt.Errorf("error verifying Groth16 proof: %v", err)
	}
	return &VerifiedProof{proof, wtns}, nil
}

// PreparedVerifyingKey converts the circuit's verifying key into the
// on-chain prepared form.
func (cc *CompiledCircuit) PreparedVerifyingKey() (
	*verifier.PreparedVerifyingKey, error) {
	return verifier.Prepare(cc.Vk)
}

// WriteVerifyingKey writes the prepared verifying key as the binary blob
// deployed as the on-chain verifier's account data.
func (cc *CompiledCircuit) WriteVerifyingKey(w io.Writer) error {
	pvk, err := verifier.Prepare(cc.Vk)
	if err != nil {
		return fmt.Errorf("error preparing verifying key: %v", err)
	}
	if _, err := w.Write(pvk.Marshal()); err != nil {
		return fmt.Errorf("error writing verifying key: %v", err)
	}
	return nil
}

// ExportVerifyingKey writes the prepared verifying key to a file.
func (cc *CompiledCircuit) ExportVerifyingKey(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %v", err)
	}
	defer file.Close()
	return cc.WriteVerifyingKey(file)
}

// ExportProofAndPublicInputs writes a proof and its public inputs to files
// as binary blobs for the on-chain verifier.
func (vp *VerifiedProof) ExportProofAndPublicInputs(proofFileName string,
	publicInputsFileName string) error {

	proofFile, err := os.Create(proofFileName)
	if err != nil {
		return fmt.Errorf("error creating proof file: %v", err)
	}
	defer proofFile.Close()

	publicInputsFile, err := os.Create(publicInputsFileName)
	if err != nil {
		return fmt.Errorf("error creating public inputs file: %v", err)
	}
	defer publicInputsFile.Close()

	if err := vp.WriteProof(proofFile); err != nil {
		return err
	}
	return vp.WritePublicInputs(publicInputsFile)
}

// WriteProof writes the proof as the 256-byte blob the on-chain verifier
// consumes.
func (vp *VerifiedProof) WriteProof(w io.Writer) error {
	data, err := marshalProof(vp.Proof)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing proof: %v", err)
	}
	return nil
}

// WritePublicInputs writes the public inputs as concatenated 32-byte
// big-endian field elements, the order matching the circuit definition.
func (vp *VerifiedProof) WritePublicInputs(w io.Writer) error {
	inputs, err := extractPublicInputs(vp.Witness)
	if err != nil {
		return err
	}
	for i := range inputs {
		if _, err := w.Write(inputs[i][:]); err != nil {
			return fmt.Errorf("error writing public inputs: %v", err)
		}
	}
	return nil
}

// PublicInputs returns the proof's public inputs as 32-byte big-endian
// field elements in circuit definition order.
func (vp *VerifiedProof) PublicInputs() ([][32]byte, error) {
	return extractPublicInputs(vp.Witness)
}

// OnChainProof returns the proof in the on-chain encoding.
func (vp *VerifiedProof) OnChainProof() (*verifier.Proof, error) {
	return verifier.ProofFromGnark(vp.Proof)
}
