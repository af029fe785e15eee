package testutils

import (
	"context"
	"errors"
	"fmt"
	"hash"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	mimc_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/accumulator/merkle"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/gagliardetto/solana-go"

	zk "github.com/earthskyorg/solana-zkproof"
	"github.com/earthskyorg/solana-zkproof/altbn128"
	"github.com/earthskyorg/solana-zkproof/codec"
	"github.com/earthskyorg/solana-zkproof/setup"
	"github.com/earthskyorg/solana-zkproof/testutils/solanaclient"
	"github.com/earthskyorg/solana-zkproof/utils"
	"github.com/earthskyorg/solana-zkproof/verifier"
)

const (
	artefactsFolder = "generated"
)

type HashFunc func(data ...[]byte) []byte

func init() {
	// if artefactsFolder does not exist, create it
	CreateDirectoryIfNeeded(artefactsFolder)
}

const MerkleTreeLevels = 16

type MerkleCircuit struct {
	RootHash frontend.Variable `gnark:",public"`
	Path     [MerkleTreeLevels + 1]frontend.Variable
	Index    frontend.Variable
}

func (circuit *MerkleCircuit) Define(api frontend.API) error {
	m := merkle.MerkleProof{
		RootHash: circuit.RootHash,
		Path:     circuit.Path[:],
	}

	h, _ := mimc.NewMiMC(api)
	m.VerifyProof(api, &h, circuit.Index)

	return nil
}

// merkleAssignment builds a 16-level MiMC merkle tree over six leaves and
// returns the assignment proving membership of the fourth one.
func merkleAssignment() MerkleCircuit {
	hash := mimcHasher()
	zeroHashes := buildZeroHashes(MerkleTreeLevels, hash)
	leaves := make([][]byte, 6)
	for i := range leaves {
		leaves[i] = []byte("leaf" + fmt.Sprint(i))
	}

	indexForProof := 3 // the fourth inserted leaf
	leafForProof := leaves[indexForProof]

	path := make([][]byte, MerkleTreeLevels+1)
	path[0] = leafForProof
	path[1] = hash(leaves[2])
	path[2] = hash(hash(leaves[0]), hash(leaves[1]))
	path[3] = hash(hash(hash(leaves[4]), hash(leaves[5])), zeroHashes[1])
	for i := 4; i < MerkleTreeLevels+1; i++ {
		path[i] = zeroHashes[i-1]
	}

	rootForProof := hash(path[2], hash(path[1], hash(path[0])))
	for i := 3; i <= MerkleTreeLevels; i++ {
		rootForProof = hash(rootForProof, path[i])
	}

	var assignment MerkleCircuit
	var pathForProof [MerkleTreeLevels + 1]frontend.Variable
	for i := range path {
		pathForProof[i] = path[i]
	}
	assignment.RootHash = rootForProof
	assignment.Path = pathForProof
	assignment.Index = indexForProof
	return assignment
}

// TestVerifierPipeline runs the full flow a deployment goes through: compile
// and prove a merkle membership circuit, export the verifying key, proof and
// public inputs as files, read everything back as an on-chain program would,
// and verify over the emulated syscalls.
func TestVerifierPipeline(t *testing.T) {
	var circuit MerkleCircuit
	assignment := merkleAssignment()

	name := "MerkleVerifier"
	vkFilename := filepath.Join(artefactsFolder, name+".vk")
	proofFilename := filepath.Join(artefactsFolder, name+".proof")
	publicInputsFilename := filepath.Join(artefactsFolder,
		name+".public_inputs")

	compiledCircuit, err := zk.Compile(&circuit, setup.TestOnly)
	if err != nil {
		t.Fatalf("\nerror compiling circuit: %v", err)
	}

	verifiedProof, err := compiledCircuit.Prove(&assignment)
	if err != nil {
		t.Fatalf("\nerror proving: %v", err)
	}

	if err := compiledCircuit.ExportVerifyingKey(vkFilename); err != nil {
		t.Fatalf("error writing verifying key: %v", err)
	}
	err = verifiedProof.ExportProofAndPublicInputs(proofFilename,
		publicInputsFilename)
	if err != nil {
		t.Fatal(err)
	}

	// from here on use only the exported files, like the program does
	vkBlob, err := os.ReadFile(vkFilename)
	if err != nil {
		t.Fatalf("failed to read verifying key file: %v", err)
	}
	proofBlob, err := os.ReadFile(proofFilename)
	if err != nil {
		t.Fatalf("failed to read proof file: %v", err)
	}
	publicInputsBlob, err := os.ReadFile(publicInputsFilename)
	if err != nil {
		t.Fatalf("failed to read public inputs file: %v", err)
	}

	pvk, err := verifier.ParsePreparedVerifyingKey(vkBlob)
	if err != nil {
		t.Fatalf("error parsing verifying key: %v", err)
	}
	proof, err := verifier.ParseProof(proofBlob)
	if err != nil {
		t.Fatalf("error parsing proof: %v", err)
	}
	publicInputs, err := BytesToInputs(publicInputsBlob)
	if err != nil {
		t.Fatalf("error splitting public inputs: %v", err)
	}

	budget := altbn128.NewComputeBudget(altbn128.DefaultTxBudget)
	if err := verifier.VerifyProof(pvk, proof, publicInputs, budget); err != nil {
		t.Fatalf("error verifying proof: %v", err)
	}

	// now let's change the public inputs and see it fail
	tamperedInputs, err := BytesToInputs(publicInputsBlob)
	if err != nil {
		t.Fatal(err)
	}
	tamperedInputs[0][31] ^= 0x01
	err = verifier.VerifyProof(pvk, proof, tamperedInputs,
		altbn128.NewComputeBudget(altbn128.DefaultTxBudget))
	if !errors.Is(err, verifier.ErrVerificationRejected) {
		t.Fatalf("verification successful but was expected to fail, got %v", err)
	}

	// now let's change the proof and see it fail; we overwrite the first g1
	// point of the proof by copying the C point over it
	for i := 0; i < codec.SizeG1; i++ {
		proofBlob[i] = proofBlob[codec.SizeG1+codec.SizeG2+i]
	}
	tamperedProof, err := verifier.ParseProof(proofBlob)
	if err != nil {
		t.Fatalf("error parsing tampered proof: %v", err)
	}
	err = verifier.VerifyProof(pvk, tamperedProof, publicInputs,
		altbn128.NewComputeBudget(altbn128.DefaultTxBudget))
	if !errors.Is(err, verifier.ErrVerificationRejected) {
		t.Fatalf("verification successful but was expected to fail, got %v", err)
	}
}

// TestCompiledCircuitSerialization round trips a compiled circuit through
// the gob files used to avoid recompiling across runs, then proves with the
// deserialized copy.
func TestCompiledCircuitSerialization(t *testing.T) {
	var circuit MerkleCircuit
	compiledCircuit, err := zk.Compile(&circuit, setup.TestOnly)
	if err != nil {
		t.Fatalf("\nerror compiling circuit: %v", err)
	}

	path := filepath.Join(artefactsFolder, "MerkleVerifier.gob")
	if err := utils.SerializeCompiledCircuit(compiledCircuit, path); err != nil {
		t.Fatalf("error serializing compiled circuit: %v", err)
	}
	restored, err := utils.DeserializeCompiledCircuit(path)
	if err != nil {
		t.Fatalf("error deserializing compiled circuit: %v", err)
	}

	assignment := merkleAssignment()
	verifiedProof, err := restored.Prove(&assignment)
	if err != nil {
		t.Fatalf("error proving with deserialized circuit: %v", err)
	}

	pvk, err := restored.PreparedVerifyingKey()
	if err != nil {
		t.Fatalf("error preparing verifying key: %v", err)
	}
	proof, err := verifiedProof.OnChainProof()
	if err != nil {
		t.Fatalf("error encoding proof: %v", err)
	}
	publicInputs, err := verifiedProof.PublicInputs()
	if err != nil {
		t.Fatalf("error extracting public inputs: %v", err)
	}
	if err := verifier.VerifyProof(pvk, proof, publicInputs, nil); err != nil {
		t.Fatalf("error verifying proof: %v", err)
	}
}

// TestOnChainVerifier simulates a verifying transaction against a local
// validator. It needs a deployed verifier program and is skipped unless the
// program id env var is set.
func TestOnChainVerifier(t *testing.T) {
	if os.Getenv(solanaclient.VerifierProgramEnv) == "" {
		t.Skipf("%s not set, skipping local network test",
			solanaclient.VerifierProgramEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := solanaclient.Client()
	programID, err := solanaclient.VerifierProgramID()
	if err != nil {
		t.Fatal(err)
	}
	payer, err := solanaclient.DefaultPayer()
	if err != nil {
		t.Fatalf("error loading payer: %v", err)
	}
	if err := solanaclient.EnsureFunds(ctx, client, payer.PublicKey(),
		solana.LAMPORTS_PER_SOL/10); err != nil {
		t.Fatalf("error funding payer: %v", err)
	}

	var circuit MerkleCircuit
	assignment := merkleAssignment()
	compiledCircuit, err := zk.Compile(&circuit, setup.TestOnly)
	if err != nil {
		t.Fatalf("\nerror compiling circuit: %v", err)
	}
	verifiedProof, err := compiledCircuit.Prove(&assignment)
	if err != nil {
		t.Fatalf("\nerror proving: %v", err)
	}
	proof, err := verifiedProof.OnChainProof()
	if err != nil {
		t.Fatal(err)
	}
	publicInputs, err := verifiedProof.PublicInputs()
	if err != nil {
		t.Fatal(err)
	}

	// the verifying key account is the program id itself in this setup; a
	// real deployment would create a dedicated account holding pvk.Marshal()
	simulate := true
	result, err := solanaclient.CallVerifier(ctx, client, programID, programID,
		payer, proof.Marshal(), InputsToBytes(publicInputs), simulate)
	if err != nil {
		t.Fatalf("error calling verifier program: %v", err)
	}
	if result.UnitsConsumed > altbn128.MaxTxBudget {
		t.Fatalf("verifier consumed %d compute units, above the transaction cap",
			result.UnitsConsumed)
	}
}

// mimcHasher hashes data matching the circuit MiMC hashing
func mimcHasher() HashFunc {
	var m hash.Hash = mimc_bn254.NewMiMC()
	mod := fr_bn254.Modulus()
	return func(data ...[]byte) []byte {
		size := m.BlockSize()
		for _, d := range data {
			n := new(big.Int).SetBytes(d)
			n.Mod(n, mod)
			d = n.Bytes()
			if len(d) < size {
				d = n.FillBytes(make([]byte, size))
			}
			m.Write(d)
		}
		result := m.Sum(nil)
		m.Reset()
		return result
	}
}

// buildZeroHashes returns a list of uninitalized nodes for the merkle tree
// where zeroHashes[i] is the node at level i assuming all the children have
// the 0 value (i.e., they are uninitialized)
func buildZeroHashes(levels int, hash HashFunc) [][]byte {
	zeroHashes := make([][]byte, levels+1) // +1 to include root
	zeroHashes[0] = hash([]byte{0})
	for i := 1; i <= levels; i++ {
		zeroHashes[i] = hash(zeroHashes[i-1], zeroHashes[i-1])
	}
	return zeroHashes
}
