package zkproof

import (
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"

	"github.com/earthskyorg/solana-zkproof/verifier"
)

// marshalProof marshals a Groth16 proof to the on-chain binary blob.
func marshalProof(proof groth16.Proof) ([]byte, error) {
	p, err := verifier.ProofFromGnark(proof)
	if err != nil {
		return nil, fmt.Errorf("error converting proof: %v", err)
	}
	return p.Marshal(), nil
}

// extractPublicInputs pulls the public inputs out of a witness as 32-byte
// big-endian field elements.
func extractPublicInputs(wtns witness.Witness) ([][32]byte, error) {
	public, err := wtns.Public()
	if err != nil {
		return nil, fmt.Errorf("error extracting public witness: %v", err)
	}
	// MarshalBinary packs public witness data as per gnark binary format
	// (all big-endian):
	//   - 4 bytes uint32 :number of public variables
	//   - 4 bytes uint32 :number of secret variables
	//   - 4 bytes uint32 :number of total variables
	//   - a byte array for each variable, in the same order as in the
	//     circuit definition, of the same size as the field modulus
	data, err := public.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("error marshaling public witness: %v", err)
	}
	if len(data) < 12 || (len(data)-12)%32 != 0 {
		return nil, fmt.Errorf("unexpected public witness encoding of %d bytes", len(data))
	}
	data = data[12:]

	inputs := make([][32]byte, len(data)/32)
	for i := range inputs {
		copy(inputs[i][:], data[i*32:])
	}
	return inputs, nil
}
