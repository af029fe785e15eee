package setup

import (
	"fmt"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
)

// Conf specifies what setup to run, either trusted as per doc.go or a test
// only setup not suitable for production.
type Conf int

const (
	Trusted Conf = iota
	TestOnly
)

// Run produces the proving and verifying keys for a constraint system.
// TestOnly runs an in-process Groth16 setup with local randomness; anyone
// holding that randomness can forge proofs, so it must never secure real
// value. Trusted keys come from an external multi-party ceremony and are
// loaded with FromCeremony, not generated here.
func Run(ccs constraint.ConstraintSystem, conf Conf) (
	groth16.ProvingKey, groth16.VerifyingKey, error) {

	switch conf {
	case TestOnly:
		pk, vk, err := groth16.Setup(ccs)
		if err != nil {
			return nil, nil, fmt.Errorf("error running Groth16 setup: %v", err)
		}
		return pk, vk, nil
	case Trusted:
		return nil, nil, fmt.Errorf(
			"trusted Groth16 keys are circuit-specific ceremony artifacts; load them with setup.FromCeremony")
	default:
		return nil, nil, fmt.Errorf("unknown setup conf: %d", conf)
	}
}

// FromCeremony loads proving and verifying keys produced by an external
// ceremony. The proving key is read with UnsafeReadFrom, pairing with
// WriteKeys' WriteRawTo; the verifying key is read with ReadFrom so its
// points are validated on load.
func FromCeremony(pkPath, vkPath string) (
	groth16.ProvingKey, groth16.VerifyingKey, error) {

	pkFile, err := os.Open(pkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening proving key: %v", err)
	}
	defer pkFile.Close()

	pk := groth16.NewProvingKey(ecc.BN254)
	if _, err := pk.UnsafeReadFrom(pkFile); err != nil {
		return nil, nil, fmt.Errorf("error reading proving key: %v", err)
	}

	vkFile, err := os.Open(vkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening verifying key: %v", err)
	}
	defer vkFile.Close()

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(vkFile); err != nil {
		return nil, nil, fmt.Errorf("error reading verifying key: %v", err)
	}
	return pk, vk, nil
}

// WriteKeys writes a key pair to files for later use with FromCeremony.
// The proving key is written uncompressed, trading disk for load time.
func WriteKeys(pk groth16.ProvingKey, vk groth16.VerifyingKey,
	pkPath, vkPath string) error {

	pkFile, err := os.Create(pkPath)
	if err != nil {
		return fmt.Errorf("error creating proving key file: %v", err)
	}
	defer pkFile.Close()
	if _, err := pk.WriteRawTo(pkFile); err != nil {
		return fmt.Errorf("error writing proving key: %v", err)
	}

	vkFile, err := os.Create(vkPath)
	if err != nil {
		return fmt.Errorf("error creating verifying key file: %v", err)
	}
	defer vkFile.Close()
	if _, err := vk.WriteTo(vkFile); err != nil {
		return fmt.Errorf("error writing verifying key: %v", err)
	}
	return nil
}
