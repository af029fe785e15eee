// package solanaclient wraps the solana-go SDK to interact with a verifier
// program deployed on a local test validator. A localnet with default
// configuration is expected to be running, e.g. `solana-test-validator`.
package solanaclient

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// VerifierProgramEnv names the environment variable holding the base58
// program id of the deployed verifier program.
const VerifierProgramEnv = "ZKPROOF_VERIFIER_PROGRAM"

// Client returns an RPC client for the local test validator.
func Client() *rpc.Client {
	return rpc.New(rpc.LocalNet_RPC)
}

// VerifierProgramID reads the deployed verifier's program id from the
// environment.
func VerifierProgramID() (solana.PublicKey, error) {
	v := os.Getenv(VerifierProgramEnv)
	if v == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is not set", VerifierProgramEnv)
	}
	id, err := solana.PublicKeyFromBase58(v)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid program id %q: %v", v, err)
	}
	return id, nil
}

// DefaultPayer loads the default solana CLI keypair as the fee payer.
func DefaultPayer() (solana.PrivateKey, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error locating home directory: %v", err)
	}
	path := filepath.Join(home, ".config", "solana", "id.json")
	payer, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading keypair %s: %v", path, err)
	}
	return payer, nil
}

// EnsureFunds airdrops one SOL to account if its balance is below minLamports.
// Only meaningful on a local or test cluster.
func EnsureFunds(ctx context.Context, client *rpc.Client,
	account solana.PublicKey, minLamports uint64) error {

	balance, err := client.GetBalance(ctx, account, rpc.CommitmentFinalized)
	if err != nil {
		return fmt.Errorf("error fetching balance: %v", err)
	}
	if balance.Value >= minLamports {
		return nil
	}
	if _, err := client.RequestAirdrop(ctx, account,
		solana.LAMPORTS_PER_SOL, rpc.CommitmentFinalized); err != nil {
		return fmt.Errorf("error requesting airdrop: %v", err)
	}
	return nil
}
