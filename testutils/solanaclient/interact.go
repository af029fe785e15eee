package solanaclient

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/earthskyorg/solana-zkproof/utils"
	"github.com/earthskyorg/solana-zkproof/verifier"
)

// VerifyResult reports what the verifier program did with a transaction.
type VerifyResult struct {
	Signature     solana.Signature
	Logs          []string
	UnitsConsumed uint64
}

// CallVerifier submits (or simulates, if simulate is true) a transaction
// invoking the verifier program with proof || public inputs as instruction
// data. The verifying key account is passed read-only; the program reads
// the expected input count from it. A rejected proof surfaces as a program
// error in the returned transaction error, not as an RPC failure.
func CallVerifier(ctx context.Context, client *rpc.Client,
	programID solana.PublicKey, vkAccount solana.PublicKey,
	payer solana.PrivateKey, proof []byte, publicInputs []byte,
	simulate bool) (*VerifyResult, error) {

	data, err := utils.InstructionData(proof, publicInputs)
	if err != nil {
		return nil, fmt.Errorf("error building instruction data: %v", err)
	}

	instruction := solana.NewInstruction(programID,
		solana.AccountMetaSlice{
			solana.NewAccountMeta(vkAccount, false, false),
		}, data)

	recent, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("error fetching blockhash: %v", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(payer.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("error building transaction: %v", err)
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if payer.PublicKey().Equals(key) {
			return &payer
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("error signing transaction: %v", err)
	}

	if simulate {
		out, err := client.SimulateTransactionWithOpts(ctx, tx,
			&rpc.SimulateTransactionOpts{
				SigVerify:  true,
				Commitment: rpc.CommitmentFinalized,
			})
		if err != nil {
			return nil, fmt.Errorf("error simulating transaction: %v", err)
		}
		res := &VerifyResult{Logs: out.Value.Logs}
		if out.Value.UnitsConsumed != nil {
			res.UnitsConsumed = *out.Value.UnitsConsumed
		}
		if out.Value.Err != nil {
			return res, fmt.Errorf("verifier program rejected the transaction: %v",
				out.Value.Err)
		}
		return res, nil
	}

	sig, err := client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return nil, fmt.Errorf("error sending transaction: %v", err)
	}
	return &VerifyResult{Signature: sig}, nil
}

// FetchVerifyingKey reads and parses the prepared verifying key deployed in
// the given account's data.
func FetchVerifyingKey(ctx context.Context, client *rpc.Client,
	account solana.PublicKey) (*verifier.PreparedVerifyingKey, error) {

	info, err := client.GetAccountInfo(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error fetching verifying key account: %v", err)
	}
	if info.Value == nil {
		return nil, fmt.Errorf("verifying key account %s does not exist", account)
	}
	pvk, err := verifier.ParsePreparedVerifyingKey(info.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("error parsing verifying key account data: %v", err)
	}
	return pvk, nil
}
