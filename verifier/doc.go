/*
package verifier adapts gnark Groth16 BN254 artifacts to the form consumed by
an on-chain Solana verifier program and runs the verification equation the
way that program does, through the alt_bn128 syscalls.

The verifying key of a circuit is converted once into a prepared form and
serialized as a flat buffer that can be deployed as program account data:

	alpha_g1 (64B) || beta_g2 (128B) || gamma_g2 (128B) || delta_g2 (128B) ||
	ic_count (4B little-endian uint32) || ic[0..count) (64B each)

ic holds one G1 point per public input plus one constant term, so ic_count is
always the circuit's public input count plus one.

A proof travels as a 256-byte blob, A (64B G1) || B (128B G2) || C (64B G1),
followed by the public inputs as 32-byte big-endian scalar field elements.

Verification evaluates

	e(-A, B) * e(alpha, beta) * e(input, gamma) * e(C, delta) == 1

as a single multi-pairing syscall over four operand pairs in exactly that
order, where input is the linear combination ic[0] + sum(x_i * ic[i+1]) of
the public inputs against the ic basis. Batching the four pairings into one
syscall is what keeps the check inside the transaction compute budget.

Outcomes are never conflated: a nil error from Verify or VerifyProof is the
only acceptance signal; ErrVerificationRejected means the pairing ran and
said no; ErrPairingUnavailable means the environment could not run it, e.g.
the compute budget ran out.
*/
package verifier
