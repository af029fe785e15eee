/*
package setup produces or loads the Groth16 proving and verifying key pair
for a circuit.

Groth16 security rests on a circuit-specific trusted setup. Unlike universal
setups, the keys cannot be shared across circuits: every change to the
constraint system needs a new ceremony. A production ceremony runs in two
phases:

 1. a generic "powers of tau" phase, for which large, well-audited community
    ceremonies exist for BN254 (e.g. the perpetual powers-of-tau used by
    Semaphore, Hermez and snarkjs);
 2. a circuit-specific phase 2 contribution round, which consumes the phase 1
    output together with the compiled constraint system.

The ceremony is safe as long as at least one participant is honest and
destroys their contribution randomness. Its output is an opaque artifact
pair from this module's point of view: load it with FromCeremony.

For development and testing, Run with the TestOnly conf performs the whole
setup in process with local randomness. Whoever holds that randomness can
forge proofs for the circuit, so TestOnly keys must never guard real state.
*/
package setup
