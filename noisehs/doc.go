// Package noisehs implements the Noise Protocol Framework handshake state
// machine used to establish sessions between mesh peers: pattern XX (no
// prior key knowledge, three messages, mutual authentication) and pattern
// KK (both static keys known in advance, two messages).
//
// Both patterns run over the Noise_{XX,KK}_25519_ChaChaPoly_SHA256 cipher
// suite via github.com/flynn/noise, exactly as the teacher's noise package
// wires Noise_IK and Noise_XX for Tox. KK is new here: flynn/noise ships
// the KK pattern out of the box, so no custom pattern definition is needed.
package noisehs
