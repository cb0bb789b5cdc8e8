// Package event implements the generic signed envelope model: canonical
// serialization, identifier computation, BIP-340 Schnorr signing and
// verification, and tag lookup.
package event
