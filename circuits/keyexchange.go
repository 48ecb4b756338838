package circuits

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// Option configures the key-exchange gadget.
type Option func(*keyExchangeConfig)

type keyExchangeConfig struct {
	binaryScalarCheck bool
}

// WithBinaryScalarCheck makes the gadget constrain every secret bit to be
// boolean. By default booleanness is a caller contract, as a non-boolean bit
// silently degenerates the ladder instead of faulting; the check costs one
// constraint per bit.
func WithBinaryScalarCheck() Option {
	return func(cfg *keyExchangeConfig) {
		cfg.binaryScalarCheck = true
	}
}

// KeyExchange computes one party's half of an elliptic-curve Diffie-Hellman
// exchange inside a circuit: given the base point abscissa and this party's
// secret bit sequence, it exposes the x-coordinate of secret·Base as
// PublicValue, the key-exchange material to send to the other party.
//
// By default the gadget validates only prover-supplied values (the derived
// y-coordinates of non-constant points). Public inputs such as the base
// point or the counterparty's value are not checked: they can be validated
// outside the circuit, and the Curve25519 design argues the check is
// unnecessary for this curve family. Callers that want it anyway can use
// [KeyExchange.ValidateInputs], which is not called by default.
type KeyExchange struct {
	curve *Curve
	bits  []frontend.Variable

	// inputs records the base point and every counterparty point, for the
	// optional validation path.
	inputs []AffinePoint

	// PublicValue is the x-coordinate of secret·Base.
	PublicValue frontend.Variable
}

// NewKeyExchange builds the key-exchange sub-circuit on api.
//
// secretBits is this party's secret scalar, little-endian, of length
// [CurveParams.NbBits] exactly; any other length is rejected before a single
// constraint is emitted. The bits must be boolean and clamped — most
// significant bit 1, three least significant bits 0 (see [Clamp]) — which is
// not re-checked here unless [WithBinaryScalarCheck] is set, and even then
// only booleanness is enforced.
//
// baseX may be a constant (the usual agreed-upon base point, costing no
// constraints for the y derivation) or a variable.
func NewKeyExchange(api frontend.API, baseX frontend.Variable, secretBits []frontend.Variable, opts ...Option) (*KeyExchange, error) {
	cfg := keyExchangeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	curve := New(api)
	if len(secretBits) != curve.params.NbBits {
		return nil, fmt.Errorf("secret bit sequence must be %d bits, got %d", curve.params.NbBits, len(secretBits))
	}
	if cfg.binaryScalarCheck {
		for _, b := range secretBits {
			api.AssertIsBoolean(b)
		}
	}
	kx := &KeyExchange{
		curve: curve,
		bits:  secretBits,
	}
	out, err := kx.scalarMulX(baseX)
	if err != nil {
		return nil, err
	}
	kx.PublicValue = out
	return kx, nil
}

// SharedSecret computes the x-coordinate of secret·H, where hX is the
// abscissa of the counterparty's public value H. The result is the material
// both parties derive the session key from.
//
// The y-coordinate of H is derived in-circuit, so either point above hX
// yields the same abscissa for the shared secret. H is not validated unless
// [KeyExchange.ValidateInputs] is called.
func (kx *KeyExchange) SharedSecret(hX frontend.Variable) (frontend.Variable, error) {
	return kx.scalarMulX(hX)
}

// scalarMulX derives the full point above x, runs the ladder over the secret
// bits and returns the abscissa of the product.
func (kx *KeyExchange) scalarMulX(x frontend.Variable) (frontend.Variable, error) {
	y, err := kx.curve.deriveY(x)
	if err != nil {
		return nil, err
	}
	p := AffinePoint{X: x, Y: y}
	kx.inputs = append(kx.inputs, p)
	table := kx.curve.precomputeTable(p, len(kx.bits))
	return kx.curve.scalarMul(kx.bits, table).X, nil
}

// ValidateInputs asserts that the base point and every counterparty point
// seen so far lie on the curve and have order dividing order. It is not
// called by default: such inputs are typically public and can be checked
// outside the circuit.
func (kx *KeyExchange) ValidateInputs(order *big.Int) {
	for _, p := range kx.inputs {
		kx.curve.AssertIsOnCurve(p)
		kx.curve.AssertPointOrder(p, order)
	}
}
