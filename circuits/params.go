package circuits

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// CurveParams defines the parameters of the QAP-friendly curve
//
//	y² = x³ + a·x² + x
//
// over the BN254 scalar field. The curve follows the Curve25519 design
// guidelines with the cost model of QAP-based SNARKs in mind (see section 6 of
// https://eprint.iacr.org/2015/1093.pdf): affine coordinates and the constant
// a = 126932 minimize the number of multiplication gates per scalar bit.
//
// The base point is defined by (Gx, Gy). NbBits is the length of the secret
// bit sequence, i.e. the bit length of the field modulus.
type CurveParams struct {
	A      *big.Int // a in curve equation
	Gx     *big.Int // base point x
	Gy     *big.Int // base point y
	NbBits int      // secret scalar bit length
}

// GetCurveParams returns the parameters of the key-exchange curve. It caches
// the parameters and modifying the values in the returned struct leads to
// undefined behaviour.
func GetCurveParams() CurveParams {
	return dhParams
}

var dhParams CurveParams

func init() {
	gx := big.NewInt(3)
	gy, ok := computeYCoordinate(gx)
	if !ok {
		panic("base point x is not on the curve")
	}
	dhParams = CurveParams{
		A:      big.NewInt(coeffA),
		Gx:     gx,
		Gy:     gy,
		NbBits: fr.Modulus().BitLen(),
	}
}

// Clamp reduces k to NbBits bits, sets the most significant bit and clears the
// three least significant ones. The returned scalar has the shape the scalar
// multiplication gadget expects from its secret bit sequence. It doesn't
// modify k.
func Clamp(k *big.Int) *big.Int {
	n := dhParams.NbBits
	c := new(big.Int).Set(k)
	for i := c.BitLen() - 1; i >= n; i-- {
		c.SetBit(c, i, 0)
	}
	c.SetBit(c, n-1, 1)
	c.SetBit(c, 0, 0)
	c.SetBit(c, 1, 0)
	c.SetBit(c, 2, 0)
	return c
}

// ScalarBits decomposes k into the little-endian bit sequence of length
// NbBits consumed by the gadget. Callers are responsible for clamping k
// beforehand, e.g. with [Clamp].
func ScalarBits(k *big.Int) []*big.Int {
	bits := make([]*big.Int, dhParams.NbBits)
	for i := range bits {
		bits[i] = big.NewInt(int64(k.Bit(i)))
	}
	return bits
}
