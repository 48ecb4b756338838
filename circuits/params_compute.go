package circuits

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// coeffA is the curve coefficient a in y² = x³ + a·x² + x.
const coeffA = 126932

var refA = fr.NewElement(coeffA)

// refPoint is an affine point with concrete coordinates, used out-of-circuit:
// by the y-coordinate hint, by the constant branch of the gadget and as the
// reference implementation in tests. The point at infinity is not represented.
type refPoint struct {
	x, y fr.Element
}

// curveRHS returns x³ + a·x² + x.
func curveRHS(x *fr.Element) fr.Element {
	var xx, rhs fr.Element
	xx.Square(x)
	rhs.Mul(&xx, x)
	xx.Mul(&xx, &refA)
	rhs.Add(&rhs, &xx)
	rhs.Add(&rhs, x)
	return rhs
}

// computeYCoordinate returns a y such that (x, y) is on the curve. The second
// return value is false when x³ + a·x² + x is not a quadratic residue, i.e.
// when x is not the abscissa of any curve point.
func computeYCoordinate(x *big.Int) (*big.Int, bool) {
	var xe fr.Element
	xe.SetBigInt(x)
	rhs := curveRHS(&xe)
	var y fr.Element
	if y.Sqrt(&rhs) == nil {
		return nil, false
	}
	return y.BigInt(new(big.Int)), true
}

// refFromSlope completes a chord-and-tangent step with slope λ through
// (x1, y1) and x2:
//
//	x' = λ² - a - x1 - x2
//	y' = (2x1 + x2 + a) · λ - λ³ - y1
func refFromSlope(λ, x1, x2, y1 *fr.Element) refPoint {
	var l2, rx, ry, u fr.Element
	l2.Square(λ)
	rx.Sub(&l2, &refA)
	rx.Sub(&rx, x1)
	rx.Sub(&rx, x2)

	u.Double(x1)
	u.Add(&u, x2)
	u.Add(&u, &refA)
	u.Mul(&u, λ)
	ry.Mul(&l2, λ)
	ry.Sub(&u, &ry)
	ry.Sub(&ry, y1)
	return refPoint{x: rx, y: ry}
}

// refDouble doubles p. p.y must be nonzero.
func refDouble(p refPoint) refPoint {
	// λ = (3x² + 2a·x + 1) / 2y
	one := fr.One()
	three := fr.NewElement(3)
	var num, t, den, λ fr.Element
	num.Square(&p.x)
	num.Mul(&num, &three)
	t.Mul(&p.x, &refA)
	t.Double(&t)
	num.Add(&num, &t)
	num.Add(&num, &one)
	den.Double(&p.y)
	λ.Div(&num, &den)
	return refFromSlope(&λ, &p.x, &p.x, &p.y)
}

// refAdd adds p and q. p and q must be distinct and not inverses of each
// other.
func refAdd(p, q refPoint) refPoint {
	// λ = (y1 - y2) / (x1 - x2)
	var num, den, λ fr.Element
	num.Sub(&p.y, &q.y)
	den.Sub(&p.x, &q.x)
	λ.Div(&num, &den)
	return refFromSlope(&λ, &p.x, &q.x, &p.y)
}

// refNeg returns -p.
func refNeg(p refPoint) refPoint {
	var y fr.Element
	y.Neg(&p.y)
	return refPoint{x: p.x, y: y}
}

// refScalarMul returns k·p by plain left-to-right double-and-add. It is the
// independent reference for the in-circuit ladder. k must be nonzero and of
// order-independent shape: no intermediate multiple may coincide with ±p.
func refScalarMul(k *big.Int, p refPoint) refPoint {
	acc := p
	for i := k.BitLen() - 2; i >= 0; i-- {
		acc = refDouble(acc)
		if k.Bit(i) == 1 {
			acc = refAdd(acc, p)
		}
	}
	return acc
}

// refIsOnCurve reports whether p satisfies the curve equation.
func refIsOnCurve(p refPoint) bool {
	var yy fr.Element
	yy.Square(&p.y)
	rhs := curveRHS(&p.x)
	return yy.Equal(&rhs)
}

// refBasePoint returns the base point of the key-exchange curve.
func refBasePoint() refPoint {
	var p refPoint
	p.x.SetBigInt(dhParams.Gx)
	p.y.SetBigInt(dhParams.Gy)
	return p
}
