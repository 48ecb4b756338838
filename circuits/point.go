package circuits

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// AffinePoint represents a point on the key-exchange curve
//
//	y² = x³ + a·x² + x
//
// over the native field of the host constraint system. We do not check that
// the point is actually on the curve, see [Curve.AssertIsOnCurve].
//
// The point at infinity is never represented: all formulas in this package
// are incomplete and assume non-equal, non-inverse operands.
type AffinePoint struct {
	X, Y frontend.Variable
}

// New returns a new [Curve] wrapping the circuit-building context api. All
// wire allocations and constraints go through it; no builder state is shared
// across instances.
func New(api frontend.API) *Curve {
	return &Curve{
		api:    api,
		params: GetCurveParams(),
	}
}

// Curve allows performing group operations on the key-exchange curve inside
// a circuit. Affine formulas are used throughout: in the QAP cost model they
// save one multiplication gate per scalar bit over the projective ones
// (multiplications by constants are free).
type Curve struct {
	api    frontend.API
	params CurveParams
}

// Params returns the parameters of the curve.
func (c *Curve) Params() CurveParams {
	return c.params
}

// Neg returns -p. It doesn't modify p.
func (c *Curve) Neg(p AffinePoint) AffinePoint {
	return AffinePoint{X: p.X, Y: c.api.Neg(p.Y)}
}

// AssertIsEqual asserts that p and q are the same point.
func (c *Curve) AssertIsEqual(p, q AffinePoint) {
	c.api.AssertIsEqual(p.X, q.X)
	c.api.AssertIsEqual(p.Y, q.Y)
}

// AssertIsOnCurve asserts that p satisfies y² = x³ + a·x² + x.
func (c *Curve) AssertIsOnCurve(p AffinePoint) {
	yy := c.api.Mul(p.Y, p.Y)
	xx := c.api.Mul(p.X, p.X)
	xxx := c.api.Mul(xx, p.X)
	c.api.AssertIsEqual(yy, c.api.Add(xxx, c.api.Mul(c.params.A, xx), p.X))
}

// add adds p and q and returns it. It doesn't modify p nor q.
//
// ⚠️  p must be different than q and -q.
//
// The solver faults at evaluation time when p.X = q.X (zero denominator in
// the slope); the clamped-scalar non-collision argument of the ladder is the
// only guarantee against it, nothing is checked here.
func (c *Curve) add(p, q AffinePoint) AffinePoint {
	// λ = (p.y - q.y) / (p.x - q.x)
	λ := c.api.DivUnchecked(c.api.Sub(p.Y, q.Y), c.api.Sub(p.X, q.X))
	return c.fromSlope(λ, p, q)
}

// sub subtracts q from p and returns it. Same shape as add with the slope
// through -q, so the negated point is never materialized.
//
// ⚠️  p must be different than q and -q.
func (c *Curve) sub(p, q AffinePoint) AffinePoint {
	// λ = (p.y + q.y) / (p.x - q.x)
	λ := c.api.DivUnchecked(c.api.Add(p.Y, q.Y), c.api.Sub(p.X, q.X))
	return c.fromSlope(λ, p, q)
}

// fromSlope completes a chord step with slope λ through p and q.x:
//
//	x' = λ² - a - p.x - q.x
//	y' = (2p.x + q.x + a) · λ - λ³ - p.y
//
// Reusing λ² and folding the sign of y' into the first product costs one
// multiplication gate less than the textbook formulation.
func (c *Curve) fromSlope(λ frontend.Variable, p, q AffinePoint) AffinePoint {
	λλ := c.api.Mul(λ, λ)
	λλλ := c.api.Mul(λλ, λ)
	x := c.api.Sub(λλ, c.params.A, p.X, q.X)
	y := c.api.Sub(c.api.Mul(c.api.Add(c.api.Mul(2, p.X), q.X, c.params.A), λ), λλλ, p.Y)
	return AffinePoint{X: x, Y: y}
}

// double doubles p and returns it. It doesn't modify p.
//
// ⚠️  p.Y must be nonzero: doubling a 2-torsion point faults at evaluation
// time. The chosen group order keeps 2-torsion out of reach of the ladder.
func (c *Curve) double(p AffinePoint) AffinePoint {
	// λ = (3x² + 2a·x + 1) / 2y
	num := c.api.Add(c.api.Mul(3, c.api.Mul(p.X, p.X)), c.api.Mul(2*coeffA, p.X), 1)
	λ := c.api.DivUnchecked(num, c.api.Mul(2, p.Y))
	λλ := c.api.Mul(λ, λ)
	x := c.api.Sub(λλ, c.params.A, c.api.Mul(2, p.X))
	// y' = (3x + a - λ²)·λ - y
	y := c.api.Sub(c.api.Mul(c.api.Sub(c.api.Add(c.api.Mul(3, p.X), c.params.A), λλ), λ), p.Y)
	return AffinePoint{X: x, Y: y}
}

// blend returns p when b = 0 and q when b = 1, coordinate-wise as
// p + b·(q - p). This is the only way to express a data-dependent choice in
// the constraint system: the emitted constraints are the same whatever b
// evaluates to.
//
// ⚠️  valid only for boolean b; a non-boolean b yields a point that is not
// p, not q and most likely not on the curve, with no fault raised.
func (c *Curve) blend(b frontend.Variable, p, q AffinePoint) AffinePoint {
	return AffinePoint{
		X: c.api.Add(p.X, c.api.Mul(b, c.api.Sub(q.X, p.X))),
		Y: c.api.Add(p.Y, c.api.Mul(b, c.api.Sub(q.Y, p.Y))),
	}
}

// deriveY returns a y-coordinate matching x on the curve.
//
// When x is a constant the square root is taken at build time and no
// constraint is emitted; a constant x that is on no curve point is rejected
// with an error. When x is a variable, y is a free prover witness computed by
// [yCoordinateHint] at evaluation time and bound to x by the curve equation
// (one equality constraint); a non-residue then aborts the evaluation run.
func (c *Curve) deriveY(x frontend.Variable) (frontend.Variable, error) {
	if xc, ok := c.api.Compiler().ConstantValue(x); ok {
		y, ok := computeYCoordinate(xc)
		if !ok {
			return nil, fmt.Errorf("x-coordinate %s is not on the curve", xc.String())
		}
		return y, nil
	}
	res, err := c.api.Compiler().NewHint(yCoordinateHint, 1, x)
	if err != nil {
		return nil, fmt.Errorf("y-coordinate hint: %w", err)
	}
	c.AssertIsOnCurve(AffinePoint{X: x, Y: res[0]})
	return res[0], nil
}

// precomputeTable returns the n+1 repeated doublings of p:
// table[0] = p, table[j] = 2ʲ·p.
func (c *Curve) precomputeTable(p AffinePoint, n int) []AffinePoint {
	table := make([]AffinePoint, n+1)
	table[0] = p
	for j := 1; j <= n; j++ {
		table[j] = c.double(table[j-1])
	}
	return table
}

// scalarMul returns k·p for the secret k given by its little-endian bit
// sequence, using the precomputed doubling table of p.
//
// The accumulator starts at 2ⁿ·p so that every bit position, including the
// most significant, runs the same add-and-blend step; the bias is removed by
// one final subtraction. The constraint sequence is therefore exactly n
// additions + n blends + 1 subtraction whatever the bits evaluate to.
//
// ⚠️  bits must be boolean and clamped (top bit 1, three low bits 0): that
// range, together with the group order, is what keeps the accumulator and
// table[j] from ever colliding. A violation faults the evaluation run on a
// zero denominator at best, and at worst silently yields a wrong result.
func (c *Curve) scalarMul(bits []frontend.Variable, table []AffinePoint) AffinePoint {
	n := len(bits)
	acc := table[n]
	for j := n - 1; j >= 0; j-- {
		tmp := c.add(acc, table[j])
		acc = c.blend(bits[j], acc, tmp)
	}
	return c.sub(acc, table[n])
}

// AssertPointOrder asserts that p has order dividing order, by checking
// (order-1)·p = -p with a public square-and-multiply over the constant bits
// of order-1. order must be at least 2.
func (c *Curve) AssertPointOrder(p AffinePoint, order *big.Int) {
	m := new(big.Int).Sub(order, big.NewInt(1))
	acc := p
	for i := m.BitLen() - 2; i >= 0; i-- {
		acc = c.double(acc)
		if m.Bit(i) == 1 {
			acc = c.add(acc, p)
		}
	}
	c.AssertIsEqual(acc, c.Neg(p))
}
