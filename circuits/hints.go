package circuits

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/constraint/solver"
)

// GetHints returns all the hint functions used in this package.
func GetHints() []solver.Hint {
	return []solver.Hint{
		yCoordinateHint,
	}
}

func init() {
	solver.RegisterHint(GetHints()...)
}

// yCoordinateHint computes, at evaluation time, a y-coordinate matching the
// x-coordinate inputs[0] on y² = x³ + a·x² + x. The returned value is a free
// witness: the caller must constrain it with the curve equation. Solving
// fails when x³ + a·x² + x is not a quadratic residue.
func yCoordinateHint(mod *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) != 1 {
		return errors.New("expecting one input")
	}
	if len(outputs) != 1 {
		return errors.New("expecting one output")
	}
	if mod.Cmp(fr.Modulus()) != 0 {
		return errors.New("the key-exchange curve is defined over the BN254 scalar field only")
	}
	y, ok := computeYCoordinate(inputs[0])
	if !ok {
		return errors.New("x-coordinate is not on the curve")
	}
	outputs[0].Set(y)
	return nil
}
