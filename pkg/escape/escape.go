// Package escape computes the escape score used to color a Mandelbrot set
// visualization.
//
// The orbit of a point c = x + yi is generated by z = z*z + c starting at
// z = c. Iteration stops once the product of the real and imaginary parts of
// the updated iterate exceeds Bailout. This is not the textbook magnitude
// test and is kept as is so scores match the existing visualization.
//
// All functions in this package are pure and safe for concurrent use.
package escape

const (
	// MaxIterations is the fixed iteration bound of the orbit.
	MaxIterations = 1000

	// Bailout is the threshold for real*imaginary of the updated iterate.
	Bailout = 5.0

	scoreScale = 100.0
)

// Result describes the orbit of a single point.
type Result struct {
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
	Score      float64 `json:"score" yaml:"score"`
	Iterations int     `json:"iterations" yaml:"iterations"`
	Escaped    bool    `json:"escaped" yaml:"escaped"`
}

// Score returns the normalized escape score of the point (x, y).
// The result is 0 when the orbit never satisfies the bailout condition,
// and i/1000*100 when it does at 0-based iteration i.
func Score(x, y float64) float64 {
	return Iterate(x, y).Score
}

// Iterate runs the orbit of (x, y) and reports where it stopped.
// Iterations is the index at which the bailout fired or MaxIterations when
// the bound was exhausted. Escaped tells apart a score of 0 produced by an
// escape at index 0 from one produced by a bounded orbit.
func Iterate(x, y float64) Result {
	re, im := x, y

	for i := 0; i < MaxIterations; i++ {
		// both parts derive from the previous iterate; the explicit
		// conversions keep the compiler from fusing into FMA instructions
		re, im = float64(re*re)-float64(im*im)+x, float64(2*re*im)+y

		if re*im > Bailout {
			return Result{
				X:          x,
				Y:          y,
				Score:      float64(i) / MaxIterations * scoreScale,
				Iterations: i,
				Escaped:    true,
			}
		}
	}

	return Result{
		X:          x,
		Y:          y,
		Iterations: MaxIterations,
	}
}
