package ranker

import (
	"math"
	"math/rand"
)

// dense is a row-major weight matrix.
type dense struct {
	rows, cols int
	w          []float64
}

// newDense fills a matrix with He-style gaussian init from the shared rng.
// All weights in the pipeline come from one seeded source, so the whole
// network is a pure function of the seed.
func newDense(rows, cols int, scale float64, rng *rand.Rand) dense {
	d := dense{rows: rows, cols: cols, w: make([]float64, rows*cols)}
	for i := range d.w {
		d.w[i] = rng.NormFloat64() * scale
	}
	return d
}

// mulVec computes d @ x.
func (d dense) mulVec(x []float64) []float64 {
	out := make([]float64, d.rows)
	for r := 0; r < d.rows; r++ {
		row := d.w[r*d.cols : (r+1)*d.cols]
		var sum float64
		for c, v := range x {
			sum += row[c] * v
		}
		out[r] = sum
	}
	return out
}

// softmax is numerically stable: shifts by the max before exponentiating.
func softmax(x []float64) []float64 {
	maxv := math.Inf(-1)
	for _, v := range x {
		if v > maxv {
			maxv = v
		}
	}
	out := make([]float64, len(x))
	var sum float64
	for i, v := range x {
		out[i] = math.Exp(v - maxv)
		sum += out[i]
	}
	sum += 1e-9
	for i := range out {
		out[i] /= sum
	}
	return out
}

// sigmoid clips the input to +-15 to keep Exp well-behaved.
func sigmoid(x float64) float64 {
	if x > 15 {
		x = 15
	} else if x < -15 {
		x = -15
	}
	return 1.0 / (1.0 + math.Exp(-x))
}

var geluCoef = math.Sqrt(2.0 / math.Pi)

// gelu is the tanh approximation of the Gaussian Error Linear Unit.
func gelu(x float64) float64 {
	return 0.5 * x * (1.0 + math.Tanh(geluCoef*(x+0.044715*x*x*x)))
}

func geluVec(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = gelu(v)
	}
	return out
}

func layerNorm(x []float64) []float64 {
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	var variance float64
	for _, v := range x {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(x))

	inv := 1.0 / math.Sqrt(variance+1e-5)
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - mean) * inv
	}
	return out
}

func norm(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func addVec(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func concat(parts ...[]float64) []float64 {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
