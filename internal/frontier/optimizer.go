// Package frontier evaluates closed-form mean-variance portfolios.
package frontier

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch indicates inputs with inconsistent asset counts.
	ErrDimensionMismatch = errors.New("mean vector and covariance matrix dimensions differ")

	// ErrSingularCovariance indicates a covariance matrix that cannot be
	// factorized, e.g. from perfectly collinear assets or too few rows.
	ErrSingularCovariance = errors.New("covariance matrix is singular")

	// ErrDegenerateFrontier indicates that all assets share the same
	// expected return, so no efficient portfolio beyond the minimum
	// variance one exists.
	ErrDegenerateFrontier = errors.New("expected returns are degenerate")
)

// Portfolio is a fully-invested asset allocation with its moments.
type Portfolio struct {
	Symbols    []string
	Weights    []float64
	Return     float64
	Volatility float64
}

// Optimizer solves the unconstrained mean-variance problem analytically.
// Weights always sum to one; short positions are allowed.
type Optimizer struct {
	symbols []string
	mu      *mat.VecDense
	cov     mat.Symmetric

	sigmaInvOnes *mat.VecDense // Σ⁻¹ι
	sigmaInvMu   *mat.VecDense // Σ⁻¹μ
	c            float64       // ι'Σ⁻¹ι
	d            float64       // ι'Σ⁻¹μ
	e            float64       // μ'Σ⁻¹μ
}

// New prepares an optimizer for the given assets. The covariance matrix
// must be positive definite.
func New(symbols []string, mean []float64, cov mat.Symmetric) (*Optimizer, error) {
	n := len(symbols)
	if n == 0 || len(mean) != n || cov.SymmetricDim() != n {
		return nil, ErrDimensionMismatch
	}

	var chol mat.Cholesky
	if !chol.Factorize(cov) {
		return nil, ErrSingularCovariance
	}

	ones := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		ones.SetVec(i, 1)
	}
	mu := mat.NewVecDense(n, mean)

	sigmaInvOnes := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(sigmaInvOnes, ones); err != nil {
		return nil, ErrSingularCovariance
	}
	sigmaInvMu := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(sigmaInvMu, mu); err != nil {
		return nil, ErrSingularCovariance
	}

	return &Optimizer{
		symbols:      symbols,
		mu:           mu,
		cov:          cov,
		sigmaInvOnes: sigmaInvOnes,
		sigmaInvMu:   sigmaInvMu,
		c:            mat.Dot(ones, sigmaInvOnes),
		d:            mat.Dot(ones, sigmaInvMu),
		e:            mat.Dot(mu, sigmaInvMu),
	}, nil
}

// MinimumVariance computes the global minimum variance portfolio
// ω = Σ⁻¹ι / (ι'Σ⁻¹ι).
func (o *Optimizer) MinimumVariance() *Portfolio {
	n := o.mu.Len()
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		weights[i] = o.sigmaInvOnes.AtVec(i) / o.c
	}
	return o.portfolio(weights)
}

// Efficient computes the minimum variance portfolio among those with
// expected return targetReturn.
func (o *Optimizer) Efficient(targetReturn float64) (*Portfolio, error) {
	denom := o.e - o.d*o.d/o.c
	if math.Abs(denom) <= 1e-12*math.Max(1, math.Abs(o.e)) {
		return nil, ErrDegenerateFrontier
	}

	lambda := 2 * (targetReturn - o.d/o.c) / denom

	n := o.mu.Len()
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		mvp := o.sigmaInvOnes.AtVec(i) / o.c
		tilt := o.sigmaInvMu.AtVec(i) - (o.d/o.c)*o.sigmaInvOnes.AtVec(i)
		weights[i] = mvp + lambda/2*tilt
	}
	return o.portfolio(weights), nil
}

// Trace sweeps the frontier as two-fund combinations of the minimum
// variance portfolio and the efficient portfolio earning targetMultiple
// times its return. The mixing coefficient runs from -0.4 to 1.9 so the
// inefficient lower branch is visible too.
func (o *Optimizer) Trace(points int, targetMultiple float64) ([]*Portfolio, error) {
	if points < 2 {
		points = 2
	}

	mvp := o.MinimumVariance()
	efficient, err := o.Efficient(targetMultiple * mvp.Return)
	if err != nil {
		return nil, err
	}

	const lo, hi = -0.4, 1.9

	n := o.mu.Len()
	result := make([]*Portfolio, 0, points)
	for k := 0; k < points; k++ {
		a := lo + (hi-lo)*float64(k)/float64(points-1)
		weights := make([]float64, n)
		for i := 0; i < n; i++ {
			weights[i] = (1-a)*mvp.Weights[i] + a*efficient.Weights[i]
		}
		result = append(result, o.portfolio(weights))
	}
	return result, nil
}

// portfolio evaluates the moments of the given weight vector.
func (o *Optimizer) portfolio(weights []float64) *Portfolio {
	w := mat.NewVecDense(len(weights), weights)

	ret := mat.Dot(w, o.mu)

	variance, err := o.Variance(weights)
	if err != nil {
		variance = math.NaN()
	}

	return &Portfolio{
		Symbols:    o.symbols,
		Weights:    weights,
		Return:     ret,
		Volatility: math.Sqrt(variance),
	}
}

// Variance evaluates ω'Σω for an arbitrary weight vector.
func (o *Optimizer) Variance(weights []float64) (float64, error) {
	n := o.mu.Len()
	if len(weights) != n {
		return 0, ErrDimensionMismatch
	}

	w := mat.NewVecDense(n, weights)
	return mat.Inner(w, o.cov, w), nil
}
