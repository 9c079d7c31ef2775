package linearmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultLambda     = 1.0
	DefaultIterations = 1000
	DefaultTolerance  = 1e-4
)

// LassoOptions represents input options to run the Lasso Regression
type LassoOptions struct {
	// Lambda is the L1 multiplier. 0.0 converges to ordinary least squares.
	Lambda float64

	// Iterations bounds the passes over every coefficient
	Iterations int

	// Tolerance stops the descent once the largest coefficient update falls below Tolerance
	// times the largest coefficient
	Tolerance float64

	// FitIntercept adds an unpenalized constant 1.0 feature as the first column if set to true
	FitIntercept bool
}

// Validate runs basic validation on Lasso options
func (l *LassoOptions) Validate() (*LassoOptions, error) {
	if l == nil {
		l = NewDefaultLassoOptions()
	}
	if l.Lambda < 0 {
		return nil, fmt.Errorf("lambda %.3f, %w", l.Lambda, ErrNegativeLambda)
	}
	if l.Iterations < 0 {
		return nil, fmt.Errorf("%d iterations, %w", l.Iterations, ErrNegativeIterations)
	}
	if l.Tolerance < 0 {
		return nil, fmt.Errorf("tolerance %.3g, %w", l.Tolerance, ErrNegativeTolerance)
	}
	return l, nil
}

// NewDefaultLassoOptions returns a default set of Lasso Regression options
func NewDefaultLassoOptions() *LassoOptions {
	return &LassoOptions{
		Lambda:       DefaultLambda,
		Iterations:   DefaultIterations,
		Tolerance:    DefaultTolerance,
		FitIntercept: true,
	}
}

// LassoRegression computes the lasso regression using cyclic coordinate descent
type LassoRegression struct {
	opt *LassoOptions

	coef      []float64
	intercept float64
	iters     int
}

// NewLassoRegression initializes a Lasso model ready for fitting
func NewLassoRegression(opt *LassoOptions) (*LassoRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &LassoRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data. x is an m x n design matrix and y is an
// m x 1 target matrix.
func (l *LassoRegression) Fit(x, y mat.Matrix) error {
	if l.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, _ := x.Dims()
	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}
	yArr := mat.Col(nil, 0, y)
	for _, v := range yArr {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
	}

	if l.opt.FitIntercept {
		x = withOnes(x)
	}
	_, n := x.Dims()

	cols := make([][]float64, n)
	xdot := make([]float64, n)
	gamma := make([]float64, n)
	for j := 0; j < n; j++ {
		cols[j] = mat.Col(nil, j, x)
		xdot[j] = floats.Dot(cols[j], cols[j])
		if xdot[j] > 0 {
			gamma[j] = l.opt.Lambda / xdot[j]
		}
	}
	if l.opt.FitIntercept {
		gamma[0] = 0
	}

	// residual is kept in sync with every coefficient update
	beta := make([]float64, n)
	residual := make([]float64, m)
	copy(residual, yArr)

	l.iters = 0
	for i := 0; i < l.opt.Iterations; i++ {
		l.iters++
		maxCoef := 0.0
		maxUpdate := 0.0

		for j := 0; j < n; j++ {
			if xdot[j] == 0 {
				continue
			}
			betaCurr := beta[j]
			betaNext := SoftThreshold(floats.Dot(cols[j], residual)/xdot[j]+betaCurr, gamma[j])
			if delta := betaNext - betaCurr; delta != 0 {
				floats.AddScaled(residual, -delta, cols[j])
				maxUpdate = math.Max(maxUpdate, math.Abs(delta))
			}
			maxCoef = math.Max(maxCoef, math.Abs(betaNext))
			beta[j] = betaNext
		}

		if maxUpdate <= l.opt.Tolerance*maxCoef {
			break
		}
	}

	if l.opt.FitIntercept {
		l.intercept = beta[0]
		l.coef = beta[1:]
		return nil
	}
	l.intercept = 0
	l.coef = beta
	return nil
}

// Predict using the Lasso model
func (l *LassoRegression) Predict(x mat.Matrix) ([]float64, error) {
	if l.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	_, xn := x.Dims()
	if xn != len(l.coef) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn, len(l.coef), ErrFeatureLenMismatch)
	}

	var res mat.VecDense
	res.MulVec(x, mat.NewVecDense(len(l.coef), l.coef))
	out := make([]float64, res.Len())
	for i := range out {
		out[i] = res.AtVec(i) + l.intercept
	}
	return out, nil
}

// Score computes the coefficient of determination of the prediction
func (l *LassoRegression) Score(x, y mat.Matrix) (float64, error) {
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}
	res, err := l.Predict(x)
	if err != nil {
		return 0.0, err
	}
	ym, _ := y.Dims()
	if ym != len(res) {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", len(res), ym, ErrTargetLenMismatch)
	}
	score := stat.RSquaredFrom(res, mat.Col(nil, 0, y), nil)
	if math.IsNaN(score) {
		score = 1.0
	}
	return score, nil
}

// Intercept returns the computed intercept if FitIntercept is set to true. Defaults to 0.0 if not set.
func (l *LassoRegression) Intercept() float64 {
	return l.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (l *LassoRegression) Coef() []float64 {
	c := make([]float64, len(l.coef))
	copy(c, l.coef)
	return c
}

// Iterations returns the number of coordinate descent passes of the last fit
func (l *LassoRegression) Iterations() int {
	return l.iters
}

// SoftThreshold shrinks x toward zero by gamma, returning 0.0 when |x| <= gamma
func SoftThreshold(x, gamma float64) float64 {
	res := math.Max(0, math.Abs(x)-gamma)
	if math.Signbit(x) {
		return -res
	}
	return res
}
