package linearmodel

import (
	"gonum.org/v1/gonum/mat"
)

// Model is a linear regression over an m x n design matrix and an m x 1 target
type Model interface {
	Fit(x, y mat.Matrix) error
	Predict(x mat.Matrix) ([]float64, error)
	Score(x, y mat.Matrix) (float64, error)
	Intercept() float64
	Coef() []float64
}

var (
	_ Model = (*OLSRegression)(nil)
	_ Model = (*LassoRegression)(nil)
)

// New returns ordinary least squares when lambda is zero and a lasso regression otherwise. Both
// fit an intercept.
func New(lambda float64) (Model, error) {
	if lambda == 0 {
		return NewOLSRegression(NewDefaultOLSOptions())
	}
	opt := NewDefaultLassoOptions()
	opt.Lambda = lambda
	return NewLassoRegression(opt)
}
