package linearmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLassoOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *LassoOptions
		err      error
		expected *LassoOptions
	}{
		"nil": {expected: NewDefaultLassoOptions()},
		"valid": {
			opt:      &LassoOptions{Lambda: 1.0, Iterations: 100, Tolerance: 1e-5},
			expected: &LassoOptions{Lambda: 1.0, Iterations: 100, Tolerance: 1e-5},
		},
		"invalid lambda": {
			opt: &LassoOptions{Lambda: -1.0},
			err: ErrNegativeLambda,
		},
		"invalid iterations": {
			opt: &LassoOptions{Iterations: -1},
			err: ErrNegativeIterations,
		},
		"invalid tolerance": {
			opt: &LassoOptions{Tolerance: -1.0},
			err: ErrNegativeTolerance,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func exactLassoOptions(intercept bool) *LassoOptions {
	return &LassoOptions{
		Lambda:       0,
		Iterations:   100000,
		Tolerance:    1e-10,
		FitIntercept: intercept,
	}
}

func TestLassoRegression(t *testing.T) {
	// y = 2 + 3*x0 + 4*x1
	testData := map[string]struct {
		x         *mat.Dense
		y         *mat.Dense
		opt       *LassoOptions
		intercept float64
		coef      []float64
	}{
		"intercept": {
			x: mat.NewDense(5, 2, []float64{
				0, 0,
				3, 5,
				9, 20,
				12, 6,
				15, 10,
			}),
			y:         mat.NewDense(5, 1, []float64{2, 31, 109, 62, 87}),
			opt:       exactLassoOptions(true),
			intercept: 2.0,
			coef:      []float64{3.0, 4.0},
		},
		"explicit ones column": {
			x: mat.NewDense(5, 3, []float64{
				1, 0, 0,
				1, 3, 5,
				1, 9, 20,
				1, 12, 6,
				1, 15, 10,
			}),
			y:    mat.NewDense(5, 1, []float64{2, 31, 109, 62, 87}),
			opt:  exactLassoOptions(false),
			coef: []float64{2.0, 3.0, 4.0},
		},
		"constant target": {
			x: mat.NewDense(5, 1, []float64{
				1, 2, 3, 4, 5,
			}),
			y:         mat.NewDense(5, 1, []float64{3, 3, 3, 3, 3}),
			opt:       exactLassoOptions(true),
			intercept: 3.0,
			coef:      []float64{0.0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			model, err := NewLassoRegression(td.opt)
			require.NoError(t, err)
			testModel(t, model, td.x, td.y, td.intercept, td.coef, 1e-4)
			assert.Greater(t, model.Iterations(), 0)
		})
	}
}

func TestLassoRegressionShrinks(t *testing.T) {
	// y = 1 + 2*x0 with an irrelevant x1
	x := mat.NewDense(6, 2, []float64{
		0, 1,
		1, -1,
		2, 1,
		3, -1,
		4, 1,
		5, -1,
	})
	y := mat.NewDense(6, 1, []float64{1, 3, 5, 7, 9, 11})

	opt := NewDefaultLassoOptions()
	opt.Lambda = 2.0
	model, err := NewLassoRegression(opt)
	require.NoError(t, err)
	require.NoError(t, model.Fit(x, y))

	coef := model.Coef()
	assert.Equal(t, 0.0, coef[1], "irrelevant feature is zeroed")
	assert.Less(t, coef[0], 2.0, "relevant feature is shrunk")
	assert.Greater(t, coef[0], 1.0)
}

func TestLassoRegressionErrors(t *testing.T) {
	model, err := NewLassoRegression(nil)
	require.NoError(t, err)

	x := mat.NewDense(2, 1, []float64{1, 2})
	assert.ErrorIs(t, model.Fit(nil, x), ErrNoTrainingMatrix)
	assert.ErrorIs(t, model.Fit(x, nil), ErrNoTargetMatrix)
	assert.ErrorIs(t, model.Fit(x, mat.NewDense(3, 1, nil)), ErrTargetLenMismatch)

	require.NoError(t, model.Fit(x, mat.NewDense(2, 1, []float64{1, 2})))
	_, err = model.Predict(nil)
	assert.ErrorIs(t, err, ErrNoDesignMatrix)
	_, err = model.Predict(mat.NewDense(1, 2, nil))
	assert.ErrorIs(t, err, ErrFeatureLenMismatch)
}

func TestNew(t *testing.T) {
	model, err := New(0)
	require.NoError(t, err)
	assert.IsType(t, &OLSRegression{}, model)

	model, err = New(0.5)
	require.NoError(t, err)
	assert.IsType(t, &LassoRegression{}, model)

	_, err = New(-1)
	assert.ErrorIs(t, err, ErrNegativeLambda)
}
