package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearModel_Predict(t *testing.T) {
	model, err := NewLinearModel(&LinearParams{
		Coef:      []float64{0.8, -0.1, 0.3, 5.0},
		Intercept: 10.0,
	}, nil)
	require.NoError(t, err)

	pred, err := model.Predict([]float64{62.4, 11.2, 65.0, 0.08})
	require.NoError(t, err)
	assert.InDelta(t, 10.0+0.8*62.4-0.1*11.2+0.3*65.0+5.0*0.08, pred, 1e-9)
}

func TestLinearModel_PredictWithScaler(t *testing.T) {
	model, err := NewLinearModel(
		&LinearParams{Coef: []float64{2.0, 1.0}, Intercept: 1.0},
		&Scaler{Mean: []float64{10.0, 4.0}, Scale: []float64{2.0, 2.0}},
	)
	require.NoError(t, err)

	// (12-10)/2 = 1, (6-4)/2 = 1 -> 1 + 2*1 + 1*1 = 4
	pred, err := model.Predict([]float64{12.0, 6.0})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, pred, 1e-9)
}

func TestLinearModel_Deterministic(t *testing.T) {
	model, err := NewLinearModel(&LinearParams{
		Coef:      []float64{0.93, -0.21, 0.12, 3.4},
		Intercept: 2.75,
	}, nil)
	require.NoError(t, err)

	vector := []float64{62.4, 11.2, 65.0, 0.08}

	first, err := model.Predict(vector)
	require.NoError(t, err)
	second, err := model.Predict(vector)
	require.NoError(t, err)

	// Same inputs, same artifact: bit-for-bit identical output
	assert.Equal(t, first, second)
}

func TestLinearModel_ShapeMismatch(t *testing.T) {
	model, err := NewLinearModel(&LinearParams{
		Coef:      []float64{1.0, 2.0, 3.0, 4.0},
		Intercept: 0,
	}, nil)
	require.NoError(t, err)

	_, err = model.Predict([]float64{1.0, 2.0})
	assert.Error(t, err)
}

func TestNewLinearModel_ScalerWidthMismatch(t *testing.T) {
	_, err := NewLinearModel(
		&LinearParams{Coef: []float64{1.0, 2.0}},
		&Scaler{Mean: []float64{0}, Scale: []float64{1}},
	)
	assert.Error(t, err)
}
