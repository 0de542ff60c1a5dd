package ml

import (
	"gridiron/pkg/errors"
)

// LinearParams are the fitted coefficients of a linear family model.
// Ridge, lasso and plain OLS are indistinguishable at serving time.
type LinearParams struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// LinearModel predicts intercept + coef · x, after optional standardization
type LinearModel struct {
	coef      []float64
	intercept float64
	scaler    *Scaler
}

// NewLinearModel validates params and builds the model
func NewLinearModel(params *LinearParams, scaler *Scaler) (*LinearModel, error) {
	if len(params.Coef) == 0 {
		return nil, errors.New("linear model has no coefficients")
	}
	if scaler != nil && len(scaler.Mean) != len(params.Coef) {
		return nil, errors.Newf("scaler width %d does not match coefficient width %d",
			len(scaler.Mean), len(params.Coef))
	}
	return &LinearModel{
		coef:      params.Coef,
		intercept: params.Intercept,
		scaler:    scaler,
	}, nil
}

// Predict implements Artifact
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.coef) {
		return 0, errors.Newf("linear model expects %d features, got %d", len(m.coef), len(features))
	}

	x := features
	if m.scaler != nil {
		var err error
		if x, err = m.scaler.Transform(features); err != nil {
			return 0, err
		}
	}

	pred := m.intercept
	for i, c := range m.coef {
		pred += c * x[i]
	}
	return pred, nil
}
