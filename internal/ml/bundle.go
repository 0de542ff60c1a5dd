package ml

import (
	"encoding/json"
	"os"

	"gridiron/pkg/errors"
)

// Model bundle kinds. The bundle file is a tagged union: the training job
// writes one JSON document per artifact with Kind selecting the family.
const (
	KindLinear       = "linear"
	KindTreeEnsemble = "tree_ensemble"
)

// Bundle is the on-disk JSON artifact written by the training job for
// native model families. ONNX artifacts are separate .onnx files handled by
// LoadONNX.
type Bundle struct {
	Kind        string   `json:"kind"`
	ModelName   string   `json:"model_name"`
	MarketCode  string   `json:"market_code"`
	Lookback    int      `json:"lookback"`
	FeatureCols []string `json:"feature_cols"`

	Scaler *Scaler       `json:"scaler,omitempty"`
	Linear *LinearParams `json:"linear,omitempty"`
	Trees  *TreeParams   `json:"trees,omitempty"`
}

// Scaler standardizes inputs the way the training pipeline did
// (x - mean) / scale, applied before the model proper.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform returns the standardized copy of features
func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) || len(features) != len(s.Scale) {
		return nil, errors.Newf("scaler expects %d features, got %d", len(s.Mean), len(features))
	}
	out := make([]float64, len(features))
	for i, v := range features {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// OpenBundle reads and decodes a native model bundle, returning the concrete
// artifact for its kind
func OpenBundle(path string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrArtifactMissing, "artifact at %s", path)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrapf(err, "failed to decode model bundle %s", path)
	}

	switch b.Kind {
	case KindLinear:
		if b.Linear == nil {
			return nil, errors.Newf("bundle %s: kind %q without linear params", path, b.Kind)
		}
		return NewLinearModel(b.Linear, b.Scaler)
	case KindTreeEnsemble:
		if b.Trees == nil {
			return nil, errors.Newf("bundle %s: kind %q without tree params", path, b.Kind)
		}
		return NewTreeEnsemble(b.Trees, b.Scaler)
	default:
		return nil, errors.Newf("bundle %s: unsupported model kind %q", path, b.Kind)
	}
}
