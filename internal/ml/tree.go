package ml

import (
	"gridiron/pkg/errors"
)

// TreeParams are the flattened regression trees of a boosted ensemble.
// Each tree is stored as parallel node arrays; Left/Right of -1 marks a leaf
// and Value holds the leaf contribution.
type TreeParams struct {
	BaseScore  float64 `json:"base_score"`
	NumFeature int     `json:"num_feature"`
	Trees      []Tree  `json:"trees"`
}

// Tree is one regression tree in node-array form
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// TreeEnsemble sums leaf contributions over all trees plus the base score
type TreeEnsemble struct {
	params *TreeParams
	scaler *Scaler
}

// NewTreeEnsemble validates node arrays and builds the ensemble
func NewTreeEnsemble(params *TreeParams, scaler *Scaler) (*TreeEnsemble, error) {
	if len(params.Trees) == 0 {
		return nil, errors.New("tree ensemble has no trees")
	}
	if params.NumFeature <= 0 {
		return nil, errors.New("tree ensemble num_feature must be positive")
	}
	for i, t := range params.Trees {
		n := len(t.Feature)
		if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
			return nil, errors.Newf("tree %d has inconsistent node arrays", i)
		}
		if n == 0 {
			return nil, errors.Newf("tree %d is empty", i)
		}
	}
	return &TreeEnsemble{params: params, scaler: scaler}, nil
}

// Predict implements Artifact
func (m *TreeEnsemble) Predict(features []float64) (float64, error) {
	if len(features) != m.params.NumFeature {
		return 0, errors.Newf("tree ensemble expects %d features, got %d",
			m.params.NumFeature, len(features))
	}

	x := features
	if m.scaler != nil {
		var err error
		if x, err = m.scaler.Transform(features); err != nil {
			return 0, err
		}
	}

	pred := m.params.BaseScore
	for i := range m.params.Trees {
		leaf, err := m.params.Trees[i].walk(x)
		if err != nil {
			return 0, errors.Wrapf(err, "tree %d", i)
		}
		pred += leaf
	}
	return pred, nil
}

// walk descends from the root to a leaf and returns its value
func (t *Tree) walk(x []float64) (float64, error) {
	node := 0
	for steps := 0; steps <= len(t.Feature); steps++ {
		if t.Left[node] == -1 {
			return t.Value[node], nil
		}
		f := t.Feature[node]
		if f < 0 || f >= len(x) {
			return 0, errors.Newf("node %d references feature %d out of range", node, f)
		}
		if x[f] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
		if node < 0 || node >= len(t.Feature) {
			return 0, errors.Newf("child index %d out of range", node)
		}
	}
	return 0, errors.New("tree walk did not terminate, cycle in node arrays")
}
