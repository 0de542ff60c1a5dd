package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoLeafTree splits on feature 0 at threshold, returning left/right values
func twoLeafTree(threshold, left, right float64) Tree {
	return Tree{
		Feature:   []int{0, -1, -1},
		Threshold: []float64{threshold, 0, 0},
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Value:     []float64{0, left, right},
	}
}

func TestTreeEnsemble_Predict(t *testing.T) {
	model, err := NewTreeEnsemble(&TreeParams{
		BaseScore:  50.0,
		NumFeature: 4,
		Trees: []Tree{
			twoLeafTree(60.0, -5.0, 5.0),
			twoLeafTree(70.0, -2.0, 2.0),
		},
	}, nil)
	require.NoError(t, err)

	// mean=62.4 -> right leaf of first tree (+5), left leaf of second (-2)
	pred, err := model.Predict([]float64{62.4, 11.2, 65.0, 0.08})
	require.NoError(t, err)
	assert.InDelta(t, 53.0, pred, 1e-9)
}

func TestTreeEnsemble_ShapeMismatch(t *testing.T) {
	model, err := NewTreeEnsemble(&TreeParams{
		NumFeature: 4,
		Trees:      []Tree{twoLeafTree(0, -1, 1)},
	}, nil)
	require.NoError(t, err)

	_, err = model.Predict([]float64{1.0})
	assert.Error(t, err)
}

func TestNewTreeEnsemble_InconsistentArrays(t *testing.T) {
	_, err := NewTreeEnsemble(&TreeParams{
		NumFeature: 2,
		Trees: []Tree{{
			Feature:   []int{0, -1},
			Threshold: []float64{1.0},
			Left:      []int{1, -1},
			Right:     []int{1, -1},
			Value:     []float64{0, 1},
		}},
	}, nil)
	assert.Error(t, err)
}
