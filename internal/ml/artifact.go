package ml

// Artifact is a loaded, callable model. The serving core never branches on
// the model family behind it; any scaling or encoding the model needs is
// already baked into the artifact.
//
// Implementations must be safe for concurrent use: the loader shares one
// instance across requests and nothing may mutate it after load.
type Artifact interface {
	// Predict runs inference over a positionally ordered feature vector
	// and returns a single scalar
	Predict(features []float64) (float64, error)
}
