package ml

import (
	onnxruntime "github.com/yalue/onnxruntime_go"

	"gridiron/pkg/errors"
)

// ONNXModel wraps an ONNX Runtime session for regression inference.
// Exported models use a single "input" tensor of shape [1, n] and a single
// "variable" output of shape [1, 1].
type ONNXModel struct {
	session     *onnxruntime.DynamicAdvancedSession
	numFeatures int
}

// LoadONNX loads an ONNX regression artifact from file
func LoadONNX(path string, numFeatures int) (*ONNXModel, error) {
	// Initialize ONNX runtime environment (idempotent after first call)
	if err := onnxruntime.InitializeEnvironment(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize ONNX runtime")
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session options")
	}
	defer options.Destroy()

	session, err := onnxruntime.NewDynamicAdvancedSession(path,
		[]string{"input"}, []string{"variable"}, options)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load ONNX model %s", path)
	}

	return &ONNXModel{
		session:     session,
		numFeatures: numFeatures,
	}, nil
}

// Predict implements Artifact
func (m *ONNXModel) Predict(features []float64) (float64, error) {
	if m.session == nil {
		return 0, errors.New("model session is nil")
	}
	if m.numFeatures > 0 && len(features) != m.numFeatures {
		return 0, errors.Newf("onnx model expects %d features, got %d", m.numFeatures, len(features))
	}

	inputShape := onnxruntime.NewShape(1, int64(len(features)))
	inputTensor, err := onnxruntime.NewTensor(inputShape, features)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create input tensor")
	}
	defer inputTensor.Destroy()

	output := make([]float64, 1)
	outputShape := onnxruntime.NewShape(1, 1)
	outputTensor, err := onnxruntime.NewTensor(outputShape, output)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create output tensor")
	}
	defer outputTensor.Destroy()

	err = m.session.Run(
		[]onnxruntime.Value{inputTensor},
		[]onnxruntime.Value{outputTensor},
	)
	if err != nil {
		return 0, errors.Wrap(err, "inference failed")
	}

	return output[0], nil
}

// Destroy cleans up the ONNX session
func (m *ONNXModel) Destroy() {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
}
