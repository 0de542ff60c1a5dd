package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gridiron/pkg/errors"
	"gridiron/pkg/logger"
)

// errorBody is the wire shape of every non-2xx response
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Bound     *int   `json:"bound,omitempty"`
	Requested *int   `json:"requested,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps pipeline errors onto HTTP statuses. Each gate failure keeps
// its own code so clients can distinguish "no such player" from "no model
// bound for this market" without parsing messages.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var mismatch *errors.LookbackMismatchError
	if errors.As(err, &mismatch) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Code:      "lookback_mismatch",
			Message:   mismatch.Error(),
			Bound:     &mismatch.Bound,
			Requested: &mismatch.Requested,
		}})
		return
	}

	var validation *errors.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Code:    "invalid_parameter",
			Message: validation.Error(),
		}})
		return
	}

	switch {
	case errors.Is(err, errors.ErrPlayerNotFound):
		writeNotFound(w, "player_not_found", err)
	case errors.Is(err, errors.ErrMarketNotFound):
		writeNotFound(w, "market_not_found", err)
	case errors.Is(err, errors.ErrNoActiveModel):
		writeNotFound(w, "no_active_model", err)
	case errors.Is(err, errors.ErrFeatureNotFound):
		writeNotFound(w, "feature_not_found", err)
	case errors.Is(err, errors.ErrNotFound):
		writeNotFound(w, "not_found", err)
	case errors.Is(err, errors.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Code:    "invalid_parameter",
			Message: err.Error(),
		}})
	default:
		// Artifact missing, inference failures and everything unexpected.
		// Details stay in logs; the body carries only the class.
		logger.Get().Errorw("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
			Code:    "internal_error",
			Message: "internal server error",
		}})
	}
}

func writeNotFound(w http.ResponseWriter, code string, err error) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
		Code:    code,
		Message: err.Error(),
	}})
}

// intParam parses an integer query parameter with a default and inclusive
// bounds. Missing means default; malformed or out of range is a client error.
func intParam(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError(name, "must be an integer", raw)
	}
	if v < min || v > max {
		return 0, errors.NewValidationError(name, "must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max), v)
	}
	return v, nil
}

// pathID parses a numeric path segment such as {player_id}
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError(name, "must be a positive integer", raw)
	}
	return id, nil
}

// requireParam returns a non-empty query parameter or a validation error
func requireParam(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", errors.NewValidationError(name, "is required", nil)
	}
	return v, nil
}
