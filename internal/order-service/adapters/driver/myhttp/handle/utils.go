package handle

import (
	"encoding/json"
	"net/http"

	"freightflow/internal/order-service/core/myerrors"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response with the given status code.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	body := map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	}
	if refs := myerrors.BlockingRefs(err); len(refs) > 0 {
		body["blocking_records"] = refs
	}
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps the error taxonomy onto status codes, so the
// services never deal in HTTP terms.
func respondError(w http.ResponseWriter, err error) {
	switch myerrors.KindOf(err) {
	case myerrors.KindValidation:
		JsonError(w, http.StatusBadRequest, err)
	case myerrors.KindNotFound:
		JsonError(w, http.StatusNotFound, err)
	case myerrors.KindInvalidState, myerrors.KindConflict:
		JsonError(w, http.StatusConflict, err)
	case myerrors.KindTransient:
		JsonError(w, http.StatusServiceUnavailable, err)
	default:
		JsonError(w, http.StatusInternalServerError, err)
	}
}
