package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter renders errors as JSON responses with a status code
// derived from the error category.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter builds an adapter. A nil logger falls back to the
// process default.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON error payload.
type HTTPErrorResponse struct {
	Error     string         `json:"error"`
	Code      string         `json:"code,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
}

// StatusCodeFor maps an error category onto an HTTP status. Unclassified
// errors report 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	pte, ok := err.(*PageTimerError)
	if !ok {
		return http.StatusInternalServerError
	}

	switch pte.Category {
	case CategoryValidation, CategoryConfig:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryNetwork, CategoryGit, CategoryPublish:
		return http.StatusBadGateway
	case CategoryRender:
		return http.StatusUnprocessableEntity
	case CategoryRuntime, CategoryDaemon:
		return http.StatusServiceUnavailable
	default:
		// storage, filesystem, probe, internal
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes the JSON payload for err and logs it at the
// severity's level. A nil err writes a bare 200.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := a.StatusCodeFor(err)
	body, merr := json.Marshal(a.FormatErrorResponse(err))
	if merr != nil {
		// Context fields may hold values json cannot encode.
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)

	if pte, ok := err.(*PageTimerError); ok {
		a.logger.Log(r.Context(), severityLevel(pte.Severity), pte.Error())
		return
	}
	a.logger.Error(err.Error())
}

// FormatErrorResponse shapes err into the JSON payload.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if err == nil {
		return HTTPErrorResponse{}
	}
	pte, ok := err.(*PageTimerError)
	if !ok {
		return HTTPErrorResponse{Error: err.Error()}
	}

	resp := HTTPErrorResponse{Error: pte.Message, Code: string(pte.Category)}
	if len(pte.Context) > 0 {
		resp.Details = map[string]any(pte.Context)
	}
	if pte.Retryable {
		resp.Retryable = true
		if resp.Details == nil {
			resp.Details = make(map[string]any)
		}
		resp.Details["retryable"] = true
	}
	return resp
}
