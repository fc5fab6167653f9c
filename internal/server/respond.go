package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jkirker/Page-Exec-Timer/internal/logfields"
)

// wantsPretty reports whether the request asked for indented JSON.
func wantsPretty(r *http.Request) bool {
	if r == nil {
		return false
	}
	p := r.URL.Query().Get("pretty")
	return p == "1" || p == "true"
}

// writeJSON encodes v into a buffer first so an encoding failure never
// leaks a partial response, then writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return writeBody(w, status, buf.Bytes())
}

// writeJSONPretty honors a pretty=1 or pretty=true query parameter by
// indenting the payload, and otherwise behaves like writeJSON. Marshal
// failures fall back to the compact form.
func writeJSONPretty(w http.ResponseWriter, r *http.Request, status int, v any) error {
	if !wantsPretty(r) {
		return writeJSON(w, status, v)
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Warn("pretty JSON marshal failed, sending compact form", logfields.Error(err))
		return writeJSON(w, status, v)
	}
	// Trailing newline for parity with Encoder output.
	return writeBody(w, status, append(b, '\n'))
}

func writeBody(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}
