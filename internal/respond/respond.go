// Package respond writes the JSON envelope every API response uses:
//
//	{"ok":true,"data":...}
//	{"ok":false,"error":{"code":"...","message":"...","fields":{...}}}
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the tagged result carried by every JSON response.
type Envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// JSON writes data as a successful envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{OK: true, Data: data})
}

// Error writes a failed envelope with no field details.
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{Error: &ErrorBody{Code: code, Message: message}})
}

// ValidationError writes a failed envelope with per-field details.
func ValidationError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	write(w, status, Envelope{Error: &ErrorBody{Code: code, Message: message, Fields: fields}})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Debug("write response", "error", err)
	}
}
