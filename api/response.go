package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/VishalDET/ASG/pkg/otellib"
)

// Response is the envelope of every JSON endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// writeOutcome reports an expected, user facing outcome. These are not
// server failures, the envelope carries the specific message.
func writeOutcome(w http.ResponseWriter, data interface{}, message string) {
	writeJSON(w, http.StatusOK, Response{Success: false, Data: data, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: message})
}

// writeInternal is for connectivity/unexpected failures only; the user
// may retry explicitly.
func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	otellib.Extract(r.Context()).Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Response{
		Success: false,
		Message: "temporary failure, please try again",
	})
}
