package http

import (
	"encoding/json"
	"net/http"
)

const (
	ErrorCode_BadRequest     = "BAD_REQUEST"
	ErrorCode_NotFound       = "NOT_FOUND"
	ErrorCode_GatewayFailure = "GATEWAY_FAILURE"
	ErrorCode_LoopLimit      = "LOOP_LIMIT"
	ErrorCode_InternalError  = "INTERNAL_ERROR"
)

// ErrorResp is the JSON error envelope of every non-2xx response.
type ErrorResp struct {
	Error Error `json:"error"`
}

// Error carries a stable machine code and a human message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err ErrorResp) {
	statusCode := http.StatusInternalServerError
	switch err.Error.Code {
	case ErrorCode_BadRequest:
		statusCode = http.StatusBadRequest
	case ErrorCode_NotFound:
		statusCode = http.StatusNotFound
	}
	respondJSON(w, statusCode, err)
}
