package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// AttachConnectionReq is the request body for attaching a tool server.
type AttachConnectionReq struct {
	Name string `json:"name"`
	Spec string `json:"spec"`
}

func (api ChatBridgeServer) CreateSession(w http.ResponseWriter, r *http.Request) {
	info, err := api.CreateSessionUseCase.Execute(r.Context())
	if err != nil {
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toSessionResp(info))
}

func (api ChatBridgeServer) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	if err := api.CloseSessionUseCase.Execute(r.Context(), sessionID); err != nil {
		respondError(w, toError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api ChatBridgeServer) AttachConnection(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	req := AttachConnectionReq{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, ErrorResp{
			Error: Error{
				Code:    ErrorCode_BadRequest,
				Message: "invalid request body",
			},
		})
		return
	}

	info, err := api.AttachConnectionUseCase.Execute(r.Context(), sessionID, req.Name, req.Spec)
	if err != nil {
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toConnectionResp(info))
}

func (api ChatBridgeServer) DetachConnection(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	if err := api.DetachConnectionUseCase.Execute(r.Context(), sessionID, r.PathValue("name")); err != nil {
		respondError(w, toError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api ChatBridgeServer) ListTools(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	tools, err := api.ListSessionToolsUseCase.Query(r.Context(), sessionID)
	if err != nil {
		respondError(w, toError(err))
		return
	}

	resp := ToolListResp{Tools: []ToolResp{}}
	for _, tool := range tools {
		resp.Tools = append(resp.Tools, toToolResp(tool))
	}
	respondJSON(w, http.StatusOK, resp)
}

func parseSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, ErrorResp{
			Error: Error{
				Code:    ErrorCode_BadRequest,
				Message: "invalid session id",
			},
		})
		return uuid.Nil, false
	}
	return sessionID, true
}
