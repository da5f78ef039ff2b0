package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
)

// ChatReq is the request body for one conversation turn.
type ChatReq struct {
	Message string `json:"message"`
}

func (api ChatBridgeServer) Chat(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	req := ChatReq{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, ErrorResp{
			Error: Error{
				Code:    ErrorCode_BadRequest,
				Message: "invalid request body",
			},
		})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, ErrorResp{
			Error: Error{
				Code:    ErrorCode_InternalError,
				Message: "streaming not supported",
			},
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	writeEvent := func(eventType domain.AssistantEventType, data any) error {
		dataBytes, err := json.Marshal(data)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "event: %s\n", eventType)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "data: %s\n\n", string(dataBytes))
		if err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := api.RunTurnUseCase.Execute(r.Context(), sessionID, req.Message, writeEvent)
	if err != nil {
		api.Logger.Printf("Chat: error during turn: %v", err)

		// Headers are already out; the failure goes down the stream itself.
		_ = writeEvent(domain.AssistantEventType_TurnFailed, domain.AssistantTurnFailed{
			SessionID: sessionID,
			Message:   toError(err).Error.Message,
		})
	}
}
