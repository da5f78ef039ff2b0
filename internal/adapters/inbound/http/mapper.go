package http

import (
	"encoding/json"
	"time"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/usecases"
	"github.com/google/uuid"
)

// SessionResp is the response body of session creation.
type SessionResp struct {
	ID          uuid.UUID        `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	Connections []ConnectionResp `json:"connections"`
}

// ConnectionResp describes one attached tool connection.
type ConnectionResp struct {
	Name  string     `json:"name"`
	Tools []ToolResp `json:"tools"`
}

// ToolResp describes one registered tool.
type ToolResp struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
	Connection  string          `json:"connection"`
}

// ToolListResp is the response body of the session tool listing.
type ToolListResp struct {
	Tools []ToolResp `json:"tools"`
}

func toError(err error) ErrorResp {
	errResp := ErrorResp{}
	switch e := err.(type) {
	case *domain.ValidationErr:
		errResp.Error.Code = ErrorCode_BadRequest
		errResp.Error.Message = e.Error()
	case *domain.NotFoundErr:
		errResp.Error.Code = ErrorCode_NotFound
		errResp.Error.Message = e.Error()
	case *domain.GatewayErr:
		errResp.Error.Code = ErrorCode_GatewayFailure
		errResp.Error.Message = "model endpoint failure"
	case *domain.LoopLimitErr:
		errResp.Error.Code = ErrorCode_LoopLimit
		errResp.Error.Message = e.Error()
	default:
		errResp.Error.Code = ErrorCode_InternalError
		errResp.Error.Message = "internal server error"
	}
	return errResp
}

func toSessionResp(info usecases.SessionInfo) SessionResp {
	resp := SessionResp{
		ID:          info.ID,
		CreatedAt:   info.CreatedAt,
		Connections: []ConnectionResp{},
	}
	for _, conn := range info.Connections {
		resp.Connections = append(resp.Connections, toConnectionResp(conn))
	}
	return resp
}

func toConnectionResp(info usecases.ConnectionInfo) ConnectionResp {
	resp := ConnectionResp{Name: info.Name, Tools: []ToolResp{}}
	for _, tool := range info.Tools {
		resp.Tools = append(resp.Tools, toToolResp(tool))
	}
	return resp
}

func toToolResp(tool domain.ToolDescriptor) ToolResp {
	return ToolResp{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: tool.InputSchema,
		Connection:  tool.Connection,
	}
}
