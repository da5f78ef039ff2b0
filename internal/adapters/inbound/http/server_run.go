// Package http is the inbound REST and SSE surface of the chat bridge.
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/usecases"
	"github.com/rs/cors"
)

// ChatBridgeServer is the HTTP server exposing session management and the
// chat event stream.
type ChatBridgeServer struct {
	Port                    int                        `config:"HTTP_PORT" default:"8080"`
	Logger                  *log.Logger                `resolve:""`
	CreateSessionUseCase    usecases.CreateSession     `resolve:""`
	CloseSessionUseCase     usecases.CloseSession      `resolve:""`
	AttachConnectionUseCase usecases.AttachConnection  `resolve:""`
	DetachConnectionUseCase usecases.DetachConnection  `resolve:""`
	ListSessionToolsUseCase usecases.ListSessionTools  `resolve:""`
	RunTurnUseCase          usecases.RunTurn           `resolve:""`
}

// Run starts the HTTP server for the ChatBridgeServer.
func (api ChatBridgeServer) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", api.Health)
	mux.HandleFunc("POST /sessions", api.CreateSession)
	mux.HandleFunc("DELETE /sessions/{id}", api.CloseSession)
	mux.HandleFunc("POST /sessions/{id}/chat", api.Chat)
	mux.HandleFunc("POST /sessions/{id}/connections", api.AttachConnection)
	mux.HandleFunc("DELETE /sessions/{id}/connections/{name}", api.DetachConnection)
	mux.HandleFunc("GET /sessions/{id}/tools", api.ListTools)

	h := telemetry.Middleware("mcpchat-api")(mux)

	// Apply CORS at the top-level so preflight requests hit it, too.
	h = cors.AllowAll().Handler(h)

	s := &http.Server{
		Handler: h,
		Addr:    fmt.Sprintf(":%d", api.Port),
	}

	errCh := make(chan error, 1)
	go func() {
		api.Logger.Printf("ChatBridgeServer: Listening on port %d", api.Port)
		errCh <- s.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		if err != nil {
			api.Logger.Printf("ChatBridgeServer: error during shutdown: %v", err)
		} else {
			api.Logger.Println("ChatBridgeServer: stopped")
		}
		return err
	case err := <-errCh:
		return err
	}
}

// Health reports liveness.
func (api ChatBridgeServer) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// IsReady checks if the ChatBridgeServer is ready by performing a health check.
func (api ChatBridgeServer) IsReady(ctx context.Context) error {
	resp, err := http.Get(fmt.Sprintf("http://:%d/healthz", api.Port))
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
