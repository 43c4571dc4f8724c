package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"SlopeLab/internal/model"
)

// Event envelope types sent over SSE and WebSocket streams.
const (
	eventProgress = "progress"
	eventComplete = "complete"
	eventError    = "error"
)

type progressEvent struct {
	Type string `json:"type"`
	model.Progress
}

type completeEvent struct {
	Type     string                 `json:"type"`
	Branches []model.BranchOverview `json:"branches"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// handleOverviewStream runs the overview and streams progress as
// server-sent events, finishing with a complete event carrying the rows.
func (s *Server) handleOverviewStream(w http.ResponseWriter, r *http.Request) {
	params, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Progress callbacks arrive on this goroutine, so writing to w directly
	// is safe.
	rows, err := s.svc.OverviewStream(r.Context(), params, func(p model.Progress) {
		writeSSE(w, flusher, progressEvent{Type: eventProgress, Progress: p})
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			writeSSE(w, flusher, errorEvent{Type: eventError, Message: err.Error()})
		}
		return
	}
	writeSSE(w, flusher, completeEvent{Type: eventComplete, Branches: rows})
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[ERROR] marshal sse event: %v", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

// handleOverviewWS is the WebSocket twin of the SSE stream for clients that
// need bidirectional framing or proxies that buffer event streams.
func (s *Server) handleOverviewWS(w http.ResponseWriter, r *http.Request) {
	params, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.originAllowed(origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read pump: the client never sends data, but a read error is the only
	// way to notice it hung up mid-run.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	rows, err := s.svc.OverviewStream(ctx, params, func(p model.Progress) {
		if err := conn.WriteJSON(progressEvent{Type: eventProgress, Progress: p}); err != nil {
			cancel()
		}
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			_ = conn.WriteJSON(errorEvent{Type: eventError, Message: err.Error()})
		}
		return
	}
	if err := conn.WriteJSON(completeEvent{Type: eventComplete, Branches: rows}); err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
