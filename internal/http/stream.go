package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go.ngs.io/emwave-api/internal/logging"
	"go.ngs.io/emwave-api/internal/usecase"
)

const (
	writeWait      = 10 * time.Second
	firstReadWait  = 30 * time.Second
	maxMessageSize = 64 << 10
	maxStreamSize  = 5000
)

// StreamRequest is the first message a client sends on /v1/stream.
type StreamRequest struct {
	Request usecase.VisualizationRequest `json:"request"`
	Frames  int                          `json:"frames,omitempty"`  // Defaults to the configured frame count.
	Samples int                          `json:"samples,omitempty"` // Positions per frame.
}

// Stream message types.
const (
	MessageFrame = "frame"
	MessageDone  = "done"
	MessageError = "error"
)

// StreamMessage is pushed by the server for each frame and once at the end.
type StreamMessage struct {
	Type   string         `json:"type"`
	Frame  *usecase.Frame `json:"frame,omitempty"`
	Frames int            `json:"frames,omitempty"` // Total sent, on done.
	Error  string         `json:"error,omitempty"`
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(h.opts.AllowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(h.opts.AllowedOrigins, origin)
		},
	}
}

// Stream handles GET /v1/stream. The client sends one StreamRequest; the
// server replies with frame messages and a final done message, then closes.
// A client disconnect stops the stream.
func (h *Handler) Stream(c *gin.Context) {
	logger := logging.FromContext(c, h.logger)

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(maxMessageSize)

	var req StreamRequest
	_ = conn.SetReadDeadline(time.Now().Add(firstReadWait))
	if err := conn.ReadJSON(&req); err != nil {
		h.closeWithError(conn, websocket.CloseUnsupportedData, fmt.Errorf("invalid stream request: %w", err))
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	frames := req.Frames
	if frames <= 0 {
		frames = h.opts.DefaultFrames
	}
	frames = min(frames, h.opts.MaxFrames)
	samples := req.Samples
	if samples <= 0 {
		samples = h.opts.Samples
	}
	samples = min(samples, maxStreamSize)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Reads only to notice the peer going away.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
	defer func() {
		_ = conn.Close()
		<-readerDone
	}()

	var tick <-chan time.Time
	if h.opts.FrameInterval > 0 {
		ticker := time.NewTicker(h.opts.FrameInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	sent := 0
	err = h.visualizeUC.Frames(ctx, req.Request, frames, samples, func(f usecase.Frame) error {
		if tick != nil && f.Index > 0 {
			select {
			case <-tick:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := writeJSON(conn, StreamMessage{Type: MessageFrame, Frame: &f}); err != nil {
			return err
		}
		sent++
		return nil
	})

	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		h.closeWithError(conn, websocket.ClosePolicyViolation, err)
		return
	case err != nil:
		logger.Debug("stream ended early", zap.Int("frames_sent", sent), zap.Error(err))
		return
	}

	if err := writeJSON(conn, StreamMessage{Type: MessageDone, Frames: sent}); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))

	logger.Debug("stream complete", zap.Int("frames_sent", sent))
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func (h *Handler) closeWithError(conn *websocket.Conn, code int, err error) {
	_ = writeJSON(conn, StreamMessage{Type: MessageError, Error: err.Error()})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, ""),
		time.Now().Add(writeWait))
}
