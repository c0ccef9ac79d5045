package analysisHandler

import (
	"UBASAnthropometry/internal/middleware"
	contextPkg "UBASAnthropometry/pkg/context"
	"UBASAnthropometry/pkg/log"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
	"time"
)

const (
	qcReadTimeout  = 60 * time.Second
	qcWriteTimeout = 10 * time.Second
	qcFrameTimeout = 10 * time.Second
)

// handleQCWebSocket answers every binary frame with its QC result so the
// capture client can guide the patient before taking the photo.
func (h *AnalysisHandler) handleQCWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	fields := log.Fields{"request_id": requestID}

	h.log.WithFields(fields).Info("Live QC WebSocket client connected")
	defer h.log.WithFields(fields).Info("Live QC WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.WithFields(fields).Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(qcReadTimeout)); err != nil {
			h.log.WithFields(fields).Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithFields(fields).Errorf("Live QC WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.WithFields(fields).Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), qcFrameTimeout)
		result, err := h.analysisService.CheckFrame(ctx, message)
		cancel()

		if err := c.SetWriteDeadline(time.Now().Add(qcWriteTimeout)); err != nil {
			h.log.WithFields(fields).Errorf("Error setting write deadline: %v", err)
			break
		}

		if err != nil {
			h.log.WithFields(fields).Errorf("Error checking frame: %v", err)
			if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
				break
			}
			continue
		}

		if err := c.WriteJSON(result); err != nil {
			h.log.WithFields(fields).Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
