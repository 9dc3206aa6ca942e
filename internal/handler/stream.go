package handler

import (
	"encoding/json"
	"framedetect/internal/config"
	"framedetect/internal/logger"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Stream event names.
const (
	EventFrame          = "frame"
	EventProcessedFrame = "processed_frame"
	EventError          = "error"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ConnRegistry keeps track of open stream connections.
type ConnRegistry interface {
	Register(client *websocket.Conn)
	Unregister(client *websocket.Conn)
}

// InboundEvent is a client message. For "frame" Data holds the image string itself.
type InboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutboundEvent is a server message.
type OutboundEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ProcessedFrame is the payload of a "processed_frame" event.
type ProcessedFrame struct {
	Image string `json:"image"`
}

// ErrorMessage is the payload of an "error" event.
type ErrorMessage struct {
	Message string `json:"message"`
}

// StreamWebsocketHandler handles the frame stream. Frames on one connection are
// processed one at a time and each is answered before the next one is read.
func StreamWebsocketHandler(processor ImageProcessor, registry ConnRegistry, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		if cfg.MaxFrameBytes > 0 {
			connection.SetReadLimit(cfg.MaxFrameBytes)
		}
		connection.SetPongHandler(func(appData string) error {
			return connection.SetReadDeadline(time.Now().Add(pongWait))
		})

		registry.Register(connection)
		defer registry.Unregister(connection)

		stopPing := make(chan struct{})
		defer close(stopPing)
		go keepAlive(connection, stopPing)

		logger.Info("Stream client connected: %s", r.RemoteAddr)

		for {
			connection.SetReadDeadline(time.Now().Add(pongWait))
			_, msg, err := connection.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Stream client disconnected normally: %s", r.RemoteAddr)
				} else {
					logger.Error("Stream client disconnected with error: %v", err)
				}
				break
			}

			reply, ok := handleStreamMessage(processor, msg, logger)
			if !ok {
				continue
			}

			connection.SetWriteDeadline(time.Now().Add(writeWait))
			if err := connection.WriteJSON(reply); err != nil {
				logger.Error("Error sending %s event: %v", reply.Event, err)
				break
			}
		}
	}
}

// handleStreamMessage turns one inbound message into the reply event. It returns
// false for events that get no reply.
func handleStreamMessage(processor ImageProcessor, msg []byte, logger *logger.Logger) (OutboundEvent, bool) {
	var event InboundEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		logger.Warning("Invalid stream message: %v", err)
		return errorEvent("invalid event: " + err.Error()), true
	}

	if event.Event != EventFrame {
		logger.Warning("Ignoring unknown stream event %q", event.Event)
		return OutboundEvent{}, false
	}

	var image string
	if err := json.Unmarshal(event.Data, &image); err != nil {
		return errorEvent("frame payload must be an image string"), true
	}

	processed, err := processor.ProcessImage(image)
	if err != nil {
		logger.Error("Frame processing failed: %v", err)
		return errorEvent(err.Error()), true
	}

	return OutboundEvent{Event: EventProcessedFrame, Data: ProcessedFrame{Image: processed}}, true
}

func errorEvent(message string) OutboundEvent {
	return OutboundEvent{Event: EventError, Data: ErrorMessage{Message: message}}
}

// keepAlive pings the client so idle connections pass the read deadline.
func keepAlive(connection *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := connection.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}
