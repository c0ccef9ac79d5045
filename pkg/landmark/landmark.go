package landmark

import (
	"UBASAnthropometry/internal/entity"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type View string

const (
	ViewFront View = "front"
	ViewSide  View = "side"
)

var (
	ErrNotConnected = errors.New("not connected to landmark service")
	errStaleReply   = errors.New("stale landmark reply")
)

type ILandmark interface {
	ExtractFront(ctx context.Context, image []byte) (*entity.FrontExtraction, error)
	ExtractSide(ctx context.Context, image []byte) (*entity.SideExtraction, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type Request struct {
	RequestID string `json:"request_id"`
	View      View   `json:"view"`
	Image     string `json:"image"`
}

type Response struct {
	RequestID string                  `json:"request_id"`
	Error     string                  `json:"error,omitempty"`
	Front     *entity.FrontExtraction `json:"front,omitempty"`
	Side      *entity.SideExtraction  `json:"side,omitempty"`
}

type client struct {
	url          string
	conn         *websocket.Conn
	mu           sync.Mutex
	log          *logrus.Logger
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New(log *logrus.Logger) ILandmark {
	url := os.Getenv("LANDMARK_WS_URL")
	if url == "" {
		url = "ws://localhost:8000/api/v1/landmarks/ws"
	}

	c := &client{
		url:          url,
		log:          log,
		pingInterval: 30 * time.Second,
		readTimeout:  15 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go c.connectInBackground()

	return c
}

func (c *client) connectInBackground() {
	if err := c.Reconnect(); err != nil {
		c.log.Warnf("Initial connection to landmark service failed: %v. Will retry on demand.", err)
		return
	}
	c.log.Info("Successfully connected to landmark service")
}

func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *client) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialLocked()
}

func (c *client) dialLocked() error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.log.Infof("Connecting to landmark service at %s", c.url)

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout)); err != nil {
			c.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	return nil
}

func (c *client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *client) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout)); err != nil {
			c.log.Warnf("Ping failed for landmark service, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

func (c *client) deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

// roundTrip sends one request and waits for its reply. Requests are
// serialised on the single connection.
func (c *client) roundTrip(ctx context.Context, view View, image []byte) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.dialLocked(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
	}
	conn := c.conn

	req := Request{
		RequestID: uuid.NewString(),
		View:      view,
		Image:     base64.StdEncoding.EncodeToString(image),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	conn.SetWriteDeadline(c.deadline(ctx, c.writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error sending %s frame: %w", view, err)
	}

	// Replies to earlier, abandoned requests are dropped until ours arrives.
	conn.SetReadDeadline(c.deadline(ctx, c.readTimeout))
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.conn = nil
			conn.Close()
			return nil, fmt.Errorf("error reading %s landmarks: %w", view, err)
		}

		res, err := decodeResponse(message, req.RequestID)
		if errors.Is(err, errStaleReply) {
			c.log.WithField("request_id", req.RequestID).Warnf("Discarding landmark reply: %v", err)
			continue
		}

		conn.SetReadDeadline(time.Time{})
		conn.SetWriteDeadline(time.Time{})
		return res, err
	}
}

func decodeResponse(message []byte, requestID string) (*Response, error) {
	var res Response
	if err := json.Unmarshal(message, &res); err != nil {
		return nil, fmt.Errorf("error unmarshaling landmark response: %w", err)
	}
	if res.RequestID != "" && res.RequestID != requestID {
		return nil, fmt.Errorf("%w: response for %s, expected %s", errStaleReply, res.RequestID, requestID)
	}
	if res.Error != "" {
		return nil, fmt.Errorf("landmark service: %s", res.Error)
	}
	return &res, nil
}

func (c *client) ExtractFront(ctx context.Context, image []byte) (*entity.FrontExtraction, error) {
	res, err := c.roundTrip(ctx, ViewFront, image)
	if err != nil {
		return nil, err
	}
	if res.Front == nil {
		return &entity.FrontExtraction{FaceFound: false}, nil
	}

	c.log.WithFields(logrus.Fields{
		"request_id": res.RequestID,
		"face_found": res.Front.FaceFound,
		"roll_deg":   res.Front.FaceRollDeg,
	}).Debug("Received front landmarks")

	return res.Front, nil
}

func (c *client) ExtractSide(ctx context.Context, image []byte) (*entity.SideExtraction, error) {
	res, err := c.roundTrip(ctx, ViewSide, image)
	if err != nil {
		return nil, err
	}
	if res.Side == nil {
		return &entity.SideExtraction{FaceFound: false}, nil
	}

	c.log.WithFields(logrus.Fields{
		"request_id": res.RequestID,
		"face_found": res.Side.FaceFound,
	}).Debug("Received side landmarks")

	return res.Side, nil
}
