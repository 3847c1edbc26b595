package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/power"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

const (
	// outboxSize bounds the messages queued for one connection
	outboxSize     = 64
	writeWait      = 10 * time.Second
	maxMessageSize = 16 * 1024
)

// Message types
const (
	TypeSystem = "system"
	TypeExec   = "exec"
	TypeOutput = "output"
	TypePing   = "ping"
	TypePong   = "pong"
	TypeState  = "state"
	TypePower  = "power"
	TypeError  = "error"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware already filtered the origin
	},
}

// Inbound is a message from the client
type Inbound struct {
	Type   string      `json:"type"`
	Window id.WindowID `json:"window_id,omitempty"`
	Line   string      `json:"line,omitempty"`
}

// Outbound is a message to the client
type Outbound struct {
	Type       string            `json:"type"`
	Message    string            `json:"message,omitempty"`
	Window     id.WindowID       `json:"window_id,omitempty"`
	Result     interface{}       `json:"result,omitempty"`
	Transition *power.Transition `json:"transition,omitempty"`
	Timestamp  int64             `json:"timestamp"`
}

// Handler manages WebSocket connections
type Handler struct {
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(sessions *session.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

// connection is one upgraded client. Writes happen only on the writer goroutine.
// done closes when the reader stops; writerDone closes when the writer stops.
type connection struct {
	id         string
	conn       *websocket.Conn
	session    *session.Session
	outbox     chan Outbound
	done       chan struct{}
	writerDone chan struct{}
	h          *Handler
	logger     *zap.Logger
}

// HandleConnection upgrades a request on /sessions/:id/stream
func (h *Handler) HandleConnection(c *gin.Context) {
	s, err := h.sessions.Get(id.SessionID(c.Param("id")))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	cc := &connection{
		id:         uuid.NewString(),
		conn:       conn,
		session:    s,
		outbox:     make(chan Outbound, outboxSize),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
		h:          h,
	}
	cc.logger = h.logger.With(zap.String("conn", cc.id), zap.String("session", s.ID().String()))

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()
	cc.logger.Debug("WebSocket connected")

	go cc.writeLoop()

	unsubscribe := s.Subscribe(cc.pushTransition)

	cc.send(Outbound{Type: TypeSystem, Message: "Connected to session " + s.Name()})
	cc.readLoop()

	unsubscribe()
	close(cc.done)
	<-cc.writerDone
	cc.logger.Debug("WebSocket disconnected")
}

func (cc *connection) readLoop() {
	for {
		var msg Inbound
		if err := cc.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cc.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		cc.h.metrics.RecordWSMessage("in", msg.Type)

		switch msg.Type {
		case TypeExec:
			cc.exec(msg)
		case TypePing:
			cc.send(Outbound{Type: TypePong})
		case TypeState:
			cc.send(Outbound{Type: TypeState, Result: cc.session.Info()})
		default:
			cc.sendError("unknown message type")
		}
	}
}

func (cc *connection) exec(msg Inbound) {
	res, err := cc.session.Execute(msg.Window, msg.Line)
	if err != nil {
		cc.sendError(err.Error())
		return
	}
	cc.send(Outbound{Type: TypeOutput, Window: msg.Window, Result: res})
}

// pushTransition runs on the goroutine that changed the power state, so it
// never blocks. A full outbox drops the event.
func (cc *connection) pushTransition(t power.Transition) {
	out := Outbound{Type: TypePower, Transition: &t, Timestamp: time.Now().Unix()}
	select {
	case <-cc.done:
	case <-cc.writerDone:
	case cc.outbox <- out:
	default:
		cc.logger.Warn("Dropped power event", zap.String("to", string(t.To)))
	}
}

func (cc *connection) send(out Outbound) {
	if out.Timestamp == 0 {
		out.Timestamp = time.Now().Unix()
	}
	select {
	case <-cc.done:
	case <-cc.writerDone:
	case cc.outbox <- out:
	}
}

func (cc *connection) sendError(msg string) {
	cc.send(Outbound{Type: TypeError, Message: msg})
}

// writeLoop closes the socket when a write fails, which also ends readLoop
func (cc *connection) writeLoop() {
	defer close(cc.writerDone)
	for {
		select {
		case <-cc.done:
			return
		case out := <-cc.outbox:
			cc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cc.conn.WriteJSON(out); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					cc.logger.Debug("WebSocket write failed", zap.Error(err))
				}
				cc.conn.Close()
				return
			}
			cc.h.metrics.RecordWSMessage("out", out.Type)
		}
	}
}
