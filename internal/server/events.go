package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/wcatz/widget-layout/internal/layout"
)

// Event types streamed on /api/events.
const (
	EventTemplate    = "template"
	EventWidgetTypes = "widgetTypes"
	EventDrawer      = "drawer"
)

// Event is one session notification.
type Event struct {
	Type        string          `json:"type"`
	Template    layout.Template `json:"template,omitempty"`
	WidgetTypes []string        `json:"widgetTypes,omitempty"`
	Open        *bool           `json:"open,omitempty"`
}

// TemplateEvent announces a committed template.
func TemplateEvent(t layout.Template) Event {
	return Event{Type: EventTemplate, Template: t}
}

// WidgetTypesEvent announces the widget types placed at the active breakpoint.
func WidgetTypesEvent(types []string) Event {
	return Event{Type: EventWidgetTypes, WidgetTypes: types}
}

// DrawerEvent announces the drawer opening or closing.
func DrawerEvent(open bool) Event {
	return Event{Type: EventDrawer, Open: &open}
}

const subscriberBuffer = 32

// Hub fans events out to websocket clients. Slow clients miss events
// rather than blocking the publisher.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{subs: make(map[chan Event]struct{}), logger: logger}
}

// Publish sends ev to every subscriber.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("dropping event for slow client", "type", ev.Type)
		}
	}
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.origins),
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "err", err)
		return
	}
	defer c.CloseNow()

	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	// the client only listens; CloseRead handles its close frame
	ctx := c.CloseRead(r.Context())
	s.logger.Debug("events client connected", "remote", r.RemoteAddr)
	for {
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case ev := <-events:
			if err := wsjson.Write(ctx, c, ev); err != nil {
				s.logger.Debug("events client gone", "err", err)
				return
			}
		}
	}
}
