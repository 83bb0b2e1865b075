package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"attendkiosk/internal/clock"
	"attendkiosk/internal/kiosk/service"
	"attendkiosk/internal/kiosk/store"
	"attendkiosk/internal/kiosk/types"
)

// Server is the operator surface: status, today's roll, and warning
// acknowledgment.  Bound to localhost by default — the kiosk has no
// authenticated users, only an operator at the machine.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux

	ledger    store.LedgerStore
	exporter  *service.Exporter
	clock     clock.Clock
	sessionID string
	startedAt time.Time
}

type Dependencies struct {
	Logger    *zap.Logger
	Addr      string
	Ledger    store.LedgerStore
	Exporter  *service.Exporter
	Clock     clock.Clock
	SessionID string
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:    d.Logger,
		mux:       mux,
		ledger:    d.Ledger,
		exporter:  d.Exporter,
		clock:     d.Clock,
		sessionID: d.SessionID,
		startedAt: d.Clock.Now(),
	}

	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/attendance/today", s.handleToday)
	mux.HandleFunc("POST /v1/warning/ack", s.handleWarningAck)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type statusResponse struct {
	OK         bool     `json:"ok"`
	SessionID  string   `json:"session_id"`
	UptimeS    int64    `json:"uptime_s"`
	Date       string   `json:"date"`
	TodayCount int      `json:"today_count"`
	Warning    []string `json:"warning,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	date := types.CivilDate(now)

	entries, err := s.ledger.EventsForDate(r.Context(), date)
	if err != nil {
		s.logger.Error("status: ledger read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		OK:         true,
		SessionID:  s.sessionID,
		UptimeS:    int64(now.Sub(s.startedAt).Seconds()),
		Date:       date,
		TodayCount: len(entries),
		Warning:    s.exporter.Warning(),
	})
}

type todayResponse struct {
	Date    string           `json:"date"`
	Entries []types.DayEntry `json:"entries"`
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	date := types.CivilDate(s.clock.Now())

	entries, err := s.ledger.EventsForDate(r.Context(), date)
	if err != nil {
		s.logger.Error("today: ledger read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	if entries == nil {
		entries = []types.DayEntry{}
	}

	writeJSON(w, http.StatusOK, todayResponse{Date: date, Entries: entries})
}

func (s *Server) handleWarningAck(w http.ResponseWriter, r *http.Request) {
	s.exporter.Acknowledge()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
