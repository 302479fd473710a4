// Package httpstatus exposes a running Engine's mirrored status and
// load/start/pause/resume/stop controls over HTTP, in the shape of
// generichttp/motion's goji-pattern route table and aerotech/http.go's
// JSON request/response handlers, reproduced minimally here since this
// runtime only ever serves one status type rather than generichttp's full
// device-polymorphic binding machinery.
package httpstatus

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"sync"

	"goji.io"
	"goji.io/pat"

	"github.com/tjkluska/fabmo/sbp"
)

// Service wraps a *sbp.Engine with concurrency-safe load/run/pause/stop
// controls, bound to a driver constructed once at startup.
type Service struct {
	mu     sync.Mutex
	driver sbp.Driver
	engine *sbp.Engine
	runErr error
}

// NewService constructs a Service driving d.
func NewService(d sbp.Driver) *Service {
	return &Service{driver: d}
}

// RouteTable maps goji patterns to handlers, following
// generichttp.RouteTable's shape without generichttp's polymorphic binder.
type RouteTable map[*pat.Pattern]http.HandlerFunc

// Bind registers every route in the table on mux.
func (rt RouteTable) Bind(mux *goji.Mux) {
	for p, h := range rt {
		mux.HandleFunc(p, h)
	}
}

// Routes returns this service's route table (§6 status/control surface).
func (s *Service) Routes() RouteTable {
	return RouteTable{
		pat.Post("/load"):   s.handleLoad,
		pat.Post("/start"):  s.handleStart,
		pat.Post("/pause"):  s.handlePause,
		pat.Post("/resume"): s.handleResume,
		pat.Post("/stop"):   s.handleStop,
		pat.Get("/status"):  s.handleStatus,
	}
}

type loadRequest struct {
	Source string `json:"source"`
}

func (s *Service) handleLoad(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req loadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	prog, err := sbp.ParseProgram(req.Source)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	analysis, err := sbp.Analyze(&prog)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	settings := sbp.DefaultSettings()
	s.engine = sbp.NewEngine(&prog, analysis, s.driver, &settings)
	w.WriteHeader(http.StatusOK)
}

func (s *Service) handleStart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	e := s.engine
	s.mu.Unlock()
	if e == nil {
		http.Error(w, "no program loaded", http.StatusConflict)
		return
	}
	go func() {
		err := e.Run()
		s.mu.Lock()
		s.runErr = err
		s.mu.Unlock()
	}()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Service) handlePause(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, func(e *sbp.Engine) { e.Pause() })
}

func (s *Service) handleResume(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, func(e *sbp.Engine) { e.Resume() })
}

func (s *Service) handleStop(w http.ResponseWriter, r *http.Request) {
	s.withEngine(w, func(e *sbp.Engine) { e.Stop() })
}

func (s *Service) withEngine(w http.ResponseWriter, fn func(*sbp.Engine)) {
	s.mu.Lock()
	e := s.engine
	s.mu.Unlock()
	if e == nil {
		http.Error(w, "no program loaded", http.StatusConflict)
		return
	}
	fn(e)
	w.WriteHeader(http.StatusOK)
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	e := s.engine
	runErr := s.runErr
	s.mu.Unlock()
	if e == nil {
		http.Error(w, "no program loaded", http.StatusConflict)
		return
	}
	resp := struct {
		Status sbp.Status `json:"status"`
		Error  string     `json:"error,omitempty"`
	}{Status: *e.Status}
	if runErr != nil {
		resp.Error = runErr.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
