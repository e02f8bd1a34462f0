// Package advisortest provides an in-process fake of the Advisor API for tests.
package advisortest

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/martinsuchenak/advisorctl/internal/model"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "secret"
	DefaultToken    = "test-token"
)

// PowerRecord is a power command received by the fake
type PowerRecord struct {
	DeviceID string
	Action   model.PowerAction
}

// Server is a TLS test server speaking the porcelain/v2 API
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	username  string
	password  string
	token     string
	systems   []model.ManagedSystem
	tasks     []model.Task
	overrides map[string]http.HandlerFunc
	hits      map[string]int
	headers   []http.Header
	power     []PowerRecord

	// PowerHook, when set, runs inside the power handler before it answers
	PowerHook func(deviceID string)
}

// NewServer starts a fake Advisor API that is closed when the test ends
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		username:  DefaultUsername,
		password:  DefaultPassword,
		token:     DefaultToken,
		overrides: make(map[string]http.HandlerFunc),
		hits:      make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /porcelain/v2/auth/login", s.login)
	mux.Handle("GET /porcelain/v2/systems", s.authMiddleware(http.HandlerFunc(s.listSystems)))
	mux.Handle("GET /porcelain/v2/compute/devices", s.authMiddleware(http.HandlerFunc(s.listDevices)))
	mux.Handle("POST /porcelain/v2/compute/devices/{id}/powerState", s.authMiddleware(http.HandlerFunc(s.setPowerState)))
	mux.Handle("GET /porcelain/v2/tasks", s.authMiddleware(http.HandlerFunc(s.listTasks)))

	s.Server = httptest.NewTLSServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// Address returns the bare host:port of the server, the form the client stores
func (s *Server) Address() string {
	return strings.TrimPrefix(s.URL, "https://")
}

// SetSystems replaces the systems returned by the fake
func (s *Server) SetSystems(systems []model.ManagedSystem) {
	clone := make([]model.ManagedSystem, len(systems))
	for i := range systems {
		clone[i] = systems[i]
		clone[i].ComputeDevices = append([]model.ComputeDevice(nil), systems[i].ComputeDevices...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.systems = clone
}

// SetTasks replaces the tasks returned by the fake
func (s *Server) SetTasks(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
}

// SetToken changes the token issued on login and accepted afterwards
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Expire makes every authenticated endpoint answer 401
func (s *Server) Expire() {
	s.SetToken("")
}

// Override replaces the handler for an exact request path
func (s *Server) Override(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = h
}

// Hits returns how many requests reached path
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests received on any path
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

// LastHeaders returns the headers of the most recent request
func (s *Server) LastHeaders() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.headers) == 0 {
		return nil
	}
	return s.headers[len(s.headers)-1]
}

// PowerCommands returns the power commands received so far
func (s *Server) PowerCommands() []PowerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PowerRecord(nil), s.power...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.headers = append(s.headers, r.Header.Clone())
		override := s.overrides[r.URL.Path]
		s.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware accepts only "Bearer <token>" matching the issued token
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		token := s.token
		s.mu.Unlock()

		parts := strings.Split(r.Header.Get("Authorization"), " ")
		if token == "" || len(parts) != 2 || parts[0] != "Bearer" || subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	ok := creds.Username == s.username && creds.Password == s.password
	token := s.token
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (s *Server) listSystems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	systems := s.systems
	s.mu.Unlock()

	if systems == nil {
		systems = []model.ManagedSystem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": systems})
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	devices := make([]model.ComputeDevice, 0)
	for _, sys := range s.systems {
		devices = append(devices, sys.ComputeDevices...)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"data": devices})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tasks := s.tasks
	s.mu.Unlock()

	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": tasks})
}

func (s *Server) setPowerState(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body struct {
		Action model.PowerAction `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.PowerHook != nil {
		s.PowerHook(id)
	}

	s.mu.Lock()
	found := false
	for i := range s.systems {
		for j := range s.systems[i].ComputeDevices {
			if s.systems[i].ComputeDevices[j].ID == id {
				found = true
			}
		}
	}
	s.power = append(s.power, PowerRecord{DeviceID: id, Action: body.Action})
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "compute device not found")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "accepted"})
}

// ApplyPower sets the power status of a device, as the backend would after a command
func (s *Server) ApplyPower(deviceID string, status model.PowerStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.systems {
		for j := range s.systems[i].ComputeDevices {
			if s.systems[i].ComputeDevices[j].ID == deviceID {
				s.systems[i].ComputeDevices[j].PowerStatus = status
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
