package main

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"dscheirer.com/segclock/effects"
	"dscheirer.com/segclock/max72xx"
	"github.com/gorilla/mux"
)

type statusResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Position int    `json:"position"`
	Digits   int    `json:"digits"`
	Frames   int    `json:"frames"`
	Overruns int    `json:"overruns"`
	Updated  string `json:"updated,omitempty"`
	Segments string `json:"segments,omitempty"` // hex, one byte per digit
}

type statusService interface {
	launch(handler *apiHandler, addr string)
	stop()
}

// apiHandler - everything the HTTP handlers need
type apiHandler struct {
	rt     runtimeConfig
	user   string
	secret string
	realm  string
}

func newHandler(rt runtimeConfig) *apiHandler {
	return &apiHandler{
		rt:     rt,
		user:   rt.settings.GetString(sAPIUser),
		secret: rt.settings.GetString(sAPISecret),
		realm:  "segclock",
	}
}

// BasicAuth - only lets requests through with the configured user and
// secret. No secret, no auth.
func (m *apiHandler) BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(m.user)) != 1 || subtle.ConstantTimeCompare([]byte(pass), []byte(m.secret)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+m.realm+`"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorised.\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *apiHandler) getStatus() statusResponse {
	snap := m.rt.status.snapshot()
	sr := statusResponse{
		Response: "OK",
		Mode:     effects.ModeName(snap.Mode),
		Position: snap.Position,
		Digits:   len(snap.Frame),
		Frames:   snap.Frames,
		Overruns: snap.Overruns,
		Segments: hex.EncodeToString(snap.Frame),
	}
	if snap.Frames == 0 {
		// nothing drawn yet
		sr.Mode = ""
	} else {
		sr.Updated = snap.Updated.Format(time.RFC3339Nano)
	}
	return sr
}

func writeAnswer(w http.ResponseWriter, code int, sr statusResponse) {
	output, _ := json.Marshal(sr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(output)
}

func (m *apiHandler) apiStatus(w http.ResponseWriter, r *http.Request) {
	writeAnswer(w, http.StatusOK, m.getStatus())
}

// apiMode queues a clock mode change for the display loop. Whether it fits
// the display shows up in the next status.
func (m *apiHandler) apiMode(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["mode"]
	mode, err := effects.ParseMode(name)
	if err != nil {
		writeAnswer(w, http.StatusBadRequest, statusResponse{Response: "BAD", Error: err.Error()})
		return
	}

	select {
	case m.rt.comms.clockMode <- mode:
		m.rt.logger.Printf("queued clock mode %s", name)
		writeAnswer(w, http.StatusAccepted, statusResponse{Response: "OK", Mode: name})
	default:
		writeAnswer(w, http.StatusServiceUnavailable, statusResponse{Response: "BAD", Error: "mode change already pending"})
	}
}

// rootHandler draws the last frame as ASCII segments
func (m *apiHandler) rootHandler(w http.ResponseWriter, r *http.Request) {
	snap := m.rt.status.snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for start := 0; start < len(snap.Frame); start += termDigitsPerRow {
		end := start + termDigitsPerRow
		if end > len(snap.Frame) {
			end = len(snap.Frame)
		}
		w.Write([]byte(strings.Join(max72xx.DumpLines(snap.Frame[start:end]), "\n") + "\n\n"))
	}
}

func newRouter(handler *apiHandler) *mux.Router {
	r := mux.NewRouter()

	// auth middleware
	r.Use(handler.BasicAuth)
	// api server
	r.HandleFunc("/api/status", handler.apiStatus).Methods("GET")
	r.HandleFunc("/api/mode/{mode}", handler.apiMode).Methods("POST")
	// root handler
	r.HandleFunc("/", handler.rootHandler).Methods("GET")
	return r
}

func startStatusService(rt runtimeConfig, svc statusService, addr string) {
	rt.logger = &ThreadLogger{name: "Status"}
	wg.Add(1)
	go runStatusService(rt, svc, addr)
}

func runStatusService(rt runtimeConfig, svc statusService, addr string) {
	defer wg.Done()

	handler := newHandler(rt)
	svc.launch(handler, addr)

	// nothing else to do until it's time to stop
	<-rt.comms.quit
	rt.logger.Println("quit from status service")
	svc.stop()
}
