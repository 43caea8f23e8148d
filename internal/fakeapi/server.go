// Package fakeapi is an in-memory stand-in for the reporting backend. Tests
// point the client at it, and `alerta --demo` runs the TUI against it.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// Request is a recorded call, kept for assertions.
type Request struct {
	Method string
	Path   string
	JSON   map[string]any
	Form   map[string][]string
	Files  []File
}

// File is one uploaded multipart file.
type File struct {
	Field       string
	Name        string
	ContentType string
	Size        int
}

type channel struct {
	ID          int64
	Name        string
	Subscribers map[string]bool
}

type emergency struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Channel     *int64   `json:"channel"`
	Reporter    string   `json:"reporter"`
	Images      []string `json:"images"`
}

// Backend holds the fake state and serves the API routes.
type Backend struct {
	mu          sync.Mutex
	users       map[string]string
	channels    map[int64]*channel
	emergencies []emergency
	nextID      int64
	requests    []Request
	router      *mux.Router

	// set by FailNext; consumed by the next request
	failStatus int
	failBody   string
}

func NewBackend() *Backend {
	b := &Backend{
		users:    map[string]string{},
		channels: map[int64]*channel{},
		nextID:   1,
	}
	r := mux.NewRouter()
	r.Use(b.record)
	r.HandleFunc("/api/login_movil/", b.login).Methods(http.MethodPost)
	r.HandleFunc("/api/registro/", b.register).Methods(http.MethodPost)
	r.HandleFunc("/api/{userId}/subscriptions/", b.subscriptions).Methods(http.MethodGet)
	r.HandleFunc("/api/{userId}/notSuscribedChannels/", b.notSubscribed).Methods(http.MethodGet)
	r.HandleFunc("/api/suscribirse/", b.membership(true)).Methods(http.MethodPost)
	r.HandleFunc("/api/unsuscribe/", b.membership(false)).Methods(http.MethodPost)
	r.HandleFunc("/api/{channelId:[0-9]+}/emergencies", b.listEmergencies).Methods(http.MethodGet)
	r.HandleFunc("/api/create_emergency/", b.createEmergency).Methods(http.MethodPost)
	b.router = r
	return b
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Server wraps a Backend in an httptest server.
type Server struct {
	*Backend
	URL string
	srv *httptest.Server
}

// NewServer starts a fake backend on a loopback port.
func NewServer() *Server {
	b := NewBackend()
	srv := httptest.NewServer(b)
	return &Server{Backend: b, URL: srv.URL, srv: srv}
}

func (s *Server) Close() { s.srv.Close() }

// AddUser registers an account directly.
func (b *Backend) AddUser(email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = password
}

// AddChannel creates a channel with optional initial subscribers.
func (b *Backend) AddChannel(name string, subscribers ...string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := &channel{ID: id, Name: name, Subscribers: map[string]bool{}}
	for _, s := range subscribers {
		ch.Subscribers[s] = true
	}
	b.channels[id] = ch
	return id
}

// AddEmergency stores a report directly.
func (b *Backend) AddEmergency(channelID int64, title, description, reporter string, images ...string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	cid := channelID
	b.emergencies = append(b.emergencies, emergency{ID: id, Title: title, Description: description, Channel: &cid, Reporter: reporter, Images: images})
	return id
}

// FailNext makes the next request fail with status and body.
func (b *Backend) FailNext(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failStatus = status
	b.failBody = body
}

// IsSubscribed reports whether user is subscribed to channelID.
func (b *Backend) IsSubscribed(channelID int64, user string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.channels[channelID]
	return ok && ch.Subscribers[user]
}

// Requests returns a copy of the recorded requests.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest returns the most recent request to path.
func (b *Backend) LastRequest(path string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if b.requests[i].Path == path {
			return b.requests[i], true
		}
	}
	return Request{}, false
}

// Seed fills the backend with a demo account and a few channels.
func (b *Backend) Seed() {
	b.AddUser("demo@alerta.test", "demo")
	fire := b.AddChannel("Bomberos Centro", "demo@alerta.test")
	b.AddChannel("Protección Civil")
	b.AddChannel("Tráfico Norte")
	b.AddEmergency(fire, "Incendio en nave", "Humo visible desde la autovía.", "vecino@alerta.test")
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{Method: r.Method, Path: r.URL.Path}
		ct := r.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(ct, "application/json"):
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &rec.JSON)
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		case strings.HasPrefix(ct, "multipart/form-data"):
			if err := r.ParseMultipartForm(32 << 20); err == nil {
				rec.Form = r.MultipartForm.Value
				for field, files := range r.MultipartForm.File {
					for _, fh := range files {
						rec.Files = append(rec.Files, File{Field: field, Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Size: int(fh.Size)})
					}
				}
			}
		}
		b.mu.Lock()
		b.requests = append(b.requests, rec)
		status, body := b.failStatus, b.failBody
		b.failStatus, b.failBody = 0, ""
		b.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	pw, ok := b.users[in.Email]
	b.mu.Unlock()
	if !ok || pw != in.Password {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "Invalid credentials")
		return
	}
	_, _ = io.WriteString(w, "Login successful")
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[in.Email]; exists {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Email already registered")
		return
	}
	b.users[in.Email] = in.Password
	w.WriteHeader(http.StatusCreated)
	_, _ = io.WriteString(w, "User registered")
}

func (b *Backend) subscriptions(w http.ResponseWriter, r *http.Request) {
	b.writeChannels(w, mux.Vars(r)["userId"], true)
}

func (b *Backend) notSubscribed(w http.ResponseWriter, r *http.Request) {
	b.writeChannels(w, mux.Vars(r)["userId"], false)
}

func (b *Backend) writeChannels(w http.ResponseWriter, user string, subscribed bool) {
	b.mu.Lock()
	out := make([]map[string]any, 0, len(b.channels))
	for _, ch := range b.channels {
		if ch.Subscribers[user] != subscribed {
			continue
		}
		subs := make([]string, 0, len(ch.Subscribers))
		for s := range ch.Subscribers {
			subs = append(subs, s)
		}
		sort.Strings(subs)
		nameKey := "name"
		if !subscribed {
			nameKey = "nombre"
		}
		out = append(out, map[string]any{"id": ch.ID, nameKey: ch.Name, "subscribers": subs})
	}
	b.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i]["id"].(int64) < out[j]["id"].(int64) })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) membership(join bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ChannelID int64  `json:"channel_id"`
			UserID    string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		ch, ok := b.channels[in.ChannelID]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Canal no encontrado"})
			return
		}
		if join {
			ch.Subscribers[in.UserID] = true
			writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Suscripción realizada"})
			return
		}
		delete(ch.Subscribers, in.UserID)
		writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Suscripción cancelada"})
	}
}

func (b *Backend) listEmergencies(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["channelId"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid channel"})
		return
	}
	b.mu.Lock()
	out := []emergency{}
	for _, e := range b.emergencies {
		if e.Channel != nil && *e.Channel == id {
			out = append(out, e)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createEmergency(w http.ResponseWriter, r *http.Request) {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"mensaje": "Formulario inválido"})
			return
		}
	}
	title := r.FormValue("title")
	if strings.TrimSpace(title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"mensaje": "El título es obligatorio"})
		return
	}
	var channelID *int64
	if raw := r.FormValue("channel_id"); raw != "" && raw != "null" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"mensaje": "Canal inválido"})
			return
		}
		channelID = &n
	}
	var images []string
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			images = append(images, "/media/"+fh.Filename)
		}
	}
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.emergencies = append(b.emergencies, emergency{
		ID:          id,
		Title:       title,
		Description: r.FormValue("description"),
		Channel:     channelID,
		Reporter:    r.FormValue("reporter_id"),
		Images:      images,
	})
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{
		"mensaje":    fmt.Sprintf("Emergencia %q creada", title),
		"emergencia": map[string]any{"id": id},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
