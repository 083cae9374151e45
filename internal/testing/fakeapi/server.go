// Package fakeapi is an in-memory implementation of the inventory backend
// REST contract, used by tests and by cmd/fakeapi for local development.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/stockdesk/stockdesk/internal/platform/httpx"
	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// Shape selects how a collection answers list requests.
type Shape int

const (
	// ShapePaginated answers with {success, message, data, meta}.
	ShapePaginated Shape = iota
	// ShapeDataOnly answers with {data: [...]}.
	ShapeDataOnly
	// ShapeBare answers with a JSON array.
	ShapeBare
)

// Rule validates a posted record and returns field messages.
type Rule func(record map[string]any) map[string]string

// Record is one stored entity.
type Record = map[string]any

type collection struct {
	records map[int64]Record
	nextID  int64
	shape   Shape
	rule    Rule
}

type forced struct {
	status int
	times  int
}

// Server holds all fake backend state.
type Server struct {
	mu          sync.Mutex
	collections map[string]*collection
	stats       map[string]any
	users       map[string]user
	tokens      map[string]string
	failures    map[string]*forced
	requests    atomic.Int64
	nextToken   int
}

type user struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	password string
}

// Collections served by the fake backend.
var Collections = []string{"products", "categories", "suppliers", "orders"}

// New returns an empty backend.
func New() *Server {
	s := &Server{
		collections: make(map[string]*collection),
		stats:       make(map[string]any),
		users:       make(map[string]user),
		tokens:      make(map[string]string),
		failures:    make(map[string]*forced),
	}
	for _, name := range Collections {
		s.collections[name] = &collection{records: make(map[int64]Record)}
	}
	s.collections["categories"].shape = ShapeDataOnly
	return s
}

// Handler exposes the REST routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count, s.injectFailures)
	r.Post("/login", s.login)
	r.Post("/register", s.register)
	r.Post("/logout", s.logout)
	r.Get("/dashboard", s.stat("dashboard"))
	r.Get("/stats/{name}", func(w http.ResponseWriter, r *http.Request) {
		s.stat("stats/"+chi.URLParam(r, "name"))(w, r)
	})
	r.Route("/{collection}", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{id}", s.get)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.remove)
	})
	return r
}

// Requests returns the number of requests received so far.
func (s *Server) Requests() int {
	return int(s.requests.Load())
}

// Seed stores records and returns their ids.
func (s *Server) Seed(name string, records ...Record) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collections[name]
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, col.insert(rec))
	}
	return ids
}

// SetShape changes the list response shape of a collection.
func (s *Server) SetShape(name string, shape Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name].shape = shape
}

// SetRule installs server-side validation for a collection.
func (s *Server) SetRule(name string, rule Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name].rule = rule
}

// SetStat stores the payload returned by /dashboard or /stats/{name}.
func (s *Server) SetStat(path string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[strings.Trim(path, "/")] = payload
}

// Fail forces the next n requests to method+path to answer with status.
func (s *Server) Fail(method, path string, status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = &forced{status: status, times: n}
}

// AddUser registers credentials accepted by /login.
func (s *Server) AddUser(name, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	s.users[email] = user{ID: int64(len(s.users) + 1), Name: name, Email: email, password: password}
}

// Record returns a stored entity.
func (s *Server) Record(name string, id int64) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.collections[name].records[id]
	return rec, ok
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f := s.failures[r.Method+" "+r.URL.Path]
		status := 0
		if f != nil && f.times > 0 {
			f.times--
			status = f.status
		}
		s.mu.Unlock()
		if status != 0 {
			httpx.JSON(w, status, map[string]any{"success": false, "message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) collection(w http.ResponseWriter, r *http.Request) (*collection, bool) {
	col, ok := s.collections[chi.URLParam(r, "collection")]
	if !ok {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown collection")
	}
	return col, ok
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	all := col.sorted()
	switch col.shape {
	case ShapeBare:
		httpx.JSON(w, http.StatusOK, all)
		return
	case ShapeDataOnly:
		httpx.JSON(w, http.StatusOK, map[string]any{"data": all})
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	meta := pagination.NewMeta(page, perPage, len(all))
	start := (meta.CurrentPage - 1) * meta.PerPage
	end := start + meta.PerPage
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "ok",
		"data":    all[start:end],
		"meta":    meta,
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	rec, ok := col.lookup(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": rec})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := httpx.DecodeJSON(r, &rec); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	if !col.check(w, rec) {
		return
	}
	id := col.insert(rec)
	httpx.JSON(w, http.StatusCreated, col.records[id])
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := httpx.DecodeJSON(r, &rec); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	existing, ok := col.lookup(w, r)
	if !ok {
		return
	}
	if !col.check(w, rec) {
		return
	}
	rec["id"] = existing["id"]
	id, _ := toInt64(existing["id"])
	col.records[id] = rec
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": rec})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collection(w, r)
	if !ok {
		return
	}
	rec, ok := col.lookup(w, r)
	if !ok {
		return
	}
	id, _ := toInt64(rec["id"])
	delete(col.records, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) stat(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		payload, ok := s.stats[key]
		s.mu.Unlock()
		if !ok {
			httpx.Problem(w, http.StatusNotFound, "Not Found", key)
			return
		}
		httpx.JSON(w, http.StatusOK, payload)
	}
}

func (c *collection) insert(rec Record) int64 {
	c.nextID++
	stored := make(Record, len(rec)+1)
	for k, v := range rec {
		stored[k] = v
	}
	stored["id"] = c.nextID
	c.records[c.nextID] = stored
	return c.nextID
}

func (c *collection) sorted() []Record {
	ids := make([]int64, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.records[id])
	}
	return out
}

func (c *collection) lookup(w http.ResponseWriter, r *http.Request) (Record, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "invalid id")
		return nil, false
	}
	rec, ok := c.records[id]
	if !ok {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "record not found")
		return nil, false
	}
	return rec, true
}

func (c *collection) check(w http.ResponseWriter, rec Record) bool {
	if c.rule == nil {
		return true
	}
	fields := c.rule(rec)
	if len(fields) == 0 {
		return true
	}
	errs := make(map[string][]string, len(fields))
	for k, v := range fields {
		errs[k] = []string{v}
	}
	httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
	return false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
