// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apitest provides an in-process stand-in for the remote REST API.
//
// The server issues HS256 JWT access/refresh tokens on login, stores records
// per collection in memory, and records every call it receives so tests can
// assert on method, path and payload.
package apitest

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Collections served by the fake API.
var Collections = []string{"postdoc", "educations", "trainings", "work-experiences"}

// Call is one request received by the server.
type Call struct {
	Method    string
	Path      string
	Query     string
	Auth      string
	RequestID string
	Body      map[string]any
}

type account struct {
	ID        int64
	Username  string
	Password  credential
	Email     string
	FirstName string
	LastName  string
	Tel       string
	IsStaff   json.RawMessage
}

func (a *account) userJSON() map[string]any {
	u := map[string]any{
		"id":         a.ID,
		"username":   a.Username,
		"email":      a.Email,
		"first_name": a.FirstName,
		"last_name":  a.LastName,
	}
	if len(a.IsStaff) > 0 {
		u["is_staff"] = a.IsStaff
	}
	return u
}

type failure struct {
	method string
	path   string
	status int
}

// Server is the fake API.
type Server struct {
	*httptest.Server

	secret []byte

	mu       sync.Mutex
	accounts map[string]*account
	nextUser int64
	records  map[string][]map[string]any
	nextID   map[string]int64
	calls    []Call
	failures []failure
}

// New starts a fake API server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		secret:   []byte("apitest-signing-key-0123456789abcdef"),
		accounts: make(map[string]*account),
		records:  make(map[string][]map[string]any),
		nextID:   make(map[string]int64),
		nextUser: 1,
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Post("/auth/login/", s.handleLogin)
	r.Post("/auth/register/", s.handleRegister)
	r.Get("/postdoc/search/", s.handleSearch)
	for _, c := range Collections {
		r.Get("/"+c+"/", s.handleList(c))
		r.Post("/"+c+"/", s.handleCreate(c))
		r.Get("/"+c+"/{id}/", s.handleGet(c))
		r.Put("/"+c+"/{id}/", s.handleUpdate(c))
	}

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddUser creates an account. isStaff is the raw JSON value returned as
// is_staff; empty leaves the key out of the login payload.
func (s *Server) AddUser(username, password, isStaff string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := &account{
		ID:        s.nextUser,
		Username:  username,
		Password:  newCredential(password),
		Email:     username + "@example.com",
		FirstName: username,
		IsStaff:   json.RawMessage(isStaff),
	}
	s.nextUser++
	s.accounts[username] = a
	return a.ID
}

// Seed stores a record in collection and returns its id.
func (s *Server) Seed(collection string, rec map[string]any) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(collection, rec)
}

// Records returns a copy of the records of collection.
func (s *Server) Records(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.records[collection]))
	copy(out, s.records[collection])
	return out
}

// Calls returns the calls received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// ResetCalls forgets the recorded calls.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Fail makes every request matching method and path answer with status.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status})
}

// Token mints a valid access token for user id.
func (s *Server) Token(userID int64) string {
	tok, err := s.sign(userID, "access", time.Hour)
	if err != nil {
		panic(err)
	}
	return tok
}

func (s *Server) sign(userID int64, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        strconv.FormatInt(userID, 10),
		"token_type": kind,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) verify(r *http.Request) (int64, bool) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return 0, false
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, false
	}
	if claims["token_type"] != "access" {
		return 0, false
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
		}
		if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid JSON"})
				return
			}
			call.Body = body
		}

		s.mu.Lock()
		s.calls = append(s.calls, call)
		status := 0
		for _, f := range s.failures {
			if f.method == r.Method && f.path == r.URL.Path {
				status = f.status
			}
		}
		s.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]any{"detail": http.StatusText(status)})
			return
		}

		next.ServeHTTP(w, r.WithContext(withBody(r.Context(), maps.Clone(call.Body))))
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	username, _ := body["username"].(string)
	password, _ := body["password"].(string)

	s.mu.Lock()
	a, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok || !a.Password.matches(password) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "No active account found with the given credentials"})
		return
	}

	access, err := s.sign(a.ID, "access", time.Hour)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": err.Error()})
		return
	}
	refresh, err := s.sign(a.ID, "refresh", 24*time.Hour)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access":  access,
		"refresh": refresh,
		"user":    a.userJSON(),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	str := func(k string) string { v, _ := body[k].(string); return v }

	if str("username") == "" || str("password") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"username": []string{"This field is required."}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[str("username")]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]any{"username": []string{"A user with that username already exists."}})
		return
	}

	a := &account{
		ID:        s.nextUser,
		Username:  str("username"),
		Password:  newCredential(str("password")),
		Email:     str("email"),
		FirstName: str("first_name"),
		LastName:  str("last_name"),
		Tel:       str("tel"),
	}
	s.nextUser++
	s.accounts[a.Username] = a
	writeJSON(w, http.StatusCreated, a.userJSON())
}

func (s *Server) handleList(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(collection, r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Authentication credentials were not provided."})
			return
		}
		writeJSON(w, http.StatusOK, s.Records(collection))
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	out := make([]map[string]any, 0)
	for _, rec := range s.Records("postdoc") {
		if q == "" || matches(rec, q) {
			out = append(out, rec)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func matches(rec map[string]any, q string) bool {
	for _, k := range []string{"first_name", "last_name", "skills", "position_interest", "province"} {
		if v, ok := rec[k].(string); ok && strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func (s *Server) handleGet(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(collection, r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Authentication credentials were not provided."})
			return
		}
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

		s.mu.Lock()
		idx := s.indexLocked(collection, id)
		var rec map[string]any
		if idx >= 0 {
			rec = s.records[collection][idx]
		}
		s.mu.Unlock()

		if rec == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleCreate(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.verify(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Authentication credentials were not provided."})
			return
		}
		rec := bodyFrom(r.Context())
		if rec == nil {
			rec = map[string]any{}
		}

		s.mu.Lock()
		s.insertLocked(collection, rec)
		s.mu.Unlock()

		writeJSON(w, http.StatusCreated, rec)
	}
}

func (s *Server) handleUpdate(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.verify(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Authentication credentials were not provided."})
			return
		}
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		rec := bodyFrom(r.Context())
		if rec == nil {
			rec = map[string]any{}
		}
		rec["id"] = float64(id)

		s.mu.Lock()
		idx := s.indexLocked(collection, id)
		if idx >= 0 {
			s.records[collection][idx] = rec
		}
		s.mu.Unlock()

		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// The directory listing is public; every other collection needs a token.
func (s *Server) authorized(collection string, r *http.Request) bool {
	if collection == "postdoc" && r.Header.Get("Authorization") == "" {
		return true
	}
	_, ok := s.verify(r)
	return ok
}

func (s *Server) insertLocked(collection string, rec map[string]any) int64 {
	s.nextID[collection]++
	id := s.nextID[collection]
	rec["id"] = float64(id)
	s.records[collection] = append(s.records[collection], rec)
	return id
}

func (s *Server) indexLocked(collection string, id int64) int {
	for i, rec := range s.records[collection] {
		if v, ok := rec["id"].(float64); ok && int64(v) == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Path builds a collection path, optionally addressed by id.
func Path(collection string, id int64) string {
	if id == 0 {
		return fmt.Sprintf("/%s/", collection)
	}
	return fmt.Sprintf("/%s/%d/", collection, id)
}
