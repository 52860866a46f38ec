// Package clienttest provides an in-process fake of the banking API for tests.
package clienttest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/brojonat/compte/client"
)

// Request is a request the fake API received.
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	RequestID     string
	Body          []byte
}

// Server is a fake banking API backed by in-memory state.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	requests     []Request
	users        map[string]string // email -> password
	accounts     map[string][]client.Account
	transactions map[string][]client.Transaction
	failures     map[string]int
	gates        map[string]chan struct{}
}

// NewServer starts a fake API that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		users:        make(map[string]string),
		accounts:     make(map[string][]client.Account),
		transactions: make(map[string][]client.Transaction),
		failures:     make(map[string]int),
		gates:        make(map[string]chan struct{}),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// TokenFor returns the token the fake issues for email.
func TokenFor(email string) string {
	return "token-" + email
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Bienvenue sur l'API BackFrontDevops"})
	})
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/me", s.handleMe)
		r.Put("/user/password", s.handleUpdatePassword)
		r.Get("/accounts", s.handleListAccounts)
		r.Post("/account_add/", s.handleAddAccount)
		r.Get("/compte/{iban}", s.handleGetAccount)
		r.Post("/deposit", s.handleDeposit)
		r.Get("/transactionsUserFilter/{filter}", s.handleTransactions)
		r.Get("/transactionsFilter/{iban}/{filter}", s.handleTransactions)
	})
	return r
}

// AddUser registers a user directly.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// AddAccount attaches an account to a user.
func (s *Server) AddAccount(email string, account client.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = append(s.accounts[email], account)
}

// SetTransactions scripts the response for the endpoint f resolves to.
func (s *Server) SetTransactions(f client.Filter, txs []client.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[pathKey(f.Path())] = txs
}

// Fail makes the endpoint f resolves to answer with status until cleared with status 0.
func (s *Server) Fail(f client.Filter, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pathKey(f.Path())
	if status == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = status
}

// Hold blocks responses for the endpoint f resolves to until the returned
// release func is called.
func (s *Server) Hold(f client.Filter) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gates[pathKey(f.Path())] = gate
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the requests received for the endpoint f resolves to.
func (s *Server) RequestsTo(f client.Filter) []Request {
	key := pathKey(f.Path())
	var out []Request
	for _, req := range s.Requests() {
		if req.Path == key {
			out = append(out, req)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := s.emailForHeader(r.Header.Get("Authorization"))
		if !ok {
			writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Not authenticated"})
			return
		}
		r.Header.Set("X-Test-User", email)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) emailForHeader(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	email, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, known := s.users[email]
	return email, known
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	password := r.URL.Query().Get("mdp")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		writeJSON(w, http.StatusOK, map[string]string{"message": "L'email est déjà utilisé"})
		return
	}
	if password == "" {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Le mot de passe est requis"})
		return
	}
	s.users[email] = password
	writeJSON(w, http.StatusOK, map[string]string{"message": "Utilisateur créé avec succès"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Mdp   string `json:"mdp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	password, ok := s.users[body.Email]
	s.mu.Unlock()
	if !ok || password != body.Mdp {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Email ou mdp incorrect"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": TokenFor(body.Email)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	email := r.Header.Get("X-Test-User")
	s.mu.Lock()
	count := len(s.accounts[email])
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":             map[string]interface{}{"id": 1, "email": email},
		"Nombre de compte": count,
	})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	email := r.Header.Get("X-Test-User")
	var body struct {
		Old string `json:"old_mdp"`
		New string `json:"new_mdp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users[email] != body.Old {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Mot de passe actuel incorrect"})
		return
	}
	s.users[email] = body.New
	writeJSON(w, http.StatusOK, map[string]string{"message": "Mot de passe mis à jour"})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	email := r.Header.Get("X-Test-User")
	s.mu.Lock()
	accounts := append([]client.Account{}, s.accounts[email]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleAddAccount(w http.ResponseWriter, r *http.Request) {
	email := r.Header.Get("X-Test-User")
	var account client.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	account.ID = int64(len(s.accounts[email]) + 1)
	account.UserID = 1
	s.accounts[email] = append(s.accounts[email], account)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	email := r.Header.Get("X-Test-User")
	account, ok := s.findAccount(email, chi.URLParam(r, "iban"))
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Compte introuvable"})
		return
	}
	writeJSON(w, http.StatusOK, client.AccountDetail{
		Name:    account.Name,
		IBAN:    account.IBAN,
		UserID:  account.UserID,
		Balance: account.Balance,
		OnGoing: []client.HistoryEntry{},
		History: []client.HistoryEntry{
			{Date: "2022-01-01", Amount: 5000, Type: "Débit"},
			{Date: "2022-01-04", Amount: 1000, Type: "Crédit"},
		},
	})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	email := r.Header.Get("X-Test-User")
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid amount"})
		return
	}
	if amount <= 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Le montant doit être supérieur à zéro"})
		return
	}

	iban := r.URL.Query().Get("iban_dest")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, account := range s.accounts[email] {
		if account.IBAN == iban {
			s.accounts[email][i].Balance += amount
			writeJSON(w, http.StatusOK, map[string]string{
				"message": fmt.Sprintf("Dépot de %v euros réussi. Il vous reste %v.", amount, s.accounts[email][i].Balance),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Compte introuvable"})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path

	s.mu.Lock()
	gate := s.gates[key]
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	status, failing := s.failures[key]
	txs, ok := s.transactions[key]
	s.mu.Unlock()

	if failing {
		writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
		return
	}
	if !ok {
		txs = []client.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) findAccount(email, iban string) (client.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts[email] {
		if account.IBAN == iban {
			return account, true
		}
	}
	return client.Account{}, false
}

// pathKey turns an escaped endpoint into the decoded path the server sees.
func pathKey(escaped string) string {
	p, err := url.PathUnescape(escaped)
	if err != nil {
		return escaped
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
