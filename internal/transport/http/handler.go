package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"exam-portal/internal/app"
	"exam-portal/internal/domain"
)

// LeaderboardObserver receives leaderboard computation timings (e.g. metrics.Recorder).
type LeaderboardObserver interface {
	ObserveLeaderboard(d time.Duration)
}

// Handler serves the assessment REST API.
type Handler struct {
	services *app.Services
	auth     *Authenticator
	observer LeaderboardObserver
}

func NewHandler(services *app.Services, auth *Authenticator, observer LeaderboardObserver) *Handler {
	return &Handler{services: services, auth: auth, observer: observer}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tests", h.authenticated(h.listTests))
	mux.HandleFunc("POST /api/tests", h.authenticated(h.adminOnly(h.createTest)))
	mux.HandleFunc("POST /api/tests/submit", h.authenticated(h.submitTest))
	mux.HandleFunc("GET /api/tests/results", h.authenticated(h.getResults))
	mux.HandleFunc("GET /api/users/leaderboard", h.authenticated(h.getLeaderboard))
}

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type submitRequest struct {
	TestID    string          `json:"testId"`
	Answers   []domain.Answer `json:"answers"`
	TimeTaken int             `json:"timeTaken"`
}

type callerHandler func(w http.ResponseWriter, r *http.Request, caller domain.Caller)

func (h *Handler) authenticated(next callerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := h.auth.Caller(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, caller)
	}
}

func (h *Handler) adminOnly(next callerHandler) callerHandler {
	return func(w http.ResponseWriter, r *http.Request, caller domain.Caller) {
		if !caller.IsAdmin() {
			writeError(w, domain.ErrForbidden)
			return
		}
		next(w, r, caller)
	}
}

func (h *Handler) listTests(w http.ResponseWriter, r *http.Request, _ domain.Caller) {
	branch := domain.Branch(r.URL.Query().Get("branch"))
	tests, err := h.services.Catalog.ListTests(r.Context(), branch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Tests retrieved", Data: tests})
}

func (h *Handler) createTest(w http.ResponseWriter, r *http.Request, caller domain.Caller) {
	var in domain.NewTest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, domain.NewValidationError("invalid request body"))
		return
	}
	test, err := h.services.Catalog.CreateTest(r.Context(), caller.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Test created successfully", Data: test})
}

func (h *Handler) submitTest(w http.ResponseWriter, r *http.Request, caller domain.Caller) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body"))
		return
	}
	result, err := h.services.Grader.GradeSubmission(r.Context(), domain.Submission{
		LearnerID: caller.UserID,
		TestID:    req.TestID,
		Answers:   req.Answers,
		TimeTaken: req.TimeTaken,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Test submitted successfully", Data: result})
}

func (h *Handler) getResults(w http.ResponseWriter, r *http.Request, caller domain.Caller) {
	results, err := h.services.Results.FindByLearner(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Results retrieved", Data: results})
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request, _ domain.Caller) {
	start := time.Now()
	entries, err := h.services.Leaderboard.Compute(r.Context(), app.DefaultLeaderboardSize)
	if h.observer != nil {
		h.observer.ObserveLeaderboard(time.Since(start))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Leaderboard retrieved", Data: entries})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError maps domain errors onto status codes; anything unexpected is logged and hidden.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	switch {
	case domain.IsValidation(err):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrTestNotFound):
		status, message = http.StatusNotFound, "Test not found"
	case errors.Is(err, domain.ErrUnauthorized):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status, message = http.StatusForbidden, "Not authorized as an admin"
	default:
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, envelope{Success: false, Message: message})
}
