package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amityadav/smartsearch/internal/config"
	"github.com/amityadav/smartsearch/internal/store"
)

// researchTimeout bounds one research run end to end. Async backends
// can poll for minutes, so this is deliberately generous.
const researchTimeout = 10 * time.Minute

// Researcher answers one natural-language question.
type Researcher interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Services groups all service dependencies for REST handlers
type Services struct {
	Researcher Researcher
	Store      *store.PostgresStore // nil when no DATABASE_URL is configured
}

type researchRequest struct {
	Query string `json:"query"`
}

type researchResponse struct {
	Answer string `json:"answer"`
}

type historyEntry struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRESTHandler creates REST API endpoints
func CreateRESTHandler(services Services, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		switch r.URL.Path {
		case "/api/research":
			handleResearch(w, r, services)
		case "/api/history":
			handleHistory(w, r, services.Store, cfg.ResearchAPIKey)
		case "/api/healthz":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status": "ok"}`))
		default:
			http.NotFound(w, r)
		}
	}
}

func handleResearch(w http.ResponseWriter, r *http.Request, services Services) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		http.Error(w, `{"error": "Please enter a valid query."}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), researchTimeout)
	defer cancel()

	answer, err := services.Researcher.Answer(ctx, query)
	if err != nil {
		log.Printf("[REST] Research failed: %v", err)
		http.Error(w, `{"error": "Internal Server Error. Check logs."}`, http.StatusInternalServerError)
		return
	}

	if services.Store != nil {
		if _, err := services.Store.SaveResearch(r.Context(), query, answer); err != nil {
			// History is best-effort; the answer still goes out.
			log.Printf("[REST] Failed to save research history: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(researchResponse{Answer: answer})
}

func handleHistory(w http.ResponseWriter, r *http.Request, st *store.PostgresStore, apiKey string) {
	if apiKey == "" || r.Header.Get("X-API-Key") != apiKey {
		http.Error(w, `{"error": "unauthorized - invalid or missing X-API-Key header"}`, http.StatusUnauthorized)
		return
	}
	if st == nil {
		http.Error(w, `{"error": "research history is disabled (no database configured)"}`, http.StatusServiceUnavailable)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := st.RecentResearch(r.Context(), limit)
	if err != nil {
		log.Printf("[REST] Failed to load research history: %v", err)
		http.Error(w, `{"error": "failed to load history"}`, http.StatusInternalServerError)
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, historyEntry{
			ID:        rec.ID,
			Query:     rec.Query,
			Answer:    rec.Answer,
			CreatedAt: rec.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
