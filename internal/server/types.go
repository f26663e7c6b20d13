package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"keyfix/internal/corrector"
)

// WordStore is the custom dictionary the service edits.
type WordStore interface {
	Add(ctx context.Context, word string) error
	Remove(ctx context.Context, word string) error
	All(ctx context.Context) ([]string, error)
}

// Builder constructs an engine that also knows the given custom words.
type Builder func(customWords []string) (*corrector.Engine, error)

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine   atomic.Pointer[corrector.Engine]
	reloadMu sync.Mutex

	build         Builder
	store         WordStore
	corsOrigin    string
	maxBodyBytes  int64
	batchWorkers  int
	maxBatchItems int
	log           *slog.Logger
}

// Config holds server configuration.
type Config struct {
	CORSOrigin    string
	MaxBodyBytes  int64
	BatchWorkers  int
	MaxBatchItems int
	Build         Builder      // nil builds with corrector.DefaultConfig
	Store         WordStore    // nil disables the custom-word endpoints
	Logger        *slog.Logger // nil means slog.Default()
}

// Response types for API endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Layout string `json:"layout"`
	Time   string `json:"time"`
}

type TextRequest struct {
	Text string `json:"text"`
}

type FixResponse struct {
	RequestID string `json:"request_id"`
	corrector.FixResult
}

type AnalyzeResponse struct {
	RequestID string `json:"request_id"`
	corrector.Analysis
}

type CleanResponse struct {
	RequestID string `json:"request_id"`
	Original  string `json:"original"`
	Text      string `json:"text"`
}

type BatchRequest struct {
	Texts     []string `json:"texts"`
	Operation string   `json:"operation,omitempty"` // defaults to layout-fix
	Workers   int      `json:"workers,omitempty"`
}

type BatchResponse struct {
	RequestID string                  `json:"request_id"`
	Operation corrector.Operation     `json:"operation"`
	Count     int                     `json:"count"`
	Failed    int                     `json:"failed"`
	Results   []corrector.BatchResult `json:"results"`
}

type WordRequest struct {
	Word string `json:"word"`
}

type WordResponse struct {
	Status string `json:"status"`
	Word   string `json:"word"`
}

type WordsResponse struct {
	Words []string `json:"words"`
	Count int      `json:"count"`
}
