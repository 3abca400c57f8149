package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
	"github.com/akramarenko/legaldocs-ai/internal/observability/metrics"
)

const userIDHeader = "X-User-Id"

type Router struct {
	ingestor ports.DocumentIngestor
	reader   ports.DocumentReader
	query    ports.DocumentQueryService
	remover  ports.DocumentRemover

	serverMetrics *metrics.HTTPServerMetrics

	serviceName      string
	maxUploadBytes   int64
	rateLimitRPS     float64
	rateLimitBurst   int
	maxConcurrent    int
	backpressureWait time.Duration
}

type RouterOption func(*Router)

func WithServerMetrics(m *metrics.HTTPServerMetrics) RouterOption {
	return func(rt *Router) {
		rt.serverMetrics = m
	}
}

func WithRateLimit(rps float64, burst int) RouterOption {
	return func(rt *Router) {
		rt.rateLimitRPS = rps
		rt.rateLimitBurst = burst
	}
}

func WithBackpressure(maxConcurrent int, wait time.Duration) RouterOption {
	return func(rt *Router) {
		rt.maxConcurrent = maxConcurrent
		rt.backpressureWait = wait
	}
}

func NewRouter(
	serviceName string,
	ingestor ports.DocumentIngestor,
	reader ports.DocumentReader,
	query ports.DocumentQueryService,
	remover ports.DocumentRemover,
	maxUploadBytes int64,
	opts ...RouterOption,
) *Router {
	rt := &Router{
		ingestor:       ingestor,
		reader:         reader,
		query:          query,
		remover:        remover,
		serviceName:    serviceName,
		maxUploadBytes: maxUploadBytes,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.documentsCollection)
	mux.HandleFunc("/v1/documents/", rt.documentsSubtree)
	mux.HandleFunc("/v1/query", rt.queryDocuments)
	mux.HandleFunc("/v1/categories", rt.listCategories)

	var handler http.Handler = mux
	if rt.maxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.maxConcurrent, rt.backpressureWait)
	}
	if rt.rateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	}
	if rt.serverMetrics != nil {
		handler = rt.serverMetrics.Middleware(rt.serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) documentsSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	switch {
	case rest == "bulk":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		rt.uploadBulk(w, r)
	case rest == "stats":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		rt.documentStats(w, r)
	case strings.HasSuffix(rest, "/status"):
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		rt.documentStatus(w, r, strings.TrimSuffix(rest, "/status"))
	default:
		switch r.Method {
		case http.MethodGet:
			rt.getDocument(w, r, rest)
		case http.MethodDelete:
			rt.deleteDocument(w, r, rest)
		default:
			writeMethodNotAllowed(w)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
