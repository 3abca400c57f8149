package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

func (rt *Router) queryDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	userID, ok := rt.identity(w, r)
	if !ok {
		return
	}

	var req struct {
		Query       string   `json:"query"`
		DocumentIDs []string `json:"document_ids"`
		CategoryIDs []string `json:"category_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	start := time.Now()
	result, err := rt.query.AnswerQuestion(r.Context(), userID, req.Query, req.DocumentIDs, req.CategoryIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.serverMetrics != nil {
		rt.serverMetrics.RecordQuery(rt.serviceName, len(result.Sources), time.Since(start))
	}

	writeJSON(w, http.StatusOK, result)
}
