package httpadapter

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
	"github.com/akramarenko/legaldocs-ai/internal/core/ports"
)

// multipartOverheadBytes pads the transport cap so a file right at the size
// limit is rejected by validation with a clear message instead of a broken
// multipart read.
const multipartOverheadBytes = 1 << 20

func (rt *Router) identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "X-User-Id header is required"})
		return "", false
	}
	return userID, true
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := rt.identity(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes+multipartOverheadBytes)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(r.Context(), userID, candidateFromHeader(file, fileHeader))
	if rt.serverMetrics != nil {
		rt.serverMetrics.RecordUpload(rt.serviceName, fileHeader.Size, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) uploadBulk(w http.ResponseWriter, r *http.Request) {
	userID, ok := rt.identity(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart request"})
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'files' is required"})
		return
	}

	candidates := make([]ports.UploadCandidate, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, file := range opened {
			_ = file.Close()
		}
	}()
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable multipart file: " + header.Filename})
			return
		}
		opened = append(opened, file)
		candidates = append(candidates, candidateFromHeader(file, header))
	}

	report, err := rt.ingestor.UploadBulk(r.Context(), userID, candidates)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, report)
}

func candidateFromHeader(file multipart.File, header *multipart.FileHeader) ports.UploadCandidate {
	return ports.UploadCandidate{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Body:     file,
	}
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := rt.identity(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	offset := parseIntParam(query.Get("offset"), 0)
	limit := parseIntParam(query.Get("limit"), 50)

	docs, err := rt.reader.List(r.Context(), userID, domain.DocumentStatus(query.Get("status")), query.Get("category_id"), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := rt.identity(w, r)
	if !ok {
		return
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) documentStatus(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := rt.identity(w, r)
	if !ok {
		return
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	status, err := rt.reader.Status(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (rt *Router) documentStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := rt.identity(w, r)
	if !ok {
		return
	}

	stats, err := rt.reader.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := rt.identity(w, r)
	if !ok {
		return
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	if err := rt.remover.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) listCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	categories, err := rt.reader.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
