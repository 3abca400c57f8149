package httpadapter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

func newErrorRouterHandler(err error) http.Handler {
	return NewRouter(
		"legaldocs-api",
		&ingestorFake{},
		&readerFake{err: err},
		&queryFake{err: err},
		&removerFake{err: err},
		50*1024*1024,
	).Handler()
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "not found maps to 404",
			err:        domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("id missing")),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "validation maps to 400",
			err:        domain.WrapError(domain.ErrValidation, "get document", errors.New("bad id")),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "state conflict maps to 409",
			err:        domain.WrapError(domain.ErrStateConflict, "get document", errors.New("not processing")),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "temporary maps to 503",
			err:        domain.WrapError(domain.ErrTemporary, "get document", errors.New("db down")),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "oracle maps to 503",
			err:        domain.WrapError(domain.ErrOracle, "get document", errors.New("model gone")),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unknown maps to 500",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newErrorRouterHandler(tc.err)

			req := httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1", nil)
			req.Header.Set(userIDHeader, "user-1")
			res := httptest.NewRecorder()
			handler.ServeHTTP(res, req)

			if res.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, res.Code)
			}
		})
	}
}
