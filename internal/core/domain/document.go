package domain

import "time"

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// IsTerminal reports whether no further automatic transition can occur.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Document struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	CategoryID  string `json:"category_id,omitempty"`
	Filename    string `json:"filename"`
	StoragePath string `json:"storage_path"`
	SizeBytes   int64  `json:"size_bytes"`
	MimeType    string `json:"mime_type"`

	ExtractedText string         `json:"-"`
	Status        DocumentStatus `json:"status"`
	Error         string         `json:"error,omitempty"`

	Confidence          float64              `json:"confidence,omitempty"`
	Reasoning           string               `json:"reasoning,omitempty"`
	SuggestedCategories []CategorySuggestion `json:"suggested_categories,omitempty"`
	KeyEntities         []string             `json:"key_entities,omitempty"`
	Summary             string               `json:"summary,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Chunk struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Index       int       `json:"index"`
	Content     string    `json:"content"`
	ChunkType   string    `json:"chunk_type,omitempty"`
	EmbeddingID string    `json:"embedding_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Classification is the structured output of the classification oracle.
// It is materialized into the Document row, never stored on its own.
type Classification struct {
	CategoryName        string               `json:"category_name"`
	Confidence          float64              `json:"confidence"`
	Reasoning           string               `json:"reasoning"`
	SuggestedCategories []CategorySuggestion `json:"suggested_categories"`
	KeyEntities         []string             `json:"key_entities"`
	Summary             string               `json:"summary"`
}

type CategorySuggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type ProcessingStatus struct {
	DocumentID     string          `json:"document_id"`
	Status         DocumentStatus  `json:"status"`
	Progress       float64         `json:"progress"`
	Error          string          `json:"error,omitempty"`
	Classification *Classification `json:"classification_result,omitempty"`
}

// OracleAnswer is the structured output of the query oracle, before source
// citations are attached.
type OracleAnswer struct {
	Answer      string   `json:"answer"`
	Confidence  float64  `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	Suggestions []string `json:"suggestions"`
}

type SourceDocument struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Category string `json:"category"`
}

type QueryResult struct {
	Query       string           `json:"query"`
	Response    string           `json:"response"`
	Confidence  float64          `json:"confidence"`
	Reasoning   string           `json:"reasoning,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Sources     []SourceDocument `json:"source_documents"`
}

type BulkUploadFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BulkUploadReport records per-file outcomes of a batch upload. List order
// follows input order for both uploaded and failed entries.
type BulkUploadReport struct {
	Uploaded     []string            `json:"uploaded_files"`
	Failed       []BulkUploadFailure `json:"failed_files"`
	Total        int                 `json:"total_files"`
	SuccessCount int                 `json:"success_count"`
	FailureCount int                 `json:"failure_count"`
}

type DocumentStats struct {
	TotalDocuments    int            `json:"total_documents"`
	ByCategory        map[string]int `json:"documents_by_category"`
	ByStatus          map[string]int `json:"processing_status_counts"`
	RecentUploads     []Document     `json:"recent_uploads"`
	AverageConfidence *float64       `json:"average_confidence,omitempty"`
}
