package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
	"github.com/akramarenko/legaldocs-ai/internal/infrastructure/resilience"
)

// Client talks to an Ollama-compatible generation endpoint. Both oracle
// clients share it: the classifier and the query answerer.
type Client struct {
	baseURL    string
	genModel   string
	httpClient *http.Client
	executor   *resilience.Executor
}

type ClientOption func(*Client)

func WithResilienceExecutor(executor *resilience.Executor) ClientOption {
	return func(c *Client) {
		c.executor = executor
	}
}

func New(baseURL, genModel string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) generateJSON(ctx context.Context, operation, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.genModel,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}
	return c.generate(ctx, operation, reqBody)
}

func (c *Client) generate(ctx context.Context, operation string, reqBody map[string]any) (string, error) {
	var response struct {
		Response string `json:"response"`
	}

	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/api/generate", reqBody, &response, operation)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama."+operation, call, classifyOracleError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapOracleError(operation, err)
	}
	return strings.TrimSpace(response.Response), nil
}

// Classifier is the classification oracle client. The category names are
// fixed at construction so every prompt offers the same taxonomy.
type Classifier struct {
	client        *Client
	categories    []string
	maxInputChars int
}

func NewClassifier(client *Client, categories []string, maxInputChars int) *Classifier {
	if maxInputChars <= 0 {
		maxInputChars = 4000
	}
	return &Classifier{
		client:        client,
		categories:    categories,
		maxInputChars: maxInputChars,
	}
}

// Classify sends a bounded snippet of the document and coerces whatever
// comes back into a complete Classification. Shape problems in the model
// output are absorbed here, never surfaced as job failures; only transport
// failures return an error. Retrying a failed attempt is the scheduler's
// call, not ours.
func (c *Classifier) Classify(ctx context.Context, text, filename string) (domain.Classification, error) {
	snippet := truncateRunes(text, c.maxInputChars)

	raw, err := c.client.generateJSON(ctx, "classify", buildClassificationPrompt(snippet, filename, c.categories))
	if err != nil {
		return domain.Classification{}, err
	}
	return coerceClassification(raw), nil
}

// QueryGenerator is the query oracle client.
type QueryGenerator struct {
	client *Client
}

func NewQueryGenerator(client *Client) *QueryGenerator {
	return &QueryGenerator{client: client}
}

func (g *QueryGenerator) Answer(ctx context.Context, question string, contexts []string) (domain.OracleAnswer, error) {
	raw, err := g.client.generateJSON(ctx, "query", buildQueryPrompt(question, contexts))
	if err != nil {
		return domain.OracleAnswer{}, err
	}
	return coerceAnswer(raw), nil
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
