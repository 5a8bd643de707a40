package embeddings

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"submerge/internal/services"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultBatchSize   = 256

	stage = "semantic"
)

// Config captures the runtime settings required to talk to the embeddings API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Dimensions     int
	TimeoutSeconds int
	MaxRetries     int
}

// Client wraps the embeddings endpoint.
type Client struct {
	cfg       Config
	api       openai.Client
	batchSize int
}

// Option customizes the client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	batchSize  int
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithBatchSize caps how many texts are sent per request.
func WithBatchSize(size int) Option {
	return func(o *clientOptions) {
		if size > 0 {
			o.batchSize = size
		}
	}
}

// NewClient constructs an embeddings client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg = Config{
		APIKey:         strings.TrimSpace(cfg.APIKey),
		BaseURL:        strings.TrimSpace(cfg.BaseURL),
		Model:          strings.TrimSpace(cfg.Model),
		Dimensions:     cfg.Dimensions,
		TimeoutSeconds: cfg.TimeoutSeconds,
		MaxRetries:     max(cfg.MaxRetries, 0),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	options := clientOptions{batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(&options)
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(timeout),
	}
	if options.httpClient != nil {
		requestOpts = append(requestOpts, option.WithHTTPClient(options.httpClient))
	}

	return &Client{
		cfg:       cfg,
		api:       openai.NewClient(requestOpts...),
		batchSize: options.batchSize,
	}
}

// Name identifies the backend and model.
func (c *Client) Name() string {
	if c.cfg.Dimensions > 0 {
		return fmt.Sprintf("openai/%s/%d", c.cfg.Model, c.cfg.Dimensions)
	}
	return "openai/" + c.cfg.Model
}

// Embed returns one vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, stage, "embeddings", "api key required", nil)
	}
	if c.cfg.Model == "" {
		return nil, services.Wrap(services.ErrConfiguration, stage, "embeddings", "model required", nil)
	}
	out := make([][]float32, 0, len(texts))
	width := 0
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, vec := range batch {
			if width == 0 {
				width = len(vec)
			}
			if len(vec) == 0 || len(vec) != width {
				return nil, services.Wrap(services.ErrExternalService, stage, "embeddings request",
					fmt.Sprintf("vector width %d, want %d", len(vec), width), nil)
			}
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:          openai.EmbeddingModel(c.cfg.Model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	if c.cfg.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(c.cfg.Dimensions))
	}

	resp, err := c.api.Embeddings.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}
	if resp == nil || len(resp.Data) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Data)
		}
		return nil, services.Wrap(services.ErrExternalService, stage, "embeddings request",
			fmt.Sprintf("got %d vectors for %d inputs", got, len(texts)), nil)
	}

	out := make([][]float32, len(texts))
	for _, item := range resp.Data {
		idx := int(item.Index)
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			return nil, services.Wrap(services.ErrExternalService, stage, "embeddings request",
				fmt.Sprintf("unexpected index %d", item.Index), nil)
		}
		vec := make([]float32, len(item.Embedding))
		for i, x := range item.Embedding {
			vec[i] = float32(x)
		}
		out[idx] = vec
	}
	return out, nil
}

// classifyError tags a failed request with the services marker matching its
// cause. Cancellation passes through untouched.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, stage, "embeddings request", "", err)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := fmt.Sprintf("http %d", apiErr.StatusCode)
		switch code := apiErr.StatusCode; {
		case code == http.StatusRequestTimeout:
			return services.Wrap(services.ErrTimeout, stage, "embeddings request", message, err)
		case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
			return services.Wrap(services.ErrTransient, stage, "embeddings request", message, err)
		case code == http.StatusUnauthorized, code == http.StatusForbidden, code == http.StatusNotFound:
			return services.Wrap(services.ErrConfiguration, stage, "embeddings request", message, err)
		default:
			return services.Wrap(services.ErrExternalService, stage, "embeddings request", message, err)
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return services.Wrap(services.ErrTimeout, stage, "embeddings request", "", err)
	}
	return services.Wrap(services.ErrExternalService, stage, "embeddings request", "", err)
}

// HealthCheck issues a minimal request to verify the API key and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	vectors, err := c.Embed(ctx, []string{"ok"})
	if err != nil {
		return fmt.Errorf("embeddings health: %w", err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return errors.New("embeddings health: empty vector")
	}
	return nil
}
