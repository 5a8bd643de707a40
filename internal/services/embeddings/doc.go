// Package embeddings provides an OpenAI-compatible embeddings client used as
// the remote backend of the semantic scorer.
//
// # Configuration
//
// Requires api_key and model; base_url defaults to the OpenAI API and may
// point at any server speaking the same /embeddings protocol. Dimensions is
// forwarded only when positive.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Embed: embed a batch of texts, chunked to BatchSize per request.
// Client.HealthCheck: verify the key and model with a one-word request.
//
// # Retry Behaviour
//
// Retries are delegated to the SDK (MaxRetries, exponential backoff on 408,
// 409, 429 and 5xx). Each request is bounded by TimeoutSeconds. Failures
// are returned to the caller, which aborts the alignment run.
package embeddings
