package resource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// TokenSource supplies the credential attached to outgoing HTTP retrievals.
// It is injected explicitly into the retriever that needs it rather than looked up
// from any ambient or global context, so a retriever either has a credential or
// visibly has none. Implementations may return a static token or mint a fresh one
// per call; a returned error aborts the retrieval before any request is sent.
type TokenSource interface {
	// Token returns the bearer token to attach to the next request.
	Token(ctx context.Context) (string, error)
}

// HTTPRetriever retrieves a single value of type T from a fixed URL over HTTP.
// The target URL, method, headers, body, and credential are all captured during
// construction and never change afterward; every Retrieve call issues the same
// request and decodes the response body through the configured transcoder.
// All fields are configured during construction and are not modified afterward.
type HTTPRetriever[T any] struct {
	client      *http.Client
	transcoder  Transcoder[T]
	tokenSource TokenSource
	url         string
	method      string
	header      http.Header
	body        []byte
}

// httpOptions type defines the functional options pattern used to configure an HTTPRetriever instance.
type httpOptions[T any] func(r *HTTPRetriever[T])

// WithHTTPClient option assigns the HTTP client used to issue retrieval requests.
// Injecting the client lets callers control transport details such as timeouts,
// proxies, and connection pooling. If this option is not provided, the retriever
// falls back to http.DefaultClient.
func WithHTTPClient[T any](client *http.Client) httpOptions[T] {
	return func(r *HTTPRetriever[T]) {
		r.client = client
	}
}

// WithMethod option overrides the HTTP method used for retrieval requests.
// If this option is not provided, the retriever issues GET requests.
func WithMethod[T any](method string) httpOptions[T] {
	return func(r *HTTPRetriever[T]) {
		r.method = method
	}
}

// WithHeader option adds a header sent with every retrieval request.
// The option may be provided multiple times to accumulate headers.
func WithHeader[T any](key, value string) httpOptions[T] {
	return func(r *HTTPRetriever[T]) {
		if r.header == nil {
			r.header = make(http.Header)
		}
		r.header.Add(key, value)
	}
}

// WithBody option assigns the request body sent with every retrieval request.
// It is typically combined with WithMethod to issue POST-style retrievals.
// If this option is not provided, requests carry no body.
func WithBody[T any](body []byte) httpOptions[T] {
	return func(r *HTTPRetriever[T]) {
		r.body = body
	}
}

// WithTokenSource option injects the credential attached to every retrieval request
// as a bearer Authorization header. If this option is not provided, requests are
// sent unauthenticated.
func WithTokenSource[T any](src TokenSource) httpOptions[T] {
	return func(r *HTTPRetriever[T]) {
		r.tokenSource = src
	}
}

// WithHTTPTranscoder option configures the transcoder used to decode response payloads.
// Providing a custom transcoder allows callers to control deserialization behavior.
// If this option is not provided, the retriever decodes payloads as JSON.
func WithHTTPTranscoder[T any](t Transcoder[T]) httpOptions[T] {
	return func(r *HTTPRetriever[T]) {
		r.transcoder = t
	}
}

// NewHTTPRetriever function constructs a fully configured HTTPRetriever instance.
// It applies all provided functional options, validates the mandatory target URL,
// and initializes default values for any optional configuration not explicitly set.
// The function returns an error only when mandatory configuration is missing.
func NewHTTPRetriever[T any](url string, opts ...httpOptions[T]) (*HTTPRetriever[T], error) {
	if url == "" {
		return nil, ErrEmptyTargetURL
	}

	retriever := &HTTPRetriever[T]{url: url}

	for _, opt := range opts {
		opt(retriever)
	}

	if retriever.client == nil {
		retriever.client = http.DefaultClient
	}

	if retriever.method == "" {
		retriever.method = http.MethodGet
	}

	if retriever.transcoder == nil {
		retriever.transcoder = &defaultTranscoder[T]{}
	}

	return retriever, nil
}

// Retrieve issues one request against the configured URL and decodes the response body into T.
// The three failure classes are reported distinctly: a transport failure when the request
// cannot complete, a StatusError when the remote side answers with a non-2xx status, and a
// decode failure when the body cannot be interpreted as T. The context bounds the whole
// attempt, including connection setup and body read.
func (r *HTTPRetriever[T]) Retrieve(ctx context.Context) (T, error) {
	var empty T

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return empty, err
	}

	for key, values := range r.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	if r.tokenSource != nil {
		token, tokenErr := r.tokenSource.Token(ctx)
		if tokenErr != nil {
			return empty, fmt.Errorf("acquire token: %w", tokenErr)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return empty, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return empty, &StatusError{Code: resp.StatusCode}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, err
	}

	value, err := r.transcoder.Decode(payload)
	if err != nil {
		return empty, fmt.Errorf("decode payload: %w", err)
	}

	return value, nil
}
