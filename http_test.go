package resource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTokenSource is a trivial TokenSource returning a fixed token, or an error
// when configured to fail. It stands in for a real credential provider in tests.
type staticTokenSource struct {
	token string
	err   error
}

func (s *staticTokenSource) Token(ctx context.Context) (string, error) {
	return s.token, s.err
}

// TestNewHTTPRetriever verifies construction behavior of the HTTP retriever.
// The target URL is mandatory and fixed at construction; everything else is
// optional and defaulted.
func TestNewHTTPRetriever(t *testing.T) {
	t.Parallel()

	t.Run("MissingTargetURL", func(t *testing.T) {
		retriever, err := NewHTTPRetriever[TestProfile]("")

		assert.Nil(t, retriever, "Expected no retriever instance when the target URL is missing")
		assert.ErrorIs(t, err, ErrEmptyTargetURL, "Expected ErrEmptyTargetURL when no target URL was provided")
	})

	t.Run("Defaults", func(t *testing.T) {
		retriever, err := NewHTTPRetriever[TestProfile]("http://localhost/profile")

		require.NoError(t, err, "Failed to create HTTP retriever")
		require.NotNil(t, retriever, "Expected retriever instance to be initialized and not nil")
		assert.Equal(t, http.MethodGet, retriever.method, "Expected GET as the default method")
		assert.NotNil(t, retriever.client, "Expected a default HTTP client to be assigned")
		assert.NotNil(t, retriever.transcoder, "Expected a default transcoder to be assigned")
	})
}

// TestHTTPRetrieve verifies the retrieval behavior of the HTTP retriever across the
// three failure classes of the error taxonomy — transport, protocol, and decode —
// as well as the successful path and credential injection.
func TestHTTPRetrieve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// SuccessfulRetrieval verifies that a 2xx response with a decodable JSON body
	// produces the decoded payload.
	t.Run("SuccessfulRetrieval", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"name":"a"}`))
		}))
		defer server.Close()

		retriever, err := NewHTTPRetriever[TestProfile](server.URL)
		require.NoError(t, err, "Failed to create HTTP retriever")

		value, err := retriever.Retrieve(ctx)
		assert.NoError(t, err, "Expected the retrieval to succeed against a healthy server")
		assert.Equal(t, TestProfile{ID: 1, Name: "a"}, value, "Decoded payload mismatch")
	})

	// ProtocolFailure verifies that a non-2xx status is reported as a StatusError
	// carrying the offending code, distinguishable from other failure classes.
	t.Run("ProtocolFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		retriever, err := NewHTTPRetriever[TestProfile](server.URL)
		require.NoError(t, err, "Failed to create HTTP retriever")

		_, err = retriever.Retrieve(ctx)
		require.Error(t, err, "Expected an error for a non-success status code")

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr, "Expected the failure to be a StatusError")
		assert.Equal(t, http.StatusNotFound, statusErr.Code, "StatusError must carry the response status code")
	})

	// DecodeFailure verifies that a successful status with an undecodable body is
	// reported as a decode failure rather than a success with garbage data.
	t.Run("DecodeFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": "not-a-number"`))
		}))
		defer server.Close()

		retriever, err := NewHTTPRetriever[TestProfile](server.URL)
		require.NoError(t, err, "Failed to create HTTP retriever")

		_, err = retriever.Retrieve(ctx)
		assert.Error(t, err, "Expected a decode failure for an undecodable payload")
	})

	// TransportFailure verifies that a request which cannot complete at all is
	// reported as an error, exercising the first class of the taxonomy.
	t.Run("TransportFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // shut down before the request is issued

		retriever, err := NewHTTPRetriever[TestProfile](server.URL)
		require.NoError(t, err, "Failed to create HTTP retriever")

		_, err = retriever.Retrieve(ctx)
		assert.Error(t, err, "Expected a transport failure when the server is unreachable")
	})

	// RequestShape verifies that the configured method, headers, and body are sent
	// with every retrieval request exactly as captured at construction.
	t.Run("RequestShape", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method, "Expected the configured method on the wire")
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"), "Expected the configured header on the wire")

			payload, _ := io.ReadAll(r.Body)
			assert.Equal(t, `{"filter":"active"}`, string(payload), "Expected the configured body on the wire")

			_, _ = w.Write([]byte(`{"id":2,"name":"b"}`))
		}))
		defer server.Close()

		retriever, err := NewHTTPRetriever[TestProfile](server.URL,
			WithMethod[TestProfile](http.MethodPost),
			WithHeader[TestProfile]("Content-Type", "application/json"),
			WithBody[TestProfile]([]byte(`{"filter":"active"}`)),
		)
		require.NoError(t, err, "Failed to create HTTP retriever")

		value, err := retriever.Retrieve(ctx)
		assert.NoError(t, err, "Expected the retrieval to succeed")
		assert.Equal(t, TestProfile{ID: 2, Name: "b"}, value, "Decoded payload mismatch")
	})

	// TokenSourceInjection verifies that an injected credential is attached to every
	// request as a bearer Authorization header.
	t.Run("TokenSourceInjection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer sesame", r.Header.Get("Authorization"), "Expected the injected credential on the wire")
			_, _ = w.Write([]byte(`{"id":3,"name":"c"}`))
		}))
		defer server.Close()

		retriever, err := NewHTTPRetriever[TestProfile](server.URL,
			WithTokenSource[TestProfile](&staticTokenSource{token: "sesame"}),
		)
		require.NoError(t, err, "Failed to create HTTP retriever")

		_, err = retriever.Retrieve(ctx)
		assert.NoError(t, err, "Expected the authenticated retrieval to succeed")
	})

	// TokenSourceFailure verifies that a credential provider error aborts the attempt
	// before any request reaches the wire.
	t.Run("TokenSourceFailure", func(t *testing.T) {
		var served atomic.Bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			served.Store(true)
		}))
		defer server.Close()

		retriever, err := NewHTTPRetriever[TestProfile](server.URL,
			WithTokenSource[TestProfile](&staticTokenSource{err: errors.New("credential expired")}),
		)
		require.NoError(t, err, "Failed to create HTTP retriever")

		_, err = retriever.Retrieve(ctx)
		assert.ErrorContains(t, err, "credential expired", "Expected the credential failure to surface")
		assert.False(t, served.Load(), "No request must reach the wire when the credential cannot be acquired")
	})
}

// TestResourceOverHTTP exercises the holder end to end against a live test server,
// covering the transition from a failing target to a healthy one through refetch.
func TestResourceOverHTTP(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"name":"a"}`))
	}))
	defer server.Close()

	retriever, err := NewHTTPRetriever[TestProfile](server.URL)
	require.NoError(t, err, "Failed to create HTTP retriever")

	res, err := NewResource[TestProfile](WithRetriever[TestProfile](retriever))
	require.NoError(t, err, "Failed to create resource")
	defer res.Close()

	<-res.Refetch(ctx)
	state := res.State()
	require.True(t, state.Failed(), "Expected the resource to fail while the target is unhealthy")
	assert.Contains(t, state.Message, "503", "Expected the failure message to mention the status code")

	healthy.Store(true)
	<-res.Refetch(ctx)
	state = res.State()
	assert.True(t, state.Success(), "Expected the resource to recover once the target is healthy")
	assert.Equal(t, TestProfile{ID: 1, Name: "a"}, state.Data, "Recovered payload mismatch")
}
