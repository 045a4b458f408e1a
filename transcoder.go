package resource

import (
	"github.com/goccy/go-json"
)

// Transcoder defines the contract for bidirectional conversion between a value of type T
// and its raw byte representation. Users may implement custom transcoders (e.g. protobuf,
// msgpack, custom compression, etc.) to control exactly how payloads are interpreted.
// The interface is byte-based because retrieval transports deliver payloads as raw bytes.
type Transcoder[T any] interface {
	// Encode converts a value of type T into bytes suitable for transmission or storage.
	// The implementation fully controls the format, encoding, and optional compression.
	Encode(T) ([]byte, error)

	// Decode reconstructs a value of type T from the bytes previously produced by Encode,
	// or from a remote payload in the same format. A failure here is a decode failure:
	// the retrieval completed but its payload could not be interpreted as T.
	Decode([]byte) (T, error)
}

// defaultTranscoder is the built-in transcoder used when the user does not provide a custom one.
// It performs straightforward JSON serialization with no additional compression.
// This makes payloads human-readable and is perfect for development, debugging,
// or situations where size is not a critical concern.
// Users who need a smaller footprint or a different format should supply their own transcoder.
type defaultTranscoder[T any] struct{}

// Encode method converts the provided value into its JSON byte representation.
// Any error produced during the serialization process is returned to the caller for handling.
// This method ensures that values can be safely handed to transports that expect raw bytes.
func (defaultTranscoder[T]) Encode(src T) ([]byte, error) {
	return json.Marshal(src)
}

// Decode method reconstructs a value of the original type from its JSON byte representation.
// Any error encountered during decoding is returned to the caller for proper handling.
// This method ensures that retrieved payloads can be converted back into a usable typed value.
func (defaultTranscoder[T]) Decode(src []byte) (T, error) {
	var entry T

	if err := json.Unmarshal(src, &entry); err != nil {
		return entry, err
	}

	return entry, nil
}
