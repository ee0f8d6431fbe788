package protocol

import "encoding/json"

// Serializer is the contract for encoding/decoding wire payloads, letting a
// deployment swap JSON for a binary format without touching the matching
// core. v must be a pointer for Unmarshal.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// DefaultJSONSerializer is the stdlib-backed Serializer used when no
// deployment-specific codec is configured.
type DefaultJSONSerializer struct{}

func (DefaultJSONSerializer) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (DefaultJSONSerializer) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
