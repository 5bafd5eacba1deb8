package grpcapi

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec implements google.golang.org/grpc/encoding.Codec with JSON
// instead of protobuf wire encoding, since the messages in this package are
// plain structs rather than generated proto.Message implementations.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns "proto", the codec name grpc negotiates by default for every
// call that does not set a content-subtype. Registering under that name
// replaces the default protobuf codec process-wide so neither the server
// nor a plain client needs any special CallOption to speak JSON.
func (jsonCodec) Name() string { return "proto" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
