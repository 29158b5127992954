package wordcountpb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is registered as a gRPC wire codec for the Counter service.
// wordgate has no protoc step in its build, so rather than hand-author a
// FileDescriptorProto byte stream, Count's messages travel as JSON over the
// standard grpc.ClientConn/grpc.Server machinery (HTTP/2 framing,
// deadlines, keepalive, interceptors all still apply - only the payload
// encoding changes from protobuf's default "proto" subtype).
const codecName = "wcjson"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
