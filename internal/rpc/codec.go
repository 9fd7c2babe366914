// Package rpc defines the LoveOps sync service: its gRPC service descriptor,
// request and response messages, and the JSON wire codec they travel in.
//
// Messages are plain Go structs encoded as JSON, so the backup document can
// be carried verbatim. There is no generated protobuf code behind them.
//
// gRPC picks the codec from the content subtype of each call and falls back
// to protobuf when none is set. The messages here are not proto.Message, so
// a connection dialed without CallOptions() fails every SyncService call
// before it leaves the client, with codes.Internal and a "failed to marshal"
// message that says nothing about a missing option. The server side needs
// nothing: it uses whatever codec the request names, and this package
// registers "json" on import.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype, sent as application/grpc+json.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// CallOptions must be passed as default call options on every client
// connection that talks to SyncService.
func CallOptions() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName))
}
