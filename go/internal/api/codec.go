package api

import "encoding/json"

// jsonCodec lets connect carry the plain Go message structs in this
// package. It replaces connect's built-in JSON codecs, which only accept
// protobuf messages. Connect registers one per content-type suffix, so a
// handler needs one jsonCodec per name.
type jsonCodec struct {
	name string
}

const (
	codecNameJSON        = "json"
	codecNameJSONCharset = "json; charset=utf-8"
)

func (c jsonCodec) Name() string { return c.name }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}
