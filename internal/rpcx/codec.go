package rpcx

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Encode converts a JSON-serializable Go value (struct or map) into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return s, nil
}

// Decode fills v from a Struct. A nil Struct decodes as an empty object.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}

	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}
