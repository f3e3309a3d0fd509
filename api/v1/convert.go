package basisv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"basislab/internal/basis"
)

// Request is the body of a Transform call. Policy is optional; an empty
// value lets the server apply its configured policy.
type Request struct {
	basis.Input
	Policy string `json:"policy,omitempty"`
}

// RequestToStruct lays the request out as
//
//	{point:{x,y}, basis1:{x,y}, basis2:{x,y}, origin:{x,y}, policy?}
func RequestToStruct(req Request) (*structpb.Struct, error) {
	return toStruct(req)
}

func RequestFromStruct(s *structpb.Struct) (Request, error) {
	var req Request
	err := fromStruct(s, &req)
	return req, err
}

// ResultToStruct uses the JSON field names of basis.Result.
func ResultToStruct(res basis.Result) (*structpb.Struct, error) {
	return toStruct(res)
}

func ResultFromStruct(s *structpb.Struct) (basis.Result, error) {
	var res basis.Result
	err := fromStruct(s, &res)
	return res, err
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return fmt.Errorf("nil message")
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
