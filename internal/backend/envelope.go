package backend

import (
	"encoding/json"
	"fmt"

	"github.com/amiranbari/telestore/internal/errs"
)

// The backend has been observed with two response envelopes: variant A
// returns the typed payload at the top level, variant B wraps it in a generic
// {"obj": ...} object. decodeEnvelope is the tagged-union parse that hides
// the difference: try A, else B, else fail typed.
func decodeEnvelope(body []byte) (json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedResponse, err)
	}
	if obj, ok := top["obj"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(obj, &inner); err != nil {
			return nil, fmt.Errorf("%w: bad obj wrapper", errs.ErrMalformedResponse)
		}
		return obj, nil
	}
	return json.RawMessage(body), nil
}

// queryAction maps the canonical action name to the query-variant spelling.
// Actions absent from the map share the canonical name.
var queryActionNames = map[string]string{
	"getServices":   "service",
	"getProducts":   "services",
	"buyService":    "purchase",
	"getUserInfo":   "user_info",
	"getCategories": "categories",
}

func queryAction(action string) string {
	if v, ok := queryActionNames[action]; ok {
		return v
	}
	return action
}
