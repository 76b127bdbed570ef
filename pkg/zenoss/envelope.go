package zenoss

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// rpcType is the envelope type of every router request.
const rpcType = "rpc"

// exceptionType marks a reply envelope describing a server-side exception.
const exceptionType = "exception"

// errNotJSON is returned by decodeResponse for bodies that are not JSON envelopes.
var errNotJSON = errors.New("response is not a JSON envelope")

// Request is the envelope posted for one router call.
type Request struct {
	Action string `json:"action"`
	Method string `json:"method"`
	Data   []any  `json:"data"`
	Type   string `json:"type"`
	TID    int64  `json:"tid"`
}

// Response is the envelope the server answers with.
type Response struct {
	Action string          `json:"action"`
	Method string          `json:"method"`
	Type   string          `json:"type"`
	TID    int64           `json:"tid"`
	Result json.RawMessage `json:"result"`

	// Message and Where are set on exception replies.
	Message string `json:"message,omitempty"`
	Where   string `json:"where,omitempty"`
}

// newRequest builds the envelope for a call. Data is always a list, empty
// when there are no parameters.
func newRequest(router, method string, tid int64, params []any) Request {
	data := params
	if data == nil {
		data = []any{}
	}
	return Request{
		Action: router,
		Method: method,
		Data:   data,
		Type:   rpcType,
		TID:    tid,
	}
}

// encodeRequest serialises a request as the one-element list the router expects.
func encodeRequest(req Request) ([]byte, error) {
	body, err := json.Marshal([]Request{req})
	if err != nil {
		return nil, fmt.Errorf("encoding %s.%s request: %w", req.Action, req.Method, err)
	}
	return body, nil
}

// decodeResponse parses a reply body. The router answers a single call with
// an object; batched replies are lists, of which the first entry is used.
func decodeResponse(body []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errNotJSON
	}

	switch trimmed[0] {
	case '{':
		var resp Response
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("%w: %w", errNotJSON, err)
		}
		return &resp, nil
	case '[':
		var batch []Response
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("%w: %w", errNotJSON, err)
		}
		if len(batch) == 0 {
			return nil, fmt.Errorf("%w: empty reply list", errNotJSON)
		}
		return &batch[0], nil
	default:
		return nil, errNotJSON
	}
}
