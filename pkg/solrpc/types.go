/*
Package solrpc contains a set of types used for JSON-RPC communication with
Solana RPC nodes. It defines the basic request/response envelopes along with
the client-side error kinds.
*/
package solrpc

import (
	"encoding/json"
)

const (
	// JSONRPCVersion is the only JSON-RPC protocol version supported.
	JSONRPCVersion = "2.0"
)

type (
	// Request represents a JSON-RPC request. It's generic enough to be used
	// in many JSON-RPC communication scenarios, yet at the same time it's
	// tailored for the needs of this RPC client. Params are carried verbatim,
	// trailing null entries included (Solana's parameterless methods are
	// conventionally called with a single null parameter).
	Request struct {
		// JSONRPC is the protocol version, only valid when it contains JSONRPCVersion.
		JSONRPC string `json:"jsonrpc"`
		// Method is the method being called.
		Method string `json:"method"`
		// Params is a set of method-specific parameters passed to the call.
		// They can be anything as long as they can be marshaled to JSON
		// correctly and used by the method implementation on the server side.
		// Solana expects params to be an array.
		Params []interface{} `json:"params"`
		// ID is an identifier associated with this request. JSON-RPC itself
		// allows any strings to be used for it as well, but this client uses
		// numeric identifiers.
		ID uint64 `json:"id"`
	}

	// Header is a generic JSON-RPC 2.0 response header (ID and JSON-RPC version).
	Header struct {
		ID      json.RawMessage `json:"id"`
		JSONRPC string          `json:"jsonrpc"`
	}

	// HeaderAndError adds an Error (that can be empty) to the Header, it's used
	// to construct type-specific responses.
	HeaderAndError struct {
		Header
		Error *Error `json:"error,omitempty"`
	}

	// Response represents a standard raw JSON-RPC 2.0
	// response: http://www.jsonrpc.org/specification#response_object.
	// The Result is kept raw, interpreting it is up to the caller.
	Response struct {
		HeaderAndError
		Result json.RawMessage `json:"result,omitempty"`
	}
)

// NewRequest creates a new Request with the given ID, method and parameters.
// Parameters are copied into the envelope as is, without reordering or type
// coercion, nil turns into an empty array on the wire. It cannot fail.
func NewRequest(id uint64, method string, params []interface{}) *Request {
	if params == nil {
		params = []interface{}{}
	}
	return &Request{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
		ID:      id,
	}
}
