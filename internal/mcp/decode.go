package mcp

import (
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/capture/internal/errors"
)

// decode unmarshals MCP request arguments into a typed struct.
// Type mismatches come back as INVALID_REQUEST naming the offending argument.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, errors.NewInvalidRequest("arguments are not valid JSON")
	}
	if err := json.Unmarshal(b, &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && typeErr.Field != "" {
			return result, errors.NewInvalidRequest(typeErr.Field + " must be " + typeErr.Type.String())
		}
		return result, errors.NewInvalidRequest(err.Error())
	}
	return result, nil
}
