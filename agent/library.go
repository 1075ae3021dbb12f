package agent

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Library answers the function calls made by a model.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is a tool that a model can call.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// Errors reported to the model by the portfolio tools.
var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrInvalidArgument = errors.New("invalid argument")
)

// codes of the tool errors, as seen by the model.
var codes = map[string]error{
	"unknown_function": ErrUnknownFunction,
	"invalid_argument": ErrInvalidArgument,
}

// ToolError is a failed function call. The model receives it as the "error"
// and "code" fields of the function response.
type ToolError struct {
	Function string
	Code     string // "unknown_function", "invalid_argument" or "internal"
	Message  string
}

func (e *ToolError) Error() string { return fmt.Sprintf("%s: %s", e.Function, e.Message) }

// Unwrap returns the sentinel error of the code, if any.
func (e *ToolError) Unwrap() error { return codes[e.Code] }

// failure reports err as the response of a function call.
func failure(id, name string, err error) *genai.FunctionResponse {
	code := "internal"
	for c, sentinel := range codes {
		if errors.Is(err, sentinel) {
			code = c
		}
	}
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{
		"error": err.Error(),
		"code":  code,
	}}
}

// CallError returns the error reported by a function response, nil on success.
func CallError(resp *genai.FunctionResponse) error {
	msg, ok := resp.Response["error"].(string)
	if !ok {
		return nil
	}
	code, _ := resp.Response["code"].(string)
	return &ToolError{Function: resp.Name, Code: code, Message: msg}
}

// NewLibrary dispatches calls to functions by their declared name.
func NewLibrary[T Function](functions []T) Library {
	byName := make(map[string]Function, len(functions))
	for _, f := range functions {
		byName[f.Declaration().Name] = f
	}
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		f, ok := byName[call.Name]
		if !ok {
			return failure(call.ID, call.Name, fmt.Errorf("%w %q", ErrUnknownFunction, call.Name))
		}
		return f.Call(ctx, call.ID, call.Args)
	}
}

// NewDeclaration returns the declarations of all functions.
func NewDeclaration[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}
