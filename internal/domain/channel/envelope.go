// Package channel defines the request and response envelopes exchanged on
// the method channel.
package channel

import "maps"

// Request is a named call with optional arguments. It is never mutated after
// construction.
type Request struct {
	method    string
	arguments map[string]any
}

// NewRequest creates a request. The arguments map is copied.
func NewRequest(method string, arguments map[string]any) Request {
	var args map[string]any
	if arguments != nil {
		args = maps.Clone(arguments)
	}
	return Request{method: method, arguments: args}
}

// Method returns the requested method name.
func (r Request) Method() string { return r.method }

// Argument returns a single argument by name.
func (r Request) Argument(name string) (any, bool) {
	v, ok := r.arguments[name]
	return v, ok
}

// HasArguments reports whether any arguments were supplied.
func (r Request) HasArguments() bool { return len(r.arguments) > 0 }

// Kind discriminates response envelopes.
type Kind string

// Response kinds.
const (
	KindSuccess        Kind = "success"
	KindError          Kind = "error"
	KindNotImplemented Kind = "not_implemented"
)

// Response is the single terminating answer to a Request.
type Response struct {
	kind    Kind
	result  any
	code    string
	message string
}

// Success wraps a result value.
func Success(result any) Response {
	return Response{kind: KindSuccess, result: result}
}

// Failure reports an operation that ran and failed.
func Failure(code, message string) Response {
	return Response{kind: KindError, code: code, message: message}
}

// NotImplemented reports that no such method exists.
func NotImplemented() Response {
	return Response{kind: KindNotImplemented}
}

// Kind returns the envelope kind.
func (r Response) Kind() Kind { return r.kind }

// Result returns the success value (nil for other kinds).
func (r Response) Result() any { return r.result }

// Code returns the failure code (empty for other kinds).
func (r Response) Code() string { return r.code }

// Message returns the failure message (empty for other kinds).
func (r Response) Message() string { return r.message }
