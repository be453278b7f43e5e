package authsess

// Code defines a public type used by authsess APIs.
//
// Code instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Code int

const (
	// CodeOK is an exported constant or variable used by the authentication engine.
	CodeOK Code = 1000
	// CodeFail is an exported constant or variable used by the authentication engine.
	CodeFail Code = 1001
	// CodeNoAuth is an exported constant or variable used by the authentication engine.
	CodeNoAuth Code = 1002
	// CodeServiceError is an exported constant or variable used by the authentication engine.
	CodeServiceError Code = 1003
)

// Result is the uniform envelope returned by every public engine operation
// and by the [UserDirectory] port. A success never carries a user-facing
// error message; a failure never carries a payload the caller should act on.
type Result struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK describes the ok operation and its observable behavior.
//
// OK does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func OK(data any) Result {
	return Result{Code: CodeOK, Message: "成功", Data: data}
}

// Fail describes the fail operation and its observable behavior.
//
// Fail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func Fail(message string) Result {
	if message == "" {
		message = "失败"
	}
	return Result{Code: CodeFail, Message: message}
}

// NoAuth describes the noauth operation and its observable behavior.
//
// NoAuth does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NoAuth() Result {
	return Result{Code: CodeNoAuth, Message: "未通过验证"}
}

// ServiceError describes the serviceerror operation and its observable behavior.
//
// ServiceError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ServiceError() Result {
	return Result{Code: CodeServiceError, Message: "服务器错误"}
}

// Unable reports whether the result is anything other than a success.
func (r Result) Unable() bool {
	return r.Code != CodeOK
}

// TokenString returns the token payload of a successful login or refresh,
// or the empty string when the result carries no token.
func (r Result) TokenString() string {
	s, _ := r.Data.(string)
	return s
}

// As narrows the data payload of a result to a concrete type.
func As[T any](r Result) (T, bool) {
	v, ok := r.Data.(T)
	return v, ok
}
