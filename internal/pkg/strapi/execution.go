package strapi

import "context"

// Execution says where a request originates. Browser-originated requests
// never carry the API token.
type Execution int

const (
	ExecutionServer Execution = iota
	ExecutionBrowser
)

type executionKey struct{}

// WithExecution marks ctx with the origin of the requests made under it.
func WithExecution(ctx context.Context, e Execution) context.Context {
	return context.WithValue(ctx, executionKey{}, e)
}

// ExecutionFrom returns the origin recorded on ctx, ExecutionServer by default.
func ExecutionFrom(ctx context.Context) Execution {
	if e, ok := ctx.Value(executionKey{}).(Execution); ok {
		return e
	}
	return ExecutionServer
}
