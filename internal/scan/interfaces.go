package scan

import "context"

// Source yields raw URL lines until exhausted.
type Source interface {
	Next() (string, bool)
	Err() error
}

// Executor sends a request and returns the fully read response.
type Executor interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

// Persister writes a response to durable storage and returns the location.
type Persister interface {
	Persist(ctx context.Context, req Request, resp Response) (string, error)
}

// Reporter emits the one-line result for a URL that reached a response.
type Reporter interface {
	Report(rawURL string, status int, outcome Outcome)
}

// Throttle delays a task before its request is issued.
type Throttle interface {
	Wait(ctx context.Context) error
}

// Hasher computes digests used for file naming.
type Hasher interface {
	Hash(data []byte) (string, error)
}
