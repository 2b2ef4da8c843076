package permission

import "context"

// Authorizer answers whether usage access is currently granted.
type Authorizer interface {
	Granted(ctx context.Context) (bool, error)
}

// Launcher opens the out-of-process authorization surface. It must not
// wait for the user's decision.
type Launcher interface {
	Launch(ctx context.Context) error
}
