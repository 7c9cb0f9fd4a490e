package reservation

import "context"

// Locker serializes reservation mutations per lot. Lock blocks (or retries)
// until the key is held, then returns a release function. Changes on
// different lots proceed concurrently.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}
