package internal

import "context"

// Configurer reads a component's settings from environment style key/value
// pairs, keys that are missing leave the defaults in place.
type Configurer interface {
	Configure(envs map[string]string) error
}

// Opener validates the configuration and acquires what the component needs
// (files, connections, goroutines).
type Opener interface {
	Open(ctx context.Context) error
	Closer
}

type Closer interface {
	Close(ctx context.Context) error
}

// Clearer drops every item a component holds, e.g. cached searches.
type Clearer interface {
	Clear(ctx context.Context) error
}
