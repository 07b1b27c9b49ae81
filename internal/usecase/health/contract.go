package health

import "context"

// StorePinger checks index store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CataloguePinger checks catalogue database availability.
type CataloguePinger interface {
	Ping(ctx context.Context) error
}
