package srv

import "context"

// cleanupService only does work on shutdown.
type cleanupService struct {
	name    string
	cleanup func() error
}

func (c *cleanupService) Name() string {
	return c.name
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

func NewCleanup(name string, fn func() error) Service {
	return &cleanupService{name: name, cleanup: fn}
}
