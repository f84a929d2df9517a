package srv

import "context"

// foregroundService ends the whole run when its Start returns, the way an
// interactive console does when the user quits.
type foregroundService struct {
	Service
	stop context.CancelFunc
}

func (f *foregroundService) Name() string {
	return name(f.Service)
}

func (f *foregroundService) Start(ctx context.Context) error {
	defer f.stop()
	return f.Service.Start(ctx)
}

func NewForeground(s Service, stop context.CancelFunc) Service {
	return &foregroundService{Service: s, stop: stop}
}
