package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Login.Lookup != nil
}

func (s Service) Login(ctx context.Context, username, password string) LoginResult {
	return RunLogin(ctx, username, password, s.deps.Login)
}

func (s Service) Refresh(ctx context.Context, username, oldToken string) RefreshResult {
	return RunRefresh(ctx, username, oldToken, s.deps.Refresh)
}

func (s Service) Logout(ctx context.Context, authorization string) LogoutResult {
	return RunLogout(ctx, authorization, s.deps.Logout)
}
