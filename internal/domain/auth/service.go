package auth

import "context"

// AuthService is the upstream authentication collaborator: it resolves an
// employee's credentials into an access token. Token refresh, revocation
// and OAuth flows are out of scope here.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}
