package auth

import (
	"github.com/polkiloo/ocexchange/internal/config"
	"go.uber.org/fx"
)

// Module provides authentication primitives via fx.
var Module = fx.Provide(
	newPasswordHasher,
	newTokenStrategy,
)

type authParams struct {
	fx.In

	Config *config.Config
}

func newPasswordHasher(p authParams) PasswordHasher {
	return NewBcryptHasher(p.Config.BcryptCost)
}

func newTokenStrategy(p authParams) Strategy {
	return NewHMACStrategy(p.Config.JWTSecret, Options{TTL: p.Config.TokenTTL})
}
