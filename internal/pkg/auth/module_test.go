package auth

import (
	"testing"
	"time"

	"github.com/polkiloo/ocexchange/internal/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher(t *testing.T) {
	hasher := newPasswordHasher(authParams{Config: &config.Config{BcryptCost: bcrypt.MinCost}})
	bcryptHasher, ok := hasher.(*BcryptHasher)
	if !ok {
		t.Fatalf("expected *BcryptHasher, got %T", hasher)
	}
	if bcryptHasher.cost != bcrypt.MinCost {
		t.Fatalf("unexpected cost: %d", bcryptHasher.cost)
	}
}

func TestNewTokenStrategy(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{name: "configured", ttl: 7 * 24 * time.Hour, want: 7 * 24 * time.Hour},
		{name: "default", ttl: 0, want: 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := newTokenStrategy(authParams{Config: &config.Config{JWTSecret: "top-secret", TokenTTL: tt.ttl}})
			hmacStrategy, ok := strategy.(*HMACStrategy)
			if !ok {
				t.Fatalf("expected *HMACStrategy, got %T", strategy)
			}
			if string(hmacStrategy.secret) != "top-secret" {
				t.Fatalf("unexpected secret: %q", string(hmacStrategy.secret))
			}
			if hmacStrategy.ttl != tt.want {
				t.Fatalf("unexpected ttl: %s", hmacStrategy.ttl)
			}
		})
	}
}

func TestModuleProvidesPrimitives(t *testing.T) {
	var (
		hasher   PasswordHasher
		strategy Strategy
	)
	app := fxtest.New(t,
		fx.Supply(&config.Config{JWTSecret: "secret"}),
		Module,
		fx.Populate(&hasher, &strategy),
	)
	app.RequireStart()
	defer app.RequireStop()

	if hasher == nil || strategy == nil {
		t.Fatal("expected hasher and strategy to be provided")
	}
	if strategy.Name() == "" {
		t.Fatal("expected named strategy")
	}
}
