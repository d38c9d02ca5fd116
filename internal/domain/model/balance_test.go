package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/ocexchange/internal/domain/errors"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func assertAmounts(t *testing.T, b *Balance, total, available, locked string) {
	t.Helper()
	if !b.Total.Equal(dec(total)) || !b.Available.Equal(dec(available)) || !b.Locked.Equal(dec(locked)) {
		t.Fatalf("expected %s/%s/%s, got %s/%s/%s", total, available, locked, b.Total, b.Available, b.Locked)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("invariant broken: %v", err)
	}
}

func TestBalanceScenario(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBalance("u1", "BTC")

	if err := b.Apply(BalanceAdd, dec("1.0"), now); err != nil {
		t.Fatalf("add: %v", err)
	}
	assertAmounts(t, b, "1.0", "1.0", "0")

	if err := b.Apply(BalanceLock, dec("0.4"), now); err != nil {
		t.Fatalf("lock: %v", err)
	}
	assertAmounts(t, b, "1.0", "0.6", "0.4")

	if err := b.Apply(BalanceSubtract, dec("0.6"), now); err != nil {
		t.Fatalf("subtract: %v", err)
	}
	assertAmounts(t, b, "0.4", "0", "0.4")

	before := *b
	err := b.Apply(BalanceSubtract, dec("0.1"), now.Add(time.Minute))
	if !errors.Is(err, domainErrors.ErrInsufficientAvailableBalance) {
		t.Fatalf("expected insufficient available balance, got %v", err)
	}
	if *b != before {
		t.Fatalf("failed mutation changed the record: %+v", b)
	}
}

func TestBalanceApplyErrors(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		op     BalanceOperation
		amount string
		want   error
	}{
		{"zero amount", BalanceAdd, "0", domainErrors.ErrInvalidAmount},
		{"negative amount", BalanceAdd, "-1", domainErrors.ErrInvalidAmount},
		{"subtract more than available", BalanceSubtract, "2.5", domainErrors.ErrInsufficientAvailableBalance},
		{"lock more than available", BalanceLock, "2.5", domainErrors.ErrInsufficientAvailableBalance},
		{"unlock more than locked", BalanceUnlock, "1.5", domainErrors.ErrInsufficientLockedBalance},
		{"unknown operation", BalanceOperation("burn"), "1", domainErrors.ErrInvalidOperation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &Balance{Owner: "u1", Asset: "ETH", Total: dec("3"), Available: dec("2"), Locked: dec("1")}
			before := *b
			if err := b.Apply(tc.op, dec(tc.amount), now); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if *b != before {
				t.Fatalf("record changed after failure: %+v", b)
			}
		})
	}
}

func TestBalanceRoundTrips(t *testing.T) {
	now := time.Now()
	b := &Balance{Owner: "u1", Asset: "ETH", Total: dec("5"), Available: dec("4"), Locked: dec("1")}

	for _, pair := range [][2]BalanceOperation{{BalanceAdd, BalanceSubtract}, {BalanceLock, BalanceUnlock}} {
		before := *b
		if err := b.Apply(pair[0], dec("0.75"), now); err != nil {
			t.Fatalf("%s: %v", pair[0], err)
		}
		if pair[0] == BalanceLock && !b.Total.Equal(before.Total) {
			t.Fatalf("lock changed total: %s", b.Total)
		}
		if err := b.Apply(pair[1], dec("0.75"), now); err != nil {
			t.Fatalf("%s: %v", pair[1], err)
		}
		if pair[0].Inverse() != pair[1] {
			t.Fatalf("expected %s to invert %s", pair[1], pair[0])
		}
		assertAmounts(t, b, before.Total.String(), before.Available.String(), before.Locked.String())
	}
}

func TestBalanceInvariantHoldsAcrossSequences(t *testing.T) {
	now := time.Now()
	b := NewBalance("u2", "USDT")
	steps := []struct {
		op     BalanceOperation
		amount string
	}{
		{BalanceAdd, "100"},
		{BalanceLock, "30.5"},
		{BalanceSubtract, "10"},
		{BalanceUnlock, "0.5"},
		{BalanceLock, "60"},
		{BalanceAdd, "0.000000000000000001"},
		{BalanceUnlock, "90"},
		{BalanceSubtract, "90.000000000000000001"},
	}

	for _, step := range steps {
		if err := b.Apply(step.op, dec(step.amount), now); err != nil {
			t.Fatalf("%s %s: %v", step.op, step.amount, err)
		}
		if err := b.Validate(); err != nil {
			t.Fatalf("invariant broken after %s %s: %+v", step.op, step.amount, b)
		}
	}
	assertAmounts(t, b, "0", "0", "0")
}

func TestBalanceValidate(t *testing.T) {
	broken := Balance{Total: dec("1"), Available: dec("0.5"), Locked: dec("0.4")}
	if err := broken.Validate(); !errors.Is(err, domainErrors.ErrBalanceInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}

	negative := Balance{Total: dec("0"), Available: dec("1"), Locked: dec("-1")}
	if err := negative.Validate(); !errors.Is(err, domainErrors.ErrBalanceInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}
}

func TestWithinScale(t *testing.T) {
	cases := map[string]bool{
		"1":                       true,
		"0.000000000000000001":    true,
		"1.500000000000000000000": true,
		"0.0000000000000000001":   false,
		"-2.0000000000000000005":  false,
	}
	for value, want := range cases {
		if got := WithinScale(decimal.RequireFromString(value)); got != want {
			t.Fatalf("WithinScale(%s) = %v, want %v", value, got, want)
		}
	}
}
