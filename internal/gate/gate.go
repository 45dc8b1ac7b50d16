// Package gate enforces the license and monthly-quota policy that sits in
// front of every AI request. Unlicensed sessions get a fixed number of
// queries per calendar month; a Pro license lifts the cap entirely.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/id01t/smarttask-ai/internal/store"
	"github.com/id01t/smarttask-ai/pkg/logger"
)

// FreeMonthlyLimit is the number of queries an unlicensed session may make
// per calendar month.
const FreeMonthlyLimit = 20

const (
	licensePro        = "PRO"
	licenseKeyPrefix  = "SMARTTASK-"
	licenseKeyMinLen  = 16
	resetPeriodLayout = "2006-01"
)

// ErrQuotaExceeded is returned by CheckAndConsume when the free monthly
// limit has been reached.
var ErrQuotaExceeded = errors.New("monthly query limit reached")

// ErrInvalidLicenseKey is returned by Activate for keys that fail the
// offline format check.
var ErrInvalidLicenseKey = errors.New("invalid license key format")

// Status is a read-only snapshot of the gate for display purposes.
type Status struct {
	Licensed bool
	Used     int
	Limit    int
}

// String renders the status line shown to the user.
func (s Status) String() string {
	if s.Licensed {
		return "Pro Version | Unlimited Queries"
	}
	return fmt.Sprintf("Free Version | Queries this month: %d/%d", s.Used, s.Limit)
}

// Gate decides whether a request is permitted under the license and quota
// policy. All mutations run under a single lock so overlapping requests
// cannot double-consume or lose a counter update.
type Gate struct {
	mu     sync.Mutex
	store  *store.Store
	now    func() time.Time
	logger *logger.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the time source, used by tests to cross month
// boundaries deterministically.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// New creates a gate backed by the given store.
func New(s *store.Store, opts ...Option) *Gate {
	g := &Gate{
		store:  s,
		now:    time.Now,
		logger: logger.NewComponentLogger("gate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Activate validates a candidate license key and, on success, transitions
// the stored license state to Pro. The check is a fixed offline format
// test; no external verification call is made.
func (g *Gate) Activate(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	key = strings.ToUpper(strings.TrimSpace(key))
	if !strings.HasPrefix(key, licenseKeyPrefix) || len(key) < licenseKeyMinLen {
		return ErrInvalidLicenseKey
	}

	if err := g.store.SetConfig(ctx, store.ConfigLicenseStatus, licensePro); err != nil {
		return fmt.Errorf("persist license state: %w", err)
	}
	g.logger.Info("pro license activated")
	return nil
}

// CheckAndConsume decides whether one request is permitted right now.
// Licensed sessions always pass without touching the counter. Unlicensed
// sessions lazily reset the counter when the calendar month has rolled
// over, then consume one unit. The unit is consumed on attempt and is not
// refunded if the downstream provider call later fails.
func (g *Gate) CheckAndConsume(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	status, err := g.store.GetConfig(ctx, store.ConfigLicenseStatus)
	if err != nil {
		return fmt.Errorf("read license state: %w", err)
	}
	if status == licensePro {
		return nil
	}

	count, err := g.rolloverLocked(ctx)
	if err != nil {
		return err
	}
	if count >= FreeMonthlyLimit {
		return ErrQuotaExceeded
	}

	if err := g.store.SetConfig(ctx, store.ConfigQueryCount, strconv.Itoa(count+1)); err != nil {
		return fmt.Errorf("persist query count: %w", err)
	}
	g.logger.Debug("query consumed", "used", count+1, "limit", FreeMonthlyLimit)
	return nil
}

// Status reports the current license state and quota usage for display.
// The counter rollover is applied so a stale month never shows.
func (g *Gate) Status(ctx context.Context) (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	status, err := g.store.GetConfig(ctx, store.ConfigLicenseStatus)
	if err != nil {
		return Status{}, fmt.Errorf("read license state: %w", err)
	}
	if status == licensePro {
		return Status{Licensed: true, Limit: FreeMonthlyLimit}, nil
	}

	count, err := g.rolloverLocked(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{Used: count, Limit: FreeMonthlyLimit}, nil
}

// rolloverLocked resets the counter exactly once per distinct month token
// and returns the current count. Callers must hold g.mu.
func (g *Gate) rolloverLocked(ctx context.Context) (int, error) {
	currentMonth := g.now().Format(resetPeriodLayout)
	lastReset, err := g.store.GetConfig(ctx, store.ConfigLastQueryReset)
	if err != nil {
		return 0, fmt.Errorf("read reset period: %w", err)
	}

	if currentMonth != lastReset {
		if err := g.store.SetConfig(ctx, store.ConfigQueryCount, "0"); err != nil {
			return 0, fmt.Errorf("reset query count: %w", err)
		}
		if err := g.store.SetConfig(ctx, store.ConfigLastQueryReset, currentMonth); err != nil {
			return 0, fmt.Errorf("persist reset period: %w", err)
		}
		g.logger.Info("monthly quota window reset", "period", currentMonth)
		return 0, nil
	}

	raw, err := g.store.GetConfig(ctx, store.ConfigQueryCount)
	if err != nil {
		return 0, fmt.Errorf("read query count: %w", err)
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		// A corrupt counter starts the month over rather than locking
		// the user out.
		count = 0
	}
	return count, nil
}
