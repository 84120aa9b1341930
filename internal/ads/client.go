// Package ads provides a mock ads platform that reports campaign spend.
//
// The client simulates network latency and returns plausible figures; no
// real platform is contacted.
package ads

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/adpace/internal/budget"
)

const (
	requestTimeout = 10 * time.Second
	tokenPrefix    = "mock_token_"
	currencyUSD    = "USD"

	// Simulated daily spend is uniform in [minDailyCost, minDailyCost+dailyCostSpread).
	minDailyCost    = 30
	dailyCostSpread = 50
)

var (
	// ErrUnauthorized indicates the token is missing or malformed.
	ErrUnauthorized = errors.New("ads: unauthorized (token missing or invalid)")
	// ErrUnknownAccount indicates the account ID is not visible to the token.
	ErrUnknownAccount = errors.New("ads: unknown account")
	// ErrInvalidRange indicates a reversed or unset date range.
	ErrInvalidRange = errors.New("ads: invalid date range")
)

var mockAccounts = []Account{
	{ID: "1234567890", Name: "Main Marketing Account"},
	{ID: "2345678901", Name: "Brand Awareness Campaign"},
	{ID: "3456789012", Name: "Performance Marketing"},
	{ID: "4567890123", Name: "Retargeting Account"},
}

// SpendSource reports how much an account spent over an inclusive date range.
type SpendSource interface {
	FetchCost(ctx context.Context, accountID string, start, end time.Time) (*CostData, error)
}

// Option configures a MockClient.
type Option func(*MockClient)

// WithLatency sets the simulated response delay.
func WithLatency(d time.Duration) Option {
	return func(c *MockClient) { c.latency = d }
}

// WithRand makes generated costs deterministic.
func WithRand(r *rand.Rand) Option {
	return func(c *MockClient) { c.rng = r }
}

// WithLogger routes request logs to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *MockClient) { c.log = l }
}

// MockClient is an in-process SpendSource.
type MockClient struct {
	token   string
	latency time.Duration
	log     logrus.FieldLogger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewMockClient creates a client for the given token.
// Returns nil if the token is empty, meaning not authenticated.
func NewMockClient(token string, opts ...Option) *MockClient {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	c := &MockClient{
		token: token,
		log:   logrus.StandardLogger(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate simulates the platform sign-in and returns a new token.
// The caller persists it.
func Authenticate(ctx context.Context, latency time.Duration) (string, error) {
	if err := sleep(ctx, latency); err != nil {
		return "", fmt.Errorf("ads: authenticating: %w", err)
	}
	return tokenPrefix + strconv.FormatInt(time.Now().UnixMilli(), 10), nil
}

// FetchAccounts returns the accounts visible to this token.
func (c *MockClient) FetchAccounts(ctx context.Context) ([]Account, error) {
	if err := c.authorize(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := sleep(ctx, c.latency*2/3); err != nil {
		return nil, fmt.Errorf("ads: fetching accounts: %w", err)
	}

	accounts := make([]Account, len(mockAccounts))
	copy(accounts, mockAccounts)
	return accounts, nil
}

// FetchAccountsData wraps FetchAccounts for display, never returning an error
// directly.
func (c *MockClient) FetchAccountsData(ctx context.Context) *AccountsData {
	accounts, err := c.FetchAccounts(ctx)
	return &AccountsData{Accounts: accounts, FetchedAt: time.Now(), Error: err}
}

// FetchCost returns the total spend of accountID from start through end.
func (c *MockClient) FetchCost(ctx context.Context, accountID string, start, end time.Time) (*CostData, error) {
	if err := c.authorize(); err != nil {
		return nil, err
	}

	log := c.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"account_id": accountID,
		"start":      start.Format(DateLayout),
		"end":        end.Format(DateLayout),
	})

	if _, ok := FindAccount(accountID); !ok {
		log.Warn("Spend fetch for unknown account")
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccount, accountID)
	}

	if start.IsZero() || end.IsZero() || budget.DaysBetween(start, end) <= 0 {
		return nil, ErrInvalidRange
	}
	days := budget.DaysBetween(start, end)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	log.Debug("Fetching spend")
	if err := sleep(ctx, c.latency); err != nil {
		log.WithError(err).Warn("Spend fetch aborted")
		return nil, fmt.Errorf("ads: fetching cost: %w", err)
	}

	daily := minDailyCost + c.intn(dailyCostSpread)
	data := &CostData{
		Cost:      float64(days * daily),
		Currency:  currencyUSD,
		StartDate: start.Format(DateLayout),
		EndDate:   end.Format(DateLayout),
	}
	log.WithField("cost", data.Cost).Info("Fetched spend")
	return data, nil
}

func (c *MockClient) authorize() error {
	if c == nil || c.token == "" {
		return ErrUnauthorized
	}
	return nil
}

func (c *MockClient) intn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Intn(n)
}

// FindAccount looks up a mock account by ID.
func FindAccount(id string) (Account, bool) {
	for _, a := range mockAccounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
