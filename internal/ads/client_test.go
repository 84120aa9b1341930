package ads

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, opts ...Option) *MockClient {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewSource(1))), WithLogger(quietLogger())}, opts...)
	c := NewMockClient("mock_token_1", opts...)
	require.NotNil(t, c)
	return c
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestNewMockClient_EmptyTokenIsUnauthenticated(t *testing.T) {
	assert.Nil(t, NewMockClient(""))
	assert.Nil(t, NewMockClient("   "))

	var c *MockClient
	_, err := c.FetchCost(context.Background(), "1234567890", time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// MockClient must satisfy the interface the TUI and commands depend on.
var _ SpendSource = (*MockClient)(nil)

func TestFetchCost(t *testing.T) {
	c := newTestClient(t)

	data, err := c.FetchCost(context.Background(), "1234567890", date(t, "2025-01-01"), date(t, "2025-01-05"))
	require.NoError(t, err)

	assert.Equal(t, "USD", data.Currency)
	assert.Equal(t, "2025-01-01", data.StartDate)
	assert.Equal(t, "2025-01-05", data.EndDate)

	// Five days at a whole-dollar daily rate between 30 and 79.
	assert.GreaterOrEqual(t, data.Cost, 150.0)
	assert.LessOrEqual(t, data.Cost, 395.0)
	assert.Zero(t, int(data.Cost)%5)

	start, end, err := data.Range()
	require.NoError(t, err)
	assert.Equal(t, date(t, "2025-01-01"), start)
	assert.Equal(t, date(t, "2025-01-05"), end)
}

func TestFetchCost_JSONShape(t *testing.T) {
	c := newTestClient(t)
	data, err := c.FetchCost(context.Background(), "2345678901", date(t, "2025-03-10"), date(t, "2025-03-10"))
	require.NoError(t, err)

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	for _, key := range []string{`"cost"`, `"currency"`, `"startDate"`, `"endDate"`} {
		assert.True(t, strings.Contains(string(raw), key), "missing %s in %s", key, raw)
	}
}

func TestFetchCost_Errors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.FetchCost(ctx, "999", date(t, "2025-01-01"), date(t, "2025-01-05"))
	assert.ErrorIs(t, err, ErrUnknownAccount)

	_, err = c.FetchCost(ctx, "1234567890", date(t, "2025-01-05"), date(t, "2025-01-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = c.FetchCost(ctx, "1234567890", time.Time{}, date(t, "2025-01-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestFetchCost_HonorsCancellation(t *testing.T) {
	c := newTestClient(t, WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchCost(ctx, "1234567890", date(t, "2025-01-01"), date(t, "2025-01-05"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchAccounts(t *testing.T) {
	c := newTestClient(t)

	accounts, err := c.FetchAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 4)
	assert.Equal(t, "Main Marketing Account", accounts[0].Name)

	// Callers get a copy.
	accounts[0].Name = "changed"
	a, ok := FindAccount("1234567890")
	require.True(t, ok)
	assert.Equal(t, "Main Marketing Account", a.Name)
}

func TestFetchAccountsData_CarriesError(t *testing.T) {
	var c *MockClient
	data := c.FetchAccountsData(context.Background())
	assert.ErrorIs(t, data.Error, ErrUnauthorized)
	assert.Empty(t, data.Accounts)
}

func TestAuthenticate(t *testing.T) {
	tok, err := Authenticate(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok, "mock_token_"))
	assert.NotNil(t, NewMockClient(tok))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Authenticate(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
