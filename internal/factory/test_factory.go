package factory

import (
	"time"

	"github.com/openfield/pickup/internal/dependencies/mocks"
	"github.com/openfield/pickup/internal/services/auth"
	"github.com/openfield/pickup/internal/storage/memory"
	"github.com/openfield/pickup/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.AccessSecret = "test-access-secret"
	authCfg.RefreshSecret = "test-refresh-secret"

	app := newWithDependencies(store, mockClock, mockRandom, authCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
