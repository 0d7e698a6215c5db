package factory

import (
	"time"

	"github.com/mcoot/clickgame-go/internal/dependencies/mocks"
	"github.com/mcoot/clickgame-go/internal/identity/dev"
	"github.com/mcoot/clickgame-go/internal/services/auth"
	"github.com/mcoot/clickgame-go/internal/storage/memory"
	"github.com/mcoot/clickgame-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and the dev identity provider
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, dev.New(), mockClock, mockRandom, auth.DefaultConfig(), auth.DefaultSweepInterval, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}
