package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/reclaim/pkg/config"
	"github.com/ajitpratap0/reclaim/pkg/pool"
)

// suiteTimeout bounds every test of an IntegrationTestSuite.
const suiteTimeout = 2 * time.Minute

// IntegrationTestSuite runs workloads end to end. Each test gets a fresh
// context and a private pool registry.
type IntegrationTestSuite struct {
	suite.Suite
	ctx      context.Context
	cancel   context.CancelFunc
	registry *pool.Registry
}

// SetupTest runs before each test in the suite.
func (s *IntegrationTestSuite) SetupTest() {
	if testing.Short() {
		s.T().Skip("skipping workload suite in short mode")
	}
	s.ctx, s.cancel = context.WithTimeout(context.Background(), suiteTimeout)
	s.registry = pool.NewRegistry()
}

// TearDownTest fails the test if it left pools registered.
func (s *IntegrationTestSuite) TearDownTest() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.registry != nil {
		s.Empty(s.registry.Names(), "pools still registered after the test")
	}
}

// Context returns the per-test context.
func (s *IntegrationTestSuite) Context() context.Context {
	return s.ctx
}

// Registry returns the per-test pool registry.
func (s *IntegrationTestSuite) Registry() *pool.Registry {
	return s.registry
}

// WriteConfig saves cfg under name in a per-test directory and returns the
// path. The extension picks the format.
func (s *IntegrationTestSuite) WriteConfig(name string, cfg *config.Config) string {
	path := filepath.Join(s.T().TempDir(), name)
	s.Require().NoError(config.Save(path, cfg))
	return path
}
