package learn

import (
	"context"
	"time"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/mock"
)

// MockLearner is a mock implementation of Learner for testing.
type MockLearner struct {
	mock.Mock
}

var _ contract.Learner = &MockLearner{} // Compile-time check

// RecordPattern implements the Learner interface.
func (m *MockLearner) RecordPattern(ctx context.Context, rec schema.InteractionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// GeneratePredictions implements the Learner interface.
func (m *MockLearner) GeneratePredictions(ctx context.Context, now time.Time) schema.Predictions {
	args := m.Called(ctx, now)
	p, _ := args.Get(0).(schema.Predictions)
	return p
}
