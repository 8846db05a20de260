package contract

import (
	"context"

	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/mock"
)

// MockPetService is a mock implementation of PetService for testing.
type MockPetService struct {
	mock.Mock
}

var _ PetService = &MockPetService{} // Compile-time check

// Analyze implements the PetService interface.
func (m *MockPetService) Analyze(ctx context.Context, scope string) schema.Decision {
	args := m.Called(ctx, scope)
	d, _ := args.Get(0).(schema.Decision)
	return d
}

// RecordReaction implements the PetService interface.
func (m *MockPetService) RecordReaction(ctx context.Context, mood schema.Mood, reaction schema.Reaction) error {
	return m.Called(ctx, mood, reaction).Error(0)
}

// RecordSprint implements the PetService interface.
func (m *MockPetService) RecordSprint(ctx context.Context, minutes int, success bool) error {
	return m.Called(ctx, minutes, success).Error(0)
}

// Predictions implements the PetService interface.
func (m *MockPetService) Predictions(ctx context.Context) schema.Predictions {
	p, _ := m.Called(ctx).Get(0).(schema.Predictions)
	return p
}
