package ratelimit

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRateLimiter struct {
	mock.Mock
}

func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

func (m *MockRateLimiter) Allow(ctx context.Context, authorID string, token string) (bool, error) {
	args := m.Called(ctx, authorID, token)
	return args.Bool(0), args.Error(1)
}
