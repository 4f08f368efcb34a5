package sender

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ulrichyv/mailing/internal/models"
)

// MockSender simulates delivery for dry runs and local development.
// It succeeds with the configured probability and records nothing.
type MockSender struct {
	channel     models.Channel
	successRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
}

// NewMockSender creates a simulated sender for the given channel.
// successRate: probability of success (0.0 to 1.0), default 0.92 (92%)
func NewMockSender(channel models.Channel, successRate float64) *MockSender {
	if successRate <= 0 || successRate > 1.0 {
		successRate = 0.92
	}

	return &MockSender{
		channel:     channel,
		successRate: successRate,
		minDelay:    50 * time.Millisecond, // Simulate network latency
		maxDelay:    200 * time.Millisecond,
	}
}

func (s *MockSender) Channel() models.Channel {
	return s.channel
}

func (s *MockSender) Open(ctx context.Context) (Session, error) {
	return &mockSession{sender: s}, nil
}

type mockSession struct {
	sender *MockSender
}

// Send simulates sending a message
func (s *mockSession) Send(ctx context.Context, recipient string, msg *models.RenderedMessage) error {
	delay := s.sender.minDelay + time.Duration(rand.Int63n(int64(s.sender.maxDelay-s.sender.minDelay)))

	select {
	case <-time.After(delay):
		// Continue
	case <-ctx.Done():
		return ctx.Err()
	}

	if rand.Float64() > s.sender.successRate {
		return fmt.Errorf("mock sender failed: simulated network error")
	}

	return nil
}

func (s *mockSession) Close() error {
	return nil
}
