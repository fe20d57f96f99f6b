package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/service"
)

// MockWriter records Write calls instead of talking to the Sheets API.
type MockWriter struct {
	WriteFunc  func(ctx context.Context, merchants []model.Merchant, summary service.ReportSummary) error
	WriteCalls []WriteCall
	mu         sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error     error
	Merchants []model.Merchant
	Summary   service.ReportSummary
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements service.ReportWriter.
func (m *MockWriter) Write(ctx context.Context, merchants []model.Merchant, summary service.ReportSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, merchants, summary)
	}

	recorded := make([]model.Merchant, len(merchants))
	copy(recorded, merchants)
	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Merchants: recorded,
		Summary:   summary,
		Error:     err,
	})
	return err
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls = nil
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError makes every following Write call return err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, []model.Merchant, service.ReportSummary) error {
		return err
	}
}
