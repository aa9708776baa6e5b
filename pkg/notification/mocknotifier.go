package notification

import (
	"fmt"
	"sync"
)

// SentNotice records one delivery attempt made through a MockNotifier.
type SentNotice struct {
	NoticeType NoticeType
	To         string
	Data       map[string]string
}

// MockNotifier records sends instead of delivering them. FailWith, when set,
// makes every send fail; tests use it to verify that issuance tolerates
// delivery failure.
type MockNotifier struct {
	mutex    sync.Mutex
	Sent     []SentNotice
	FailWith error
}

// NewMockNotifier creates a new recording notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.FailWith != nil {
		return fmt.Errorf("mock delivery failure: %w", m.FailWith)
	}

	m.Sent = append(m.Sent, SentNotice{
		NoticeType: noticeType,
		To:         notification.To,
		Data:       notification.Data,
	})
	return nil
}

// LastSent returns the most recent recorded notice, or false if none.
func (m *MockNotifier) LastSent() (SentNotice, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.Sent) == 0 {
		return SentNotice{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}
