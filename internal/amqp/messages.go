package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"finboard/internal/core"
)

// BudgetAlertMessage carries one budget alert from the API to the worker.
type BudgetAlertMessage struct {
	MessageID string           `json:"message_id"`
	Alert     core.BudgetAlert `json:"alert"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewBudgetAlertMessage wraps an alert with a fresh message id
func NewBudgetAlertMessage(alert core.BudgetAlert) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		MessageID: uuid.NewString(),
		Alert:     alert,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON decodes and sanity-checks a message body
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Alert.CategoryID == 0 || msg.Alert.Period == "" {
		return nil, errors.New("budget alert message missing category or period")
	}
	if msg.Alert.Tier != core.TierWarning && msg.Alert.Tier != core.TierOver {
		return nil, errors.New("budget alert message has non-alerting tier " + string(msg.Alert.Tier))
	}
	return &msg, nil
}
