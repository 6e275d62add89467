package ws

import (
	"encoding/json"
	"time"
)

const EventVacanciesUpdated = "vacancies_updated"

type VacanciesUpdatedEvent struct {
	Type      string  `json:"type"`
	Action    string  `json:"action"`
	IDs       []int64 `json:"ids"`
	Timestamp string  `json:"timestamp"`
}

// Notifier turns vacancy writes into hub broadcasts.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) PublishVacancyEvent(action string, ids []int64) {
	if n == nil || n.hub == nil {
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	evt := VacanciesUpdatedEvent{
		Type:      EventVacanciesUpdated,
		Action:    action,
		IDs:       ids,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		n.hub.logger.WithError(err).Warn("encode vacancy event failed")
		return
	}

	n.hub.Broadcast(b)
}
