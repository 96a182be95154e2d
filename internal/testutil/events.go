package testutil

import (
	"context"
	"encoding/json"
	"sync"
)

type Message struct {
	Topic string
	Key   string
	Value map[string]any
}

// EventRecorder keeps published events in memory, decoded back from JSON
// the same way a consumer would see them.
type EventRecorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (r *EventRecorder) Publish(_ context.Context, topic, key string, event any) error {
	if r.Err != nil {
		return r.Err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.mu.Lock()
	r.messages = append(r.messages, Message{Topic: topic, Key: key, Value: v})
	r.mu.Unlock()
	return nil
}

func (r *EventRecorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// OfType returns recorded events whose "type" field equals typ.
func (r *EventRecorder) OfType(typ string) []Message {
	var out []Message
	for _, m := range r.Messages() {
		if m.Value["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}
