package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message kinds carried on the project sync queue.
const (
	KindUpsert = "upsert"
	KindDelete = "delete"
)

// ProjectSyncMessage tells the worker that a project changed. It
// carries only the ID and kind; the worker fetches the full project
// from the database before exporting.
type ProjectSyncMessage struct {
	ProjectID int64     `json:"project_id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// NewProjectSyncMessage creates an upsert message for a project
func NewProjectSyncMessage(projectID int64) *ProjectSyncMessage {
	return &ProjectSyncMessage{
		ProjectID: projectID,
		Kind:      KindUpsert,
		Timestamp: time.Now(),
	}
}

// NewProjectDeleteMessage creates a delete message for a project
func NewProjectDeleteMessage(projectID int64) *ProjectSyncMessage {
	return &ProjectSyncMessage{
		ProjectID: projectID,
		Kind:      KindDelete,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ProjectSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ProjectSyncMessageFromJSON creates a message from JSON bytes
func ProjectSyncMessageFromJSON(data []byte) (*ProjectSyncMessage, error) {
	var msg ProjectSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind != KindUpsert && msg.Kind != KindDelete {
		return nil, fmt.Errorf("unknown message kind %q", msg.Kind)
	}
	return &msg, nil
}
