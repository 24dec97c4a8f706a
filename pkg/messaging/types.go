package messaging

import (
	"time"

	"github.com/boristopalov/lightswitch/pkg/core"
)

const (
	TopicStep    = "step"
	TopicEpisode = "episode"
)

// Message is one event on the bus
type Message struct {
	From      string   // episode or experiment ID of the publisher
	To        []string // subscriber IDs (empty means broadcast)
	Topic     string
	Content   any
	Timestamp time.Time
}

// StepMessage wraps a step record for broadcast
func StepMessage(record core.StepRecord) Message {
	return Message{
		From:      record.EpisodeID,
		Topic:     TopicStep,
		Content:   record,
		Timestamp: record.Timestamp,
	}
}

// Broker routes messages to subscribers
type Broker interface {
	// Publish sends a message to specified recipients
	Publish(msg Message) error
	// Subscribe registers a subscriber channel
	Subscribe(id string, ch chan<- Message) error
	// Unsubscribe removes a subscription
	Unsubscribe(id string) error
}
