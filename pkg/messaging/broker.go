package messaging

import (
	"fmt"
	"sync"
)

type subscription struct {
	ch   chan<- Message
	wait bool
}

// SimpleBroker delivers messages to buffered subscriber channels. Plain
// subscribers never block a publisher; blocking subscribers apply backpressure.
type SimpleBroker struct {
	subscribers map[string]subscription
	mu          sync.RWMutex
}

func NewBroker() *SimpleBroker {
	return &SimpleBroker{
		subscribers: make(map[string]subscription),
	}
}

// Publish sends msg to its recipients, or to every subscriber except the
// sender when To is empty. A full channel is reported after the remaining
// recipients have been served. Sends to blocking subscribers wait for room,
// so those channels must be drained until Unsubscribe.
func (b *SimpleBroker) Publish(msg Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	recipients := msg.To
	if len(recipients) == 0 {
		for id := range b.subscribers {
			if id != msg.From {
				recipients = append(recipients, id)
			}
		}
	}

	var full []string
	for _, id := range recipients {
		sub, ok := b.subscribers[id]
		if !ok {
			continue
		}
		if sub.wait {
			sub.ch <- msg
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			full = append(full, id)
		}
	}
	if len(full) > 0 {
		return fmt.Errorf("subscriber channel full: %v", full)
	}
	return nil
}

func (b *SimpleBroker) Subscribe(id string, ch chan<- Message) error {
	return b.subscribe(id, subscription{ch: ch})
}

// SubscribeBlocking registers ch so that no message is dropped when it is full
func (b *SimpleBroker) SubscribeBlocking(id string, ch chan<- Message) error {
	return b.subscribe(id, subscription{ch: ch, wait: true})
}

func (b *SimpleBroker) subscribe(id string, sub subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[id]; exists {
		return fmt.Errorf("%s is already subscribed", id)
	}
	b.subscribers[id] = sub
	return nil
}

// Unsubscribe removes id. Once it returns no further sends reach the channel,
// so the caller may close it.
func (b *SimpleBroker) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[id]; !exists {
		return fmt.Errorf("%s is not subscribed", id)
	}
	delete(b.subscribers, id)
	return nil
}

func (b *SimpleBroker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = make(map[string]subscription)
}
