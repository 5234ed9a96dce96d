package client

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// DefaultSyncInterval is how often the timer trigger asks for a fresh
// snapshot.
const DefaultSyncInterval = 5 * time.Second

// RefreshTrigger decides when the reconciliation loop pulls a fresh snapshot.
// We create this abstraction so that the timer-based transport can be swapped
// for an event-driven one (server push) without touching the state container
// or the mutation handlers.
type RefreshTrigger interface {
	// C delivers one signal per desired refresh.
	C() <-chan struct{}
	// Stop releases the trigger's resources. The trigger must not signal
	// after Stop returns.
	Stop()
}

// TriggerFactory builds a fresh trigger for each sync run. The loop owns the
// trigger's lifecycle: one run, one trigger.
type TriggerFactory func() RefreshTrigger

// TimerTrigger signals at a fixed interval.
type TimerTrigger struct {
	ticker *time.Ticker
	ch     chan struct{}
	done   chan struct{}
}

func NewTimerTrigger(interval time.Duration) *TimerTrigger {
	t := &TimerTrigger{
		ticker: time.NewTicker(interval),
		ch:     make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TimerTrigger) run() {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case t.ch <- struct{}{}:
			default:
				// A refresh is already pending, collapse the tick.
			}
		}
	}
}

func (t *TimerTrigger) C() <-chan struct{} {
	return t.ch
}

func (t *TimerTrigger) Stop() {
	t.ticker.Stop()
	close(t.done)
}

// RefreshTopic is the event-bus topic PushTrigger subscribes to.
const RefreshTopic = "squadnet.refresh"

// PushTrigger signals whenever a refresh event arrives on the event bus. It
// is the push-transport counterpart of TimerTrigger.
type PushTrigger struct {
	ch     chan struct{}
	cancel context.CancelFunc
}

func NewPushTrigger(eventBus *gochannel.GoChannel) (*PushTrigger, error) {
	ctx, cancel := context.WithCancel(context.Background())

	messages, err := eventBus.Subscribe(ctx, RefreshTopic)
	if err != nil {
		cancel()
		return nil, err
	}

	t := &PushTrigger{
		ch:     make(chan struct{}, 1),
		cancel: cancel,
	}
	go t.run(messages)
	return t, nil
}

func (t *PushTrigger) run(messages <-chan *message.Message) {
	for msg := range messages {
		msg.Ack()
		select {
		case t.ch <- struct{}{}:
		default:
			// A refresh is already pending, collapse the event.
		}
	}
}

func (t *PushTrigger) C() <-chan struct{} {
	return t.ch
}

func (t *PushTrigger) Stop() {
	t.cancel()
}

// PublishRefresh asks every subscribed PushTrigger to refresh.
func PublishRefresh(eventBus *gochannel.GoChannel) error {
	msg := message.NewMessage(watermill.NewUUID(), []byte{})
	return eventBus.Publish(RefreshTopic, msg)
}
