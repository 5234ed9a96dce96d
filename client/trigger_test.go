package client

import (
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/require"
)

func TestTimerTriggerFires(t *testing.T) {
	trigger := NewTimerTrigger(10 * time.Millisecond)
	defer trigger.Stop()

	select {
	case <-trigger.C():
	case <-time.After(time.Second):
		t.Fatal("timer trigger never fired")
	}
}

func TestTimerTriggerCollapsesPendingTicks(t *testing.T) {
	trigger := NewTimerTrigger(5 * time.Millisecond)
	defer trigger.Stop()

	// Let several ticks pile up while nobody is draining.
	time.Sleep(50 * time.Millisecond)

	<-trigger.C()
	select {
	case <-trigger.C():
		// A second signal right away is acceptable only once, the
		// buffered channel holds at most one pending refresh.
		select {
		case <-trigger.C():
			t.Fatal("more than one pending refresh was buffered")
		default:
		}
	default:
	}
}

func TestPushTriggerReceivesPublishedRefresh(t *testing.T) {
	eventBus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer eventBus.Close()

	trigger, err := NewPushTrigger(eventBus)
	require.NoError(t, err)
	defer trigger.Stop()

	require.NoError(t, PublishRefresh(eventBus))

	select {
	case <-trigger.C():
	case <-time.After(time.Second):
		t.Fatal("push trigger never fired")
	}
}
