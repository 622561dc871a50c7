package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterStampsChannelAndTime(t *testing.T) {
	feed := NewRecentFeed(10)
	at := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	em := NewEmitter(Hooks{feed}, Config{Enabled: true})
	em.now = func() time.Time { return at }
	require.True(t, em.Enabled())

	ctx := context.Background()
	require.NoError(t, em.Emit(ctx, Event{Verb: "created", ObjectType: "ticket", ObjectID: "31"}))
	require.NoError(t, em.Emit(ctx, Event{Verb: "updated", ObjectType: "profile", Channel: "cli", OccurredAt: at.Add(-time.Hour)}))

	recent, err := feed.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, "cli", recent[0].Channel)
	assert.True(t, recent[0].OccurredAt.Equal(at.Add(-time.Hour)))
	assert.Equal(t, DefaultChannel, recent[1].Channel)
	assert.True(t, recent[1].OccurredAt.Equal(at))
}

func TestEmitterConfiguredChannel(t *testing.T) {
	feed := NewRecentFeed(1)
	em := NewEmitter(Hooks{feed}, Config{Enabled: true, Channel: "scanner"})
	require.NoError(t, em.Emit(context.Background(), Event{Verb: "validated", ObjectType: "ticket"}))

	recent, _ := feed.Recent(context.Background(), 1)
	require.Len(t, recent, 1)
	assert.Equal(t, "scanner", recent[0].Channel)
}

func TestEmitterDisabled(t *testing.T) {
	feed := NewRecentFeed(1)
	cases := map[string]*Emitter{
		"nil":      nil,
		"no hooks": NewEmitter(nil, Config{Enabled: true}),
		"off":      NewEmitter(Hooks{feed}, Config{}),
	}
	for name, em := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, em.Enabled())
			assert.NoError(t, em.Emit(context.Background(), Event{Verb: "deleted", ObjectType: "admin"}))
		})
	}
	recent, _ := feed.Recent(context.Background(), 0)
	assert.Empty(t, recent)
}

func TestRecentFeedCapsAndLimits(t *testing.T) {
	feed := NewRecentFeed(3)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		require.NoError(t, feed.Notify(ctx, Event{Verb: "created", ObjectType: "event", ObjectID: fmt.Sprint(i)}))
	}

	all, err := feed.Recent(ctx, -1)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, evt := range all {
		ids = append(ids, evt.ObjectID)
	}
	assert.Equal(t, []string{"5", "4", "3"}, ids)

	two, err := feed.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	assert.Equal(t, 50, NewRecentFeed(0).capacity)
}
