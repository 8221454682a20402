package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kairosolo/kprefs/internal/events"
)

func TestBus_DispatchAndUnsubscribe(t *testing.T) {
	bus := events.NewBus(nil)

	var data int
	var names []string
	d := bus.OnDataChanged(func() { data++ })
	a := bus.OnActiveProfileChanged(func(n string) { names = append(names, n) })
	assert.Equal(t, 2, bus.Len())

	bus.DataChanged()
	bus.ActiveProfileChanged("P")
	assert.Equal(t, 1, data)
	assert.Equal(t, []string{"P"}, names)

	assert.True(t, bus.Unsubscribe(d))
	assert.True(t, bus.Unsubscribe(a))
	assert.False(t, bus.Unsubscribe(a))

	bus.DataChanged()
	bus.ActiveProfileChanged("Q")
	assert.Equal(t, 1, data)
	assert.Equal(t, []string{"P"}, names)
	assert.Zero(t, bus.Len())
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := events.NewBus(zap.New(core))

	var ran bool
	bus.OnDataChanged(func() { panic("boom") })
	bus.OnDataChanged(func() { ran = true })

	assert.NotPanics(t, bus.DataChanged)
	assert.True(t, ran)
	assert.Equal(t, 1, logs.FilterMessage("event handler panicked").Len())
}

func TestBus_UnsubscribeDuringDispatch(t *testing.T) {
	bus := events.NewBus(nil)

	var calls int
	var self events.Subscription
	self = bus.OnDataChanged(func() {
		calls++
		bus.Unsubscribe(self)
	})

	bus.DataChanged()
	bus.DataChanged()
	assert.Equal(t, 1, calls)
}
