package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotLatestLoadWins(t *testing.T) {
	var s Slot[string]
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})
	firstDone := make(chan struct{})

	go func() {
		defer close(firstDone)
		v, err := s.Load(context.Background(), func(context.Context) (string, error) {
			close(firstStarted)
			<-releaseFirst
			return "stale", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "stale", v, "caller still gets its own result")
	}()

	<-firstStarted
	assert.True(t, s.Loading())

	v, err := s.Load(context.Background(), func(context.Context) (string, error) {
		return "fresh", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "fresh", v)

	close(releaseFirst)
	<-firstDone

	stored, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, "fresh", stored)
	assert.False(t, s.Loading())
}

func TestSlotFailureKeepsLastValue(t *testing.T) {
	var s Slot[int]
	_, _ = s.Load(context.Background(), func(context.Context) (int, error) { return 7, nil })

	boom := errors.New("boom")
	_, err := s.Load(context.Background(), func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Err(), boom)
	assert.False(t, s.Loading(), "loading resets on failure")

	v, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	s.Reset()
	_, ok = s.Value()
	assert.False(t, ok)
	assert.NoError(t, s.Err())
}
