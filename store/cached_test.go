package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	data     map[string]json.RawMessage
	getErr   error
	setErr   error
	getCalls int
	setCalls int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{data: map[string]json.RawMessage{}}
}

func (s *flakyStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.data[key], nil
}

func (s *flakyStore) Set(_ context.Context, key string, value json.RawMessage, _ Metadata) error {
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func TestCachedServesMirrorWhenPrimaryFails(t *testing.T) {
	primary := newFlakyStore()
	primary.data["cfg"] = json.RawMessage(`{"v":1}`)
	cached := WithCache(primary)

	value, err := cached.Get(context.Background(), "cfg")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(value))

	primary.getErr = errors.New("db locked")

	value, err = cached.Get(context.Background(), "cfg")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(value))
}

func TestCachedPropagatesErrorWithColdMirror(t *testing.T) {
	primary := newFlakyStore()
	primary.getErr = errors.New("db locked")
	cached := WithCache(primary)

	_, err := cached.Get(context.Background(), "cfg")
	assert.EqualError(t, err, "db locked")
}

func TestCachedAuthoritativeMissInvalidatesMirror(t *testing.T) {
	primary := newFlakyStore()
	primary.data["cfg"] = json.RawMessage(`{"v":1}`)
	cached := WithCache(primary)

	_, err := cached.Get(context.Background(), "cfg")
	require.NoError(t, err)

	// The primary answers authoritatively that the key is gone.
	delete(primary.data, "cfg")
	value, err := cached.Get(context.Background(), "cfg")
	require.NoError(t, err)
	assert.Nil(t, value)

	// The stale mirror entry must not resurface on a later outage.
	primary.getErr = errors.New("db locked")
	_, err = cached.Get(context.Background(), "cfg")
	assert.Error(t, err)
}

func TestCachedWriteThrough(t *testing.T) {
	primary := newFlakyStore()
	cached := WithCache(primary)

	require.NoError(t, cached.Set(context.Background(), "cfg", json.RawMessage(`{"v":2}`), Metadata{UpdatedAt: "2024-05-01T12:00:00.000Z"}))
	assert.JSONEq(t, `{"v":2}`, string(primary.data["cfg"]))

	// A later outage serves the just-written value.
	primary.getErr = errors.New("db locked")
	value, err := cached.Get(context.Background(), "cfg")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(value))
}

func TestCachedWriteFailureIsNotMirrored(t *testing.T) {
	primary := newFlakyStore()
	primary.data["cfg"] = json.RawMessage(`{"v":1}`)
	cached := WithCache(primary)

	_, err := cached.Get(context.Background(), "cfg")
	require.NoError(t, err)

	primary.setErr = errors.New("disk full")
	err = cached.Set(context.Background(), "cfg", json.RawMessage(`{"v":2}`), Metadata{})
	assert.EqualError(t, err, "disk full")

	// The mirror still holds the last acknowledged state.
	primary.getErr = errors.New("db locked")
	value, err := cached.Get(context.Background(), "cfg")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(value))
}

func TestCachedReturnsCopies(t *testing.T) {
	primary := newFlakyStore()
	primary.data["cfg"] = json.RawMessage(`{"v":1}`)
	cached := WithCache(primary)

	_, err := cached.Get(context.Background(), "cfg")
	require.NoError(t, err)

	primary.getErr = errors.New("db locked")
	first, err := cached.Get(context.Background(), "cfg")
	require.NoError(t, err)
	first[0] = 'X'

	second, err := cached.Get(context.Background(), "cfg")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(second))
}
