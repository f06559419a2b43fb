package attr

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSet(t *testing.T, raw string) *Set {
	t.Helper()
	var s Set
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return &s
}

func TestUnmarshal_Flat(t *testing.T) {
	s := decodeSet(t, `{"at": [true, "b1-1"], "empty": true}`)

	assert.Equal(t, ShapeFlat, s.Shape())
	at, ok := s.Resolve("at")
	require.True(t, ok)
	assert.Equal(t, []any{true, "b1-1"}, at)
	assert.True(t, s.InKnown("empty"))
}

func TestUnmarshal_Split(t *testing.T) {
	s := decodeSet(t, `{"known": {"distance": 10, "edge": false},
		"unknown": {"blockedness": {"min": 0, "max": 100, "actual": 40}}}`)

	assert.Equal(t, ShapeSplit, s.Shape())
	assert.True(t, s.InKnown("distance"))
	assert.True(t, s.InUnknown("blockedness"))

	v, ok := s.Get("blockedness")
	require.True(t, ok)
	assert.Equal(t, KindUnknown, v.Kind())
	assert.Equal(t, 40.0, v.Resolve())
	lo, hi := v.Range()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 100.0, hi)
}

func TestUnmarshal_UnknownOverridesKnown(t *testing.T) {
	s := decodeSet(t, `{"known": {"alive": true}, "unknown": {"alive": {"min": 0, "max": 1, "actual": false}}}`)

	v, ok := s.Resolve("alive")
	require.True(t, ok)
	assert.Equal(t, false, v)
	assert.True(t, s.InUnknown("alive"))
}

func TestUnmarshal_BadDescriptor(t *testing.T) {
	var s Set
	err := json.Unmarshal([]byte(`{"known": {}, "unknown": {"alive": 3}}`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alive")
}

func TestWrite(t *testing.T) {
	t.Run("existing known key", func(t *testing.T) {
		s := decodeSet(t, `{"known": {"distance": 10}, "unknown": {}}`)
		require.NoError(t, s.Write("distance", 12.0, CreateNone))
		v, _ := s.Get("distance")
		assert.True(t, v.IsKnown())
		assert.Equal(t, 12.0, v.Resolve())
	})

	t.Run("existing unknown key keeps range", func(t *testing.T) {
		s := decodeSet(t, `{"known": {}, "unknown": {"buriedness": {"min": 0, "max": 50, "actual": 5}}}`)
		require.NoError(t, s.Write("buriedness", 20.0, CreateNone))
		v, _ := s.Get("buriedness")
		assert.Equal(t, KindUnknown, v.Kind())
		assert.Equal(t, 20.0, v.Resolve())
		_, hi := v.Range()
		assert.Equal(t, 50.0, hi)
	})

	t.Run("absent key without create", func(t *testing.T) {
		s := NewSplit()
		err := s.Write("alive", true, CreateNone)
		assert.True(t, errors.Is(err, ErrNoSuchKey))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("absent key created unknown", func(t *testing.T) {
		s := NewSplit()
		require.NoError(t, s.Write("edge", true, CreateUnknown))
		assert.True(t, s.InUnknown("edge"))
	})

	t.Run("flat object never creates unknown", func(t *testing.T) {
		s := NewFlat()
		require.NoError(t, s.Write("edge", true, CreateUnknown))
		assert.True(t, s.InKnown("edge"))
	})
}

func TestMarshal_RoundTrip(t *testing.T) {
	raw := `{"known": {"distance": 10, "edge": true}, "unknown": {"blockedness": {"min": 0, "max": 100, "actual": 0}}}`
	s := decodeSet(t, raw)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestClone_IsIndependent(t *testing.T) {
	s := decodeSet(t, `{"known": {"distance": 10}, "unknown": {}}`)
	c := s.Clone()
	require.NoError(t, c.Write("distance", 3.0, CreateNone))
	c.Delete("distance")

	v, ok := s.Resolve("distance")
	require.True(t, ok)
	assert.Equal(t, 10.0, v)
}

func TestBool(t *testing.T) {
	assert.False(t, Bool(nil))
	assert.False(t, Bool(false))
	assert.False(t, Bool(0.0))
	assert.True(t, Bool(true))
	assert.True(t, Bool("x"))
}
