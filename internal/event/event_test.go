package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "Resolved", typ: Resolved},
		{want: "CopyStarted", typ: CopyStarted},
		{want: "CopyCompleted", typ: CopyCompleted},
		{want: "CopyFailed", typ: CopyFailed},
		{want: "VerifyStarted", typ: VerifyStarted},
		{want: "VerifyOK", typ: VerifyOK},
		{want: "VerifyFailed", typ: VerifyFailed},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(999).String())
	assert.Equal(t, "Unknown", Type(0).String())
	assert.Equal(t, "Unknown", Type(-3).String())
}

func TestHandlerEmit(t *testing.T) {
	var got []Event
	h := Handler(func(ev Event) { got = append(got, ev) })

	before := time.Now()
	h.Emit(Event{Type: Resolved, Container: "web", Root: "/merged"})
	h.Emit(Event{Type: CopyFailed, Error: errors.New("boom")})

	require.Len(t, got, 2)
	assert.Equal(t, Resolved, got[0].Type)
	assert.Equal(t, "/merged", got[0].Root)
	assert.False(t, got[0].Timestamp.Before(before), "timestamp is stamped on emit")
	assert.EqualError(t, got[1].Error, "boom")
}

func TestHandlerEmitKeepsTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var got Event
	Handler(func(ev Event) { got = ev }).Emit(Event{Type: VerifyOK, Timestamp: ts})
	assert.Equal(t, ts, got.Timestamp)
}

func TestNilHandlerEmit(t *testing.T) {
	var h Handler
	assert.NotPanics(t, func() { h.Emit(Event{Type: CopyStarted}) })
}
