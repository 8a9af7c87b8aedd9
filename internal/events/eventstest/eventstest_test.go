package eventstest

import (
	"context"
	"errors"
	"testing"

	"propertyexpenses/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, events.New(events.PropertyCreated, "1", nil)))
	require.NoError(t, r.Publish(ctx, events.New(events.PropertyAccountAdded, "1", nil)))

	got := r.Events()
	require.Len(t, got, 2)
	assert.Equal(t, events.PropertyCreated, got[0].Type)
	assert.Equal(t, events.PropertyAccountAdded, got[1].Type)

	r.Err = errors.New("broker down")
	assert.Error(t, r.Publish(ctx, events.New(events.ExpenseUpdated, "2", nil)))
	assert.Len(t, r.Events(), 2)

	r.Reset()
	assert.Empty(t, r.Events())
}
