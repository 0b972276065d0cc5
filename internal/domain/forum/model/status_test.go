package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStatusAction(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name   string
		cur    Topped
		action StatusAction
		want   Topped
		err    error
	}{
		{"reset pinned", 1600000000, ActionReset, ToppedNormal, nil},
		{"moveup normal", ToppedNormal, ActionMoveup, 1700000000, nil},
		{"moveup hidden", ToppedHidden, ActionMoveup, 1700000000, nil},
		{"hide", ToppedNormal, ActionHidden, ToppedHidden, nil},
		{"delete hidden", ToppedHidden, ActionDelete, ToppedDeleted, nil},
		{"deleted is terminal", ToppedDeleted, ActionReset, ToppedDeleted, ErrDeleted},
		{"legacy deleted value", -5, ActionMoveup, -5, ErrDeleted},
		{"unknown action", ToppedNormal, StatusAction("archive"), ToppedNormal, ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyStatusAction(tt.cur, tt.action, now)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToppedDecomposition(t *testing.T) {
	assert.Equal(t, StatusDeleted, Topped(-3).Status())
	assert.Equal(t, StatusHidden, ToppedHidden.Status())
	assert.Equal(t, StatusNormal, ToppedNormal.Status())
	assert.Equal(t, StatusNormal, Topped(2000).Status())

	assert.Nil(t, ToppedNormal.PinnedAt())
	assert.Nil(t, ToppedHidden.PinnedAt())
	require.NotNil(t, Topped(2000).PinnedAt())
	assert.Equal(t, int64(2000), Topped(2000).PinnedAt().Unix())

	assert.True(t, Topped(1).IsActive())
	assert.False(t, ToppedHidden.IsActive())
	assert.True(t, ToppedDeleted.IsDeleted())
	assert.False(t, ToppedHidden.IsDeleted())
}

func TestVisibleStyle(t *testing.T) {
	assert.True(t, StyleAll.Allows(ToppedHidden))
	assert.False(t, StyleAll.Allows(ToppedDeleted))
	assert.False(t, StyleNormal.Allows(ToppedHidden))
	assert.True(t, StyleNormal.Allows(1000))

	q, v := StyleNormal.Where()
	assert.Equal(t, "topped >= ?", q)
	assert.Equal(t, ToppedNormal, v)
	q, v = StyleAll.Where()
	assert.Equal(t, "topped > ?", q)
	assert.Equal(t, ToppedDeleted, v)
}

func TestParseStatusAction(t *testing.T) {
	a, err := ParseStatusAction("moveup")
	require.NoError(t, err)
	assert.Equal(t, ActionMoveup, a)

	_, err = ParseStatusAction("MOVEUP")
	assert.ErrorIs(t, err, ErrInvalidAction)
}
