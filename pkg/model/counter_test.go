package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountOpExpr(t *testing.T) {
	assert.Equal(t, "like_count + 1", CountIncr.Expr("like_count").SQL)
	assert.Equal(t, "CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END", CountDecr.Expr("like_count").SQL)
	assert.Equal(t, int64(1), CountIncr.Delta())
	assert.Equal(t, int64(-1), CountDecr.Delta())
	assert.Equal(t, "decr", CountDecr.String())
}
