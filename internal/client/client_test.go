package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeout(t *testing.T) {
	cases := []time.Duration{
		500 * time.Millisecond,
		1500 * time.Millisecond,
		30 * time.Second,
	}
	for _, timeout := range cases {
		c, err := New(timeout, "")
		require.NoError(t, err)
		assert.Equal(t, timeout, c.TClient().Timeout)
	}
}
