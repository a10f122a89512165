package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	a int
	b string
}

func TestApply_InOrder(t *testing.T) {
	tgt := &target{}

	err := Apply(tgt,
		NoError(func(c *target) { c.a = 1 }),
		New(func(c *target) error {
			c.b = "set"
			return nil
		}),
		NoError(func(c *target) { c.a = 2 }),
	)

	require.NoError(t, err)
	require.Equal(t, 2, tgt.a)
	require.Equal(t, "set", tgt.b)
}

func TestApply_StopsOnError(t *testing.T) {
	tgt := &target{}
	boom := errors.New("boom")

	err := Apply(tgt,
		New(func(*target) error { return boom }),
		NoError(func(c *target) { c.a = 1 }),
	)

	require.ErrorIs(t, err, boom)
	require.Zero(t, tgt.a, "options after a failure must not run")
}
