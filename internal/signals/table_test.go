package signals

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultsSetsid(t *testing.T) {
	tbl, err := Build(true, nil)
	require.NoError(t, err)

	assert.Equal(t, Forward(syscall.SIGTERM), tbl.Lookup(syscall.SIGTERM))
	assert.Equal(t, Forward(syscall.SIGHUP), tbl.Lookup(syscall.SIGHUP))
	assert.Equal(t, ForwardAndSuspendSelf(syscall.SIGTSTP), tbl.Lookup(syscall.SIGTSTP))
	assert.Equal(t, ForwardAndSuspendSelf(syscall.SIGTSTP), tbl.Lookup(syscall.SIGTTIN))
	assert.Equal(t, ForwardAndSuspendSelf(syscall.SIGTSTP), tbl.Lookup(syscall.SIGTTOU))
}

func TestBuildDefaultsNoSetsid(t *testing.T) {
	tbl, err := Build(false, nil)
	require.NoError(t, err)

	assert.Equal(t, ForwardAndSuspendSelf(syscall.SIGTSTP), tbl.Lookup(syscall.SIGTSTP))
	assert.Equal(t, ForwardAndSuspendSelf(syscall.SIGTTIN), tbl.Lookup(syscall.SIGTTIN))
	assert.Equal(t, ForwardAndSuspendSelf(syscall.SIGTTOU), tbl.Lookup(syscall.SIGTTOU))
}

func TestBuildRewriteToZeroIgnores(t *testing.T) {
	tbl, err := Build(true, []Rewrite{{From: syscall.SIGINT, To: 0}})
	require.NoError(t, err)

	assert.Equal(t, Ignore(), tbl.Lookup(syscall.SIGINT))
}

func TestBuildRewriteOrdinarySignal(t *testing.T) {
	tbl, err := Build(true, []Rewrite{{From: syscall.SIGTERM, To: syscall.SIGINT}})
	require.NoError(t, err)

	assert.Equal(t, Forward(syscall.SIGINT), tbl.Lookup(syscall.SIGTERM))
}

func TestBuildRewriteJobControlPreservesSuspend(t *testing.T) {
	tbl, err := Build(true, []Rewrite{{From: syscall.SIGTSTP, To: syscall.SIGUSR1}})
	require.NoError(t, err)

	assert.Equal(t, ForwardAndSuspendSelf(syscall.SIGUSR1), tbl.Lookup(syscall.SIGTSTP))
}

func TestBuildRewriteBoundary(t *testing.T) {
	tbl, err := Build(true, []Rewrite{
		{From: 1, To: 31},
		{From: 31, To: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, Forward(31), tbl.Lookup(1))
	assert.Equal(t, Forward(1), tbl.Lookup(31))
}

func TestBuildRewriteOutOfRangeRejected(t *testing.T) {
	cases := []Rewrite{
		{From: 32, To: 1},
		{From: 0, To: 1},
		{From: -1, To: 1},
		{From: 15, To: 32},
		{From: 15, To: -1},
	}
	for _, rw := range cases {
		_, err := Build(true, []Rewrite{rw})
		assert.Error(t, err, "rewrite %+v should be rejected", rw)
	}
}

func TestLookupOutOfRangeIsIdentityForward(t *testing.T) {
	tbl, err := Build(true, nil)
	require.NoError(t, err)
	assert.Equal(t, Forward(99), tbl.Lookup(99))
}
