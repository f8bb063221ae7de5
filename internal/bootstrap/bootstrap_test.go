package bootstrap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellershut/categories/internal/bootstrap"
)

func TestInitRunsInRegistrationOrderAndStopsOnError(t *testing.T) {
	var order []int
	lc := bootstrap.New(zap.NewNop(), false)

	lc.RegisterInit(func() error { order = append(order, 1); return nil })
	lc.RegisterInit(func() error { order = append(order, 2); return errors.New("boom") })
	lc.RegisterInit(func() error { order = append(order, 3); return nil })

	err := lc.Init()
	assert.Error(t, err)
	assert.Equal(t, []int{1, 2}, order)
}

func TestRunReturnsFirstRunFunctionError(t *testing.T) {
	lc := bootstrap.New(zap.NewNop(), false)
	want := errors.New("run failed")
	lc.RegisterRun(func() error { return want })

	err := lc.Run()
	assert.ErrorIs(t, err, want)
}

func TestRunExecutesCleanupInLIFOOrder(t *testing.T) {
	lc := bootstrap.New(zap.NewNop(), false)
	var order []int

	lc.RegisterCleanup(func() { order = append(order, 1) })
	lc.RegisterCleanup(func() { order = append(order, 2) })
	lc.RegisterRun(func() error { return nil })

	require.NoError(t, lc.Run())
	assert.Equal(t, []int{2, 1}, order)
}
