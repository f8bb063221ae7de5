package logging

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsProductionLogger(t *testing.T) {
	logger, err := New(Config{Environment: "production"})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestNewBuildsDevelopmentLogger(t *testing.T) {
	logger, err := New(Config{Environment: "development"})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestNewEncoderDiffersByEnvironment(t *testing.T) {
	dev := newEncoder("development")
	prod := newEncoder("production")
	assert.NotEqual(t, reflect.TypeOf(dev), reflect.TypeOf(prod))
}
