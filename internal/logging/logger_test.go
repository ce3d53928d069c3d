package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", "json")
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger, err = NewLogger("INFO", "")
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = NewLogger("loud", "json")
	require.Error(t, err)

	_, err = NewLogger("info", "xml")
	require.Error(t, err)
}
