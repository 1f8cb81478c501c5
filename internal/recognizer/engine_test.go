package recognizer

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_WriteHelperScript(t *testing.T) {
	t.Run("should materialize the embedded helper", func(t *testing.T) {
		// Arrange
		engine := &Engine{}

		// Act
		scriptPath, err := engine.writeHelperScript()

		// Assert
		require.NoError(t, err)
		defer os.Remove(scriptPath)
		data, err := os.ReadFile(scriptPath)
		require.NoError(t, err)
		assert.Equal(t, helperScript, data)
	})

	t.Run("should give each invocation its own file", func(t *testing.T) {
		// Arrange
		engine := &Engine{}

		// Act
		firstPath, err := engine.writeHelperScript()
		require.NoError(t, err)
		defer os.Remove(firstPath)
		secondPath, err := engine.writeHelperScript()
		require.NoError(t, err)
		defer os.Remove(secondPath)

		// Assert
		assert.NotEqual(t, firstPath, secondPath)
	})
}
