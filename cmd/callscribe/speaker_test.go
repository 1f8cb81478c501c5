package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOtherParty(t *testing.T) {
	t.Run("should parse the name from an incoming call filename", func(t *testing.T) {
		// Act
		name := parseOtherParty("/recordings/Tel-From-Jane_Doe-2025-08-07-18-15-48.m4a")

		// Assert
		assert.Equal(t, "Jane Doe", name)
	})

	t.Run("should parse the name from an outgoing call filename", func(t *testing.T) {
		// Act
		name := parseOtherParty("Tel-To-Sam-2025-01-02-09-00-00.m4a")

		// Assert
		assert.Equal(t, "Sam", name)
	})

	t.Run("should return empty for unrecognized filenames", func(t *testing.T) {
		assert.Equal(t, "", parseOtherParty("/recordings/meeting.m4a"))
	})

	t.Run("should replace underscores with spaces", func(t *testing.T) {
		// Act
		name := parseOtherParty("Tel-From-Mary_Jane_Watson-2024-12-31-23-59-59.m4a")

		// Assert
		assert.Equal(t, "Mary Jane Watson", name)
	})
}

func TestDefaultOutputPath(t *testing.T) {
	t.Run("should place the lrc file beside the input", func(t *testing.T) {
		// Act
		output := defaultOutputPath(filepath.Join("/calls", "recording.m4a"))

		// Assert
		assert.Equal(t, filepath.Join("/calls", "recording.lrc"), output)
	})

	t.Run("should handle inputs without an extension", func(t *testing.T) {
		// Act
		output := defaultOutputPath("recording")

		// Assert
		assert.Equal(t, "recording.lrc", output)
	})
}

func TestNewRootCommand(t *testing.T) {
	t.Run("should require the input flag", func(t *testing.T) {
		// Arrange
		cmd := newRootCommand()
		cmd.SetArgs([]string{})

		// Act
		err := cmd.Execute()

		// Assert
		assert.Error(t, err)
	})

	t.Run("should reject an invalid device choice", func(t *testing.T) {
		// Arrange
		cmd := newRootCommand()
		cmd.SetArgs([]string{"--input", "x.m4a", "--device", "tpu"})

		// Act
		err := cmd.Execute()

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "device")
	})

	t.Run("should reject an invalid normalizer choice", func(t *testing.T) {
		// Arrange
		cmd := newRootCommand()
		cmd.SetArgs([]string{"--input", "x.m4a", "--normalize", "compress"})

		// Act
		err := cmd.Execute()

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "normalize")
	})
}

func TestValidateChoice(t *testing.T) {
	t.Run("should accept allowed values", func(t *testing.T) {
		assert.NoError(t, validateChoice("other-on", "left", "left", "right"))
	})

	t.Run("should reject values outside the allowed set", func(t *testing.T) {
		assert.Error(t, validateChoice("other-on", "center", "left", "right"))
	})
}
