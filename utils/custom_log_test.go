package utils

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	require.NoError(t, SetLevel("warn"))
	defer SetLevel("info")

	LogInfo("hidden %d", 1)
	LogWarn("shown %d", 2)
	LogErro("shown %d", 3)
	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "WARNING shown 2")
	require.Contains(t, out, "ERROR shown 3")

	require.Error(t, SetLevel("loud"))
}

func TestLogColor(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetColorPrint(true)
	defer SetColorPrint(false)

	LogErro("boom")
	require.Contains(t, buf.String(), "\033[31mERROR\033[0m boom")
}
