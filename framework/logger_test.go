package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerRecordsMessages(t *testing.T) {
	var logger CapturingLogger
	logger.Printf("first %d", 1)
	logger.Printf("second")

	output := logger.Output()
	require.Len(t, output, 2)
	assert.Equal(t, "first 1", output[0].Message)
	assert.Equal(t, "second", output[1].Message)
	assert.False(t, output[0].Time.IsZero())
}

func TestCapturingLoggerOutputIsACopy(t *testing.T) {
	var logger CapturingLogger
	logger.Printf("one")
	output := logger.Output()
	logger.Printf("two")

	assert.Len(t, output, 1)
	assert.Len(t, logger.Output(), 2)
}

func TestCapturedOutputDump(t *testing.T) {
	var logger CapturingLogger
	logger.Printf("curl -s -X GET http://localhost:4567/todos")

	var buf bytes.Buffer
	logger.Output().Dump(&buf, "    DEBUG ")

	out := buf.String()
	assert.Contains(t, out, "    DEBUG [")
	assert.Contains(t, out, "] curl -s -X GET http://localhost:4567/todos\n")
}

func TestNullLoggerDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		NullLogger().Printf("ignored %s", "entirely")
	})
}
