package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueStats_ReportsDepthForMemoryQueue(t *testing.T) {
	cmd := newQueueStatsCmd()
	err := runCommand(cmd, firstWord(cmd.Use))
	assert.NoError(t, err)
}

func TestInitQueue_RejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Queue.Driver = "bogus"
	_, err := initQueue(cfg)
	assert.Error(t, err)
}
