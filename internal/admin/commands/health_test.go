package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck_ReportsHealthyForMemoryBackends(t *testing.T) {
	cmd := newHealthCheckCmd()
	err := runCommand(cmd, firstWord(cmd.Use))
	assert.NoError(t, err)
}

func TestHealthCorpus_ReportsHealthyForMemoryStore(t *testing.T) {
	cmd := newHealthCorpusCmd()
	err := runCommand(cmd, firstWord(cmd.Use))
	assert.NoError(t, err)
}

func TestHealthCache_ReportsHealthyForMemoryCache(t *testing.T) {
	cmd := newHealthCacheCmd()
	err := runCommand(cmd, firstWord(cmd.Use))
	assert.NoError(t, err)
}

func TestHealthQueue_ReportsHealthyForMemoryQueue(t *testing.T) {
	cmd := newHealthQueueCmd()
	err := runCommand(cmd, firstWord(cmd.Use))
	assert.NoError(t, err)
}
