package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/worktodo/am"
	"github.com/teranos/worktodo/errors"
)

func TestExitCode(t *testing.T) {
	cfg := am.DefaultConfig()
	cfg.Queue.Path = ""
	invalid := errors.Wrap(cfg.Validate(), "invalid configuration")

	assert.Equal(t, 2, exitCode(invalid))
	assert.Equal(t, 1, exitCode(errors.NewNotFoundError("no runnable assignment")))
	assert.Equal(t, 1, exitCode(errors.New("disk full")))
}
