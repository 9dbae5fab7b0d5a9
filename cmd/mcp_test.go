package cmd

import (
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_ServesRegisteredServer(t *testing.T) {
	original := serveStdio
	t.Cleanup(func() { serveStdio = original })

	var served *server.MCPServer

	serveStdio = func(s *server.MCPServer) error {
		served = s
		return errors.New("stdin closed")
	}

	_, execute, _ := newTestCmd(t, nil, newMCPCmd())

	err := execute("mcp")
	require.EqualError(t, err, "stdin closed")
	assert.NotNil(t, served)
}

func TestMCPCmd_RejectsArgs(t *testing.T) {
	_, execute, _ := newTestCmd(t, nil, newMCPCmd())

	require.Error(t, execute("mcp", "extra"))
}
