package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withLinkedVersion(t *testing.T, value string) {
	t.Helper()

	previous := version
	version = value

	t.Cleanup(func() { version = previous })
}

func TestBuildVersion_PrefersLinkedVersion(t *testing.T) {
	withLinkedVersion(t, "v1.2.3")

	assert.Equal(t, "v1.2.3", buildVersion())
}

func TestBuildVersion_FallsBackToBuildInfo(t *testing.T) {
	withLinkedVersion(t, "")

	assert.NotEmpty(t, buildVersion())
}

func TestVersionCmd_PrintsLinkedVersion(t *testing.T) {
	withLinkedVersion(t, "v0.9.0")

	cmd := newVersionCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "tool version")
	assert.Contains(t, out.String(), "v0.9.0")
	assert.Contains(t, out.String(), "go version")
}
