package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/clooze/internal/domain"
	domainmocks "gooze.dev/pkg/clooze/internal/domain/mocks"
	m "gooze.dev/pkg/clooze/internal/model"
)

func TestListCmd_PassesPathsAndExcludes(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	_, execute, _ := newTestCmd(t, mockWorkflow, newListCmd())

	mockWorkflow.On("Estimate", mock.Anything, mock.MatchedBy(func(args domain.EstimateArgs) bool {
		return len(args.Paths) == 1 &&
			args.Paths[0] == m.Path("lib") &&
			len(args.Exclude) == 1 &&
			args.Preset == "standard"
	})).Return(nil)

	require.NoError(t, execute("list", "-x", "user", "lib"))
}

func TestListCmd_PropagatesError(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	_, execute, _ := newTestCmd(t, mockWorkflow, newListCmd())

	mockWorkflow.On("Estimate", mock.Anything, mock.Anything).Return(assertErr)

	require.ErrorIs(t, execute("list"), assertErr)
}
