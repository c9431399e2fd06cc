package apitests

import (
	"context"

	"github.com/trxmining/api-contract-tests/config"
	"github.com/trxmining/api-contract-tests/framework"
)

// Params configures a suite run.
type Params struct {
	Timeouts config.Timeouts

	// NewName generates unique usernames; nil means uniqueName.
	NewName func(prefix string) string

	// NewTransactionHash generates unused transaction hashes; nil means uniqueTransactionHash.
	NewTransactionHash func() string
}

// RunTestSuite executes every group of the contract suite against the executor's base URL and
// returns the log of executed test cases.
func RunTestSuite(
	ctx context.Context,
	executor *framework.Executor,
	params Params,
	options framework.RunOptions,
) *framework.ResultLog {
	if params.NewName == nil {
		params.NewName = uniqueName
	}
	if params.NewTransactionHash == nil {
		params.NewTransactionHash = uniqueTransactionHash
	}
	return framework.Run(ctx, executor, options, func(c *framework.Context) {
		t := &T{
			context: c,
			env:     &environment{params: params},
		}

		t.Run("auth", DoAuthTests)
		t.Run("nodes", DoNodeTests)
		t.Run("user", DoUserTests)
		t.Run("withdraw", DoWithdrawTests)
		t.Run("withdrawals", DoWithdrawalListTests)
		t.Run("admin", DoAdminTests)
		t.Run("errors", DoErrorHandlingTests)
		t.Run("workflows", DoWorkflowTests)
	})
}
