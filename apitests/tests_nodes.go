package apitests

import (
	"net/http"

	"github.com/trxmining/api-contract-tests/framework"
	"github.com/trxmining/api-contract-tests/servicedef"
)

func DoNodeTests(t *T) {
	t.get("list", servicedef.PathNodes, framework.Expect(framework.Status(http.StatusOK),
		framework.ListField("nodes", 1),
		framework.EveryItemHasFields("nodes", servicedef.NodeFields...)))

	primary := t.primaryAccount()
	purchaseTimeout := t.env.params.Timeouts.Purchase
	hash := t.newTransactionHash()

	result := t.postWithTimeout("purchase", servicedef.PathPurchase,
		servicedef.PurchaseParams{NodeID: "node1", TransactionHash: hash, UserID: primary.userID.Value},
		purchaseTimeout,
		framework.Expect(framework.Status(http.StatusOK), framework.FieldsPresent("message", "node")),
		primary.userID)
	usedHash := framework.Capture("transactionHash", hash)
	if !result.Success {
		usedHash = framework.FallbackFor("transactionHash", hash, "purchase did not succeed")
	}

	t.postWithTimeout("invalid node", servicedef.PathPurchase,
		servicedef.PurchaseParams{NodeID: "invalid_node", TransactionHash: t.newTransactionHash(),
			UserID: primary.userID.Value},
		purchaseTimeout,
		expectRejected(http.StatusBadRequest, "Invalid node"),
		primary.userID)

	t.postWithTimeout("invalid transaction hash", servicedef.PathPurchase,
		servicedef.PurchaseParams{NodeID: "node2", TransactionHash: "invalid_hash", UserID: primary.userID.Value},
		purchaseTimeout,
		expectRejected(http.StatusBadRequest, "Invalid transaction hash"),
		primary.userID)

	t.postWithTimeout("duplicate transaction hash", servicedef.PathPurchase,
		servicedef.PurchaseParams{NodeID: "node2", TransactionHash: usedHash.Value, UserID: primary.userID.Value},
		purchaseTimeout,
		framework.Expect(framework.Status(http.StatusBadRequest), framework.FieldPresent("error")),
		primary.userID, usedHash)
}
