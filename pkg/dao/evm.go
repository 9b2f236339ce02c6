package dao

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EVMRequester is the connection handle the client issues all remote calls
// through. Each client owns its own requester, there is no shared state
// between client instances.
type EVMRequester interface {
	Context() context.Context
	Backend() bind.ContractBackend

	ChainID() (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)

	// WaitForTx blocks until the transaction is mined and returns an error
	// for reverted transactions. There is no cancellation once submitted.
	WaitForTx(tx *types.Transaction) error

	Close()
}
