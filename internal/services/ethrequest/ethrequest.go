package ethrequest

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	ETHChainID = "eth_chainId"
)

// EthService is the connection handle to a single RPC endpoint. Every remote
// call the client makes goes through here.
type EthService struct {
	rpc    *rpc.Client
	client *ethclient.Client
	ctx    context.Context
}

func NewEthService(ctx context.Context, endpoint string) (*EthService, error) {
	rpc, err := rpc.Dial(endpoint)
	if err != nil {
		return nil, err
	}

	client := ethclient.NewClient(rpc)

	return &EthService{rpc, client, ctx}, nil
}

func (e *EthService) Context() context.Context {
	return e.ctx
}

func (e *EthService) Backend() bind.ContractBackend {
	return e.client
}

func (e *EthService) Close() {
	e.client.Close()
}

func (e *EthService) ChainID() (*big.Int, error) {
	var id string
	err := e.rpc.Call(&id, ETHChainID)
	if err != nil {
		return nil, err
	}

	chid, ok := big.NewInt(0).SetString(strip0x(id), 16)
	if !ok {
		return nil, errors.New("invalid chain id")
	}

	return chid, nil
}

func (e *EthService) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return e.client.CodeAt(e.ctx, account, blockNumber)
}

// WaitForTx blocks until the transaction is mined. A mined but reverted
// transaction is reported as an error.
func (e *EthService) WaitForTx(tx *types.Transaction) error {
	rcpt, err := bind.WaitMined(e.ctx, e.client, tx)
	if err != nil {
		return err
	}

	if rcpt.Status != types.ReceiptStatusSuccessful {
		return errors.New("tx failed")
	}

	return nil
}

func strip0x(h string) string {
	if len(h) > 2 && h[:2] == "0x" {
		return h[2:]
	}

	return h
}
