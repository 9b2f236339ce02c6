package contracts

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC20ABI is the subset of the ERC20 interface this client consumes.
const ERC20ABI = `[
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// ERC20 is a bound instance of a fungible token contract.
type ERC20 struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewERC20 binds a token contract at the given address.
func NewERC20(address common.Address, backend bind.ContractBackend) (*ERC20, error) {
	parsed, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, err
	}

	return &ERC20{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (t *ERC20) Address() common.Address {
	return t.address
}

// Symbol is a free data retrieval call binding the contract method symbol.
func (t *ERC20) Symbol(opts *bind.CallOpts) (string, error) {
	var out []interface{}
	err := t.contract.Call(opts, &out, "symbol")
	if err != nil {
		return "", err
	}

	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// Decimals is a free data retrieval call binding the contract method decimals.
func (t *ERC20) Decimals(opts *bind.CallOpts) (uint8, error) {
	var out []interface{}
	err := t.contract.Call(opts, &out, "decimals")
	if err != nil {
		return 0, err
	}

	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// BalanceOf is a free data retrieval call binding the contract method balanceOf.
func (t *ERC20) BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error) {
	var out []interface{}
	err := t.contract.Call(opts, &out, "balanceOf", owner)
	if err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Transfer is a paid mutator transaction binding the contract method transfer.
func (t *ERC20) Transfer(opts *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.contract.Transact(opts, "transfer", to, amount)
}
