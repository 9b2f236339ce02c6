package contracts

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// GovernanceABI is the fixed input ABI of the governance contract.
const GovernanceABI = `[
	{"type":"function","name":"proposalCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getProposal","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"id","type":"uint256"},{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"yesVotes","type":"uint256"},{"name":"noVotes","type":"uint256"},{"name":"cancelled","type":"bool"},{"name":"status","type":"uint8"}]},
	{"type":"function","name":"getProposalResult","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"ended","type":"bool"},{"name":"passed","type":"bool"},{"name":"yesVotes","type":"uint256"},{"name":"noVotes","type":"uint256"},{"name":"totalVotes","type":"uint256"}]},
	{"type":"function","name":"isProposalActive","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"hasUserVoted","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"},{"name":"voter","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getVotingPower","stateMutability":"view","inputs":[{"name":"voter","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"},{"name":"support","type":"bool"}],"outputs":[]},
	{"type":"function","name":"createProposal","stateMutability":"nonpayable","inputs":[{"name":"title","type":"string"},{"name":"description","type":"string"}],"outputs":[]}
]`

// GovernanceProposal is the record returned by getProposal.
type GovernanceProposal struct {
	Id          *big.Int
	Title       string
	Description string
	StartTime   *big.Int
	EndTime     *big.Int
	YesVotes    *big.Int
	NoVotes     *big.Int
	Cancelled   bool
	Status      uint8
}

// GovernanceResult is the record returned by getProposalResult.
type GovernanceResult struct {
	Ended      bool
	Passed     bool
	YesVotes   *big.Int
	NoVotes    *big.Int
	TotalVotes *big.Int
}

// Governance is a bound instance of the governance contract.
type Governance struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewGovernance binds the governance contract at the given address.
func NewGovernance(address common.Address, backend bind.ContractBackend) (*Governance, error) {
	parsed, err := abi.JSON(strings.NewReader(GovernanceABI))
	if err != nil {
		return nil, err
	}

	return &Governance{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (g *Governance) Address() common.Address {
	return g.address
}

// ProposalCount is a free data retrieval call binding the contract method proposalCount.
func (g *Governance) ProposalCount(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "proposalCount")
	if err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// GetProposal is a free data retrieval call binding the contract method getProposal.
func (g *Governance) GetProposal(opts *bind.CallOpts, proposalId *big.Int) (GovernanceProposal, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "getProposal", proposalId)

	outstruct := GovernanceProposal{}
	if err != nil {
		return outstruct, err
	}

	outstruct.Id = *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	outstruct.Title = *abi.ConvertType(out[1], new(string)).(*string)
	outstruct.Description = *abi.ConvertType(out[2], new(string)).(*string)
	outstruct.StartTime = *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	outstruct.EndTime = *abi.ConvertType(out[4], new(*big.Int)).(**big.Int)
	outstruct.YesVotes = *abi.ConvertType(out[5], new(*big.Int)).(**big.Int)
	outstruct.NoVotes = *abi.ConvertType(out[6], new(*big.Int)).(**big.Int)
	outstruct.Cancelled = *abi.ConvertType(out[7], new(bool)).(*bool)
	outstruct.Status = *abi.ConvertType(out[8], new(uint8)).(*uint8)

	return outstruct, nil
}

// GetProposalResult is a free data retrieval call binding the contract method getProposalResult.
func (g *Governance) GetProposalResult(opts *bind.CallOpts, proposalId *big.Int) (GovernanceResult, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "getProposalResult", proposalId)

	outstruct := GovernanceResult{}
	if err != nil {
		return outstruct, err
	}

	outstruct.Ended = *abi.ConvertType(out[0], new(bool)).(*bool)
	outstruct.Passed = *abi.ConvertType(out[1], new(bool)).(*bool)
	outstruct.YesVotes = *abi.ConvertType(out[2], new(*big.Int)).(**big.Int)
	outstruct.NoVotes = *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	outstruct.TotalVotes = *abi.ConvertType(out[4], new(*big.Int)).(**big.Int)

	return outstruct, nil
}

// IsProposalActive is a free data retrieval call binding the contract method isProposalActive.
func (g *Governance) IsProposalActive(opts *bind.CallOpts, proposalId *big.Int) (bool, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "isProposalActive", proposalId)
	if err != nil {
		return false, err
	}

	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// HasUserVoted is a free data retrieval call binding the contract method hasUserVoted.
func (g *Governance) HasUserVoted(opts *bind.CallOpts, proposalId *big.Int, voter common.Address) (bool, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "hasUserVoted", proposalId, voter)
	if err != nil {
		return false, err
	}

	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// GetVotingPower is a free data retrieval call binding the contract method getVotingPower.
func (g *Governance) GetVotingPower(opts *bind.CallOpts, voter common.Address) (*big.Int, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "getVotingPower", voter)
	if err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Vote is a paid mutator transaction binding the contract method vote.
func (g *Governance) Vote(opts *bind.TransactOpts, proposalId *big.Int, support bool) (*types.Transaction, error) {
	return g.contract.Transact(opts, "vote", proposalId, support)
}

// CreateProposal is a paid mutator transaction binding the contract method createProposal.
func (g *Governance) CreateProposal(opts *bind.TransactOpts, title string, description string) (*types.Transaction, error) {
	return g.contract.Transact(opts, "createProposal", title, description)
}
