package dao

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	comm "github.com/commonsdao/govclient/internal/common"
	"github.com/commonsdao/govclient/internal/services/ethrequest"
	"github.com/commonsdao/govclient/pkg/contracts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// GovernanceContract is the read/write surface the client consumes on the
// governance contract.
type GovernanceContract interface {
	ProposalCount(opts *bind.CallOpts) (*big.Int, error)
	GetProposal(opts *bind.CallOpts, proposalId *big.Int) (contracts.GovernanceProposal, error)
	GetProposalResult(opts *bind.CallOpts, proposalId *big.Int) (contracts.GovernanceResult, error)
	IsProposalActive(opts *bind.CallOpts, proposalId *big.Int) (bool, error)
	HasUserVoted(opts *bind.CallOpts, proposalId *big.Int, voter common.Address) (bool, error)
	GetVotingPower(opts *bind.CallOpts, voter common.Address) (*big.Int, error)
	Vote(opts *bind.TransactOpts, proposalId *big.Int, support bool) (*types.Transaction, error)
	CreateProposal(opts *bind.TransactOpts, title string, description string) (*types.Transaction, error)
}

// TokenContract is the surface the client consumes on a fungible token.
type TokenContract interface {
	Symbol(opts *bind.CallOpts) (string, error)
	Decimals(opts *bind.CallOpts) (uint8, error)
	BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error)
	Transfer(opts *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error)
}

// Client exposes the governance operations for one configured network. A
// client without a signing key serves reads only; writes fail with a
// configuration error.
type Client struct {
	network Network
	evm     EVMRequester
	chainID *big.Int

	gov    GovernanceContract
	token  TokenContract
	stable TokenContract // nil on networks without a stable asset

	privateKey *ecdsa.PrivateKey
	account    common.Address
	keyErr     error
}

// NewClient resolves the network selector and connects. An unknown selector
// fails before any connection attempt.
func NewClient(ctx context.Context, networkName, privateKeyHex string) (*Client, error) {
	network, err := GetNetwork(networkName)
	if err != nil {
		return nil, err
	}

	return NewClientWithNetwork(ctx, network, privateKeyHex)
}

// NewClientWithNetwork connects to an already resolved network configuration.
// The RPC url may have been overridden by the caller.
func NewClientWithNetwork(ctx context.Context, network Network, privateKeyHex string) (*Client, error) {
	evm, err := ethrequest.NewEthService(ctx, network.RPCURL)
	if err != nil {
		return nil, NewTransportError(fmt.Sprintf("failed to connect to rpc endpoint: %s", network.RPCURL), err)
	}

	chainID, err := evm.ChainID()
	if err != nil {
		evm.Close()
		return nil, NewTransportError("failed to fetch chain id", err)
	}

	if chainID.Cmp(network.ChainID) != 0 {
		evm.Close()
		return nil, NewConfigError(fmt.Sprintf("rpc endpoint reports chain id %s, expected %s for %s", chainID, network.ChainID, network.Name), nil)
	}

	// the contract must be deployed at the configured address
	bytecode, err := evm.CodeAt(ctx, network.Contracts.Governance, nil)
	if err != nil {
		evm.Close()
		return nil, NewTransportError("failed to fetch governance contract bytecode", err)
	}

	if len(bytecode) == 0 {
		evm.Close()
		return nil, NewConfigError(fmt.Sprintf("no governance contract deployed at %s on %s", network.Contracts.Governance.Hex(), network.Name), nil)
	}

	gov, err := contracts.NewGovernance(network.Contracts.Governance, evm.Backend())
	if err != nil {
		evm.Close()
		return nil, NewConfigError("failed to bind governance contract", err)
	}

	token, err := contracts.NewERC20(network.Contracts.Token, evm.Backend())
	if err != nil {
		evm.Close()
		return nil, NewConfigError("failed to bind token contract", err)
	}

	c := &Client{
		network: network,
		evm:     evm,
		chainID: chainID,
		gov:     gov,
		token:   token,
	}

	if network.HasStableAsset() {
		stable, err := contracts.NewERC20(network.Contracts.StableAsset, evm.Backend())
		if err != nil {
			evm.Close()
			return nil, NewConfigError("failed to bind stable asset contract", err)
		}

		c.stable = stable
	}

	if privateKeyHex != "" {
		privateKey, err := comm.HexToPrivateKey(privateKeyHex)
		if err != nil {
			// a malformed key still permits read-only use, the error
			// surfaces on the first write
			c.keyErr = err
		} else {
			c.privateKey = privateKey
			c.account = comm.AddressFromKey(privateKey)
		}
	}

	return c, nil
}

// Network returns the resolved network configuration the client runs against.
func (c *Client) Network() Network {
	return c.network
}

// Account returns the signer address, if a signing key was configured.
func (c *Client) Account() (common.Address, bool) {
	return c.account, c.privateKey != nil
}

func (c *Client) Close() {
	c.evm.Close()
}

func (c *Client) callOpts() *bind.CallOpts {
	return &bind.CallOpts{Context: c.evm.Context()}
}

// signerOpts builds the transactor for a write operation, or fails with a
// configuration error when no usable key is configured.
func (c *Client) signerOpts() (*bind.TransactOpts, error) {
	if c.privateKey == nil {
		return nil, NewConfigError("write operation requires a signer: set PRIVATE_KEY", c.keyErr)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.chainID)
	if err != nil {
		return nil, NewConfigError("failed to derive transactor from private key", err)
	}

	opts.Context = c.evm.Context()

	return opts, nil
}

// GetProposal reads a single proposal, its computed result and its active
// flag, and composes them into a Proposal snapshot.
func (c *Client) GetProposal(proposalId uint64) (*Proposal, error) {
	id := new(big.Int).SetUint64(proposalId)

	record, err := c.gov.GetProposal(c.callOpts(), id)
	if err != nil {
		return nil, NewTransportError(fmt.Sprintf("failed to fetch proposal %d", proposalId), err)
	}

	status, err := decodeStatus(record.Status)
	if err != nil {
		return nil, err
	}

	result, err := c.gov.GetProposalResult(c.callOpts(), id)
	if err != nil {
		return nil, NewTransportError(fmt.Sprintf("failed to fetch result for proposal %d", proposalId), err)
	}

	active, err := c.gov.IsProposalActive(c.callOpts(), id)
	if err != nil {
		return nil, NewTransportError(fmt.Sprintf("failed to fetch active flag for proposal %d", proposalId), err)
	}

	return &Proposal{
		ID:          record.Id.Uint64(),
		Title:       record.Title,
		Description: record.Description,
		StartTime:   time.Unix(int64(record.StartTime.Uint64()), 0).UTC(),
		EndTime:     time.Unix(int64(record.EndTime.Uint64()), 0).UTC(),
		YesVotes:    record.YesVotes,
		NoVotes:     record.NoVotes,
		Cancelled:   record.Cancelled,
		Status:      status,
		IsActive:    active,
		Result: ProposalResult{
			Ended:      result.Ended,
			Passed:     result.Passed,
			YesVotes:   result.YesVotes,
			NoVotes:    result.NoVotes,
			TotalVotes: result.TotalVotes,
		},
	}, nil
}

// ListProposals enumerates proposals in ascending id order. The contract
// assigns 1-based contiguous ids, which this enumeration relies on.
//
// Enumeration is best-effort: a single id failing to fetch is logged and
// skipped, the remaining proposals are still returned.
func (c *Client) ListProposals() ([]Proposal, error) {
	count, err := c.gov.ProposalCount(c.callOpts())
	if err != nil {
		return nil, NewTransportError("failed to fetch proposal count", err)
	}

	proposals := []Proposal{}
	for id := uint64(1); id <= count.Uint64(); id++ {
		p, err := c.GetProposal(id)
		if err != nil {
			log.Default().Println("skipping proposal ", id, ": ", err)
			continue
		}

		proposals = append(proposals, *p)
	}

	return proposals, nil
}

// GetVotingPower reads the vote weight of an address at query time.
func (c *Client) GetVotingPower(address string) (*VotingPower, error) {
	raw, err := c.gov.GetVotingPower(c.callOpts(), common.HexToAddress(address))
	if err != nil {
		return nil, NewTransportError(fmt.Sprintf("failed to fetch voting power for %s", address), err)
	}

	return &VotingPower{
		Address: address,
		Power:   comm.FromBaseUnits(raw, TokenDecimals),
		Raw:     raw,
	}, nil
}

// HasVoted reports whether an address has already voted on a proposal.
func (c *Client) HasVoted(proposalId uint64, address string) (bool, error) {
	voted, err := c.gov.HasUserVoted(c.callOpts(), new(big.Int).SetUint64(proposalId), common.HexToAddress(address))
	if err != nil {
		return false, NewTransportError(fmt.Sprintf("failed to fetch vote flag for %s on proposal %d", address, proposalId), err)
	}

	return voted, nil
}

// GetTreasury reads the token holdings the DAO controls. Symbol, decimals
// and the splitter balance are independent reads and are dispatched
// concurrently. The stable asset balance is best-effort: it is an auxiliary
// display value, so a failed read is captured in the snapshot instead of
// failing it.
func (c *Client) GetTreasury() (*TreasurySnapshot, error) {
	var (
		wg       sync.WaitGroup
		symbol   string
		decimals uint8
		balance  *big.Int

		symbolErr, decimalsErr, balanceErr error
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		symbol, symbolErr = c.token.Symbol(c.callOpts())
	}()

	go func() {
		defer wg.Done()
		decimals, decimalsErr = c.token.Decimals(c.callOpts())
	}()

	go func() {
		defer wg.Done()
		balance, balanceErr = c.token.BalanceOf(c.callOpts(), c.network.Contracts.Splitter)
	}()

	wg.Wait()

	for _, err := range []error{symbolErr, decimalsErr, balanceErr} {
		if err != nil {
			return nil, NewTransportError("failed to read treasury", err)
		}
	}

	snapshot := &TreasurySnapshot{
		TokenSymbol:     symbol,
		TokenDecimals:   decimals,
		SplitterBalance: comm.FromBaseUnits(balance, int(decimals)),
	}

	if c.stable != nil {
		stableBalance, err := c.stable.BalanceOf(c.callOpts(), c.network.Contracts.Governance)
		if err != nil {
			snapshot.StableError = err.Error()
		} else {
			snapshot.StableBalance = comm.FromBaseUnits(stableBalance, StableAssetDecimals)
		}
	}

	return snapshot, nil
}

// Vote submits a vote on a proposal and blocks until it is mined.
//
// Every guard is checked before the transaction is sent, in order: signer,
// proposal active, not already voted, nonzero voting power. Each guard is a
// remote read and short-circuits so a doomed transaction never spends fees.
// These checks stay fatal (unlike the treasury's best-effort stable read)
// precisely because they gate fee spend. The reported voting power is the
// pre-check value; it is assumed stable across the confirmation window.
func (c *Client) Vote(proposalId uint64, support bool) (*TransactionResult, error) {
	opts, err := c.signerOpts()
	if err != nil {
		return nil, err
	}

	id := new(big.Int).SetUint64(proposalId)

	active, err := c.gov.IsProposalActive(c.callOpts(), id)
	if err != nil {
		return nil, NewTransportError(fmt.Sprintf("failed to fetch active flag for proposal %d", proposalId), err)
	}

	if !active {
		return nil, NewPreconditionError(fmt.Sprintf("proposal %d is not open for voting", proposalId), nil)
	}

	voted, err := c.gov.HasUserVoted(c.callOpts(), id, c.account)
	if err != nil {
		return nil, NewTransportError(fmt.Sprintf("failed to fetch vote flag for proposal %d", proposalId), err)
	}

	if voted {
		return nil, NewPreconditionError(fmt.Sprintf("already voted on proposal %d", proposalId), nil)
	}

	power, err := c.gov.GetVotingPower(c.callOpts(), c.account)
	if err != nil {
		return nil, NewTransportError("failed to fetch voting power", err)
	}

	if power.Sign() == 0 {
		return nil, NewPreconditionError("insufficient voting power: balance is zero", nil)
	}

	tx, err := c.gov.Vote(opts, id, support)
	if err != nil {
		return nil, NewTransportError("failed to submit vote", err)
	}

	if err := c.evm.WaitForTx(tx); err != nil {
		return nil, NewTransportError("vote transaction failed", err)
	}

	return &TransactionResult{
		Success:     true,
		TxHash:      tx.Hash().Hex(),
		ExplorerURL: c.network.TxURL(tx.Hash().Hex()),
		ProposalID:  proposalId,
		Support:     &support,
		VotingPower: comm.FromBaseUnits(power, TokenDecimals),
	}, nil
}

// Donate transfers a stable asset amount to the governance contract and
// blocks until the transfer is mined. Only available on networks with a
// stable asset deployed.
func (c *Client) Donate(amount string) (*TransactionResult, error) {
	if c.stable == nil {
		return nil, NewConfigError(fmt.Sprintf("donations are not available on %s: no stable asset deployed", c.network.Name), nil)
	}

	opts, err := c.signerOpts()
	if err != nil {
		return nil, err
	}

	units, err := comm.ToBaseUnits(amount, StableAssetDecimals)
	if err != nil {
		return nil, NewPreconditionError("invalid donation amount", err)
	}

	tx, err := c.stable.Transfer(opts, c.network.Contracts.Governance, units)
	if err != nil {
		return nil, NewTransportError("failed to submit donation", err)
	}

	if err := c.evm.WaitForTx(tx); err != nil {
		return nil, NewTransportError("donation transaction failed", err)
	}

	return &TransactionResult{
		Success:     true,
		TxHash:      tx.Hash().Hex(),
		ExplorerURL: c.network.TxURL(tx.Hash().Hex()),
		Amount:      amount,
	}, nil
}

// CreateProposal submits a proposal and blocks until it is mined. The
// contract assigns the id, so the proposal count is re-read after
// confirmation to report it. Contract-side authorization (owner-only) is
// enforced remotely and surfaces as a reverted transaction.
func (c *Client) CreateProposal(title, description string) (*TransactionResult, error) {
	opts, err := c.signerOpts()
	if err != nil {
		return nil, err
	}

	tx, err := c.gov.CreateProposal(opts, title, description)
	if err != nil {
		return nil, NewTransportError("failed to submit proposal", err)
	}

	if err := c.evm.WaitForTx(tx); err != nil {
		return nil, NewTransportError("proposal transaction failed", err)
	}

	result := &TransactionResult{
		Success:     true,
		TxHash:      tx.Hash().Hex(),
		ExplorerURL: c.network.TxURL(tx.Hash().Hex()),
		Title:       title,
	}

	// the transaction is already confirmed, a failed count re-read only
	// loses the reported id
	count, err := c.gov.ProposalCount(c.callOpts())
	if err != nil {
		log.Default().Println("failed to re-read proposal count: ", err)
		return result, nil
	}

	result.ProposalID = count.Uint64()

	return result, nil
}
