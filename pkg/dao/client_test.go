package dao

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/commonsdao/govclient/pkg/contracts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

type fakeEVM struct{}

func (e *fakeEVM) Context() context.Context      { return context.Background() }
func (e *fakeEVM) Backend() bind.ContractBackend { return nil }
func (e *fakeEVM) ChainID() (*big.Int, error)    { return big.NewInt(11155111), nil }
func (e *fakeEVM) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}
func (e *fakeEVM) WaitForTx(tx *types.Transaction) error { return nil }
func (e *fakeEVM) Close()                                {}

func newTx() *types.Transaction {
	to := common.Address{}
	return types.NewTx(&types.LegacyTx{Nonce: 1, Gas: 21000, GasPrice: big.NewInt(1), To: &to})
}

type fakeGovernance struct {
	count    *big.Int
	countErr error

	proposals   map[uint64]contracts.GovernanceProposal
	proposalErr map[uint64]error
	results     map[uint64]contracts.GovernanceResult
	active      map[uint64]bool
	voted       map[uint64]bool
	power       *big.Int

	voteCalls   int
	createCalls int
}

func (g *fakeGovernance) ProposalCount(opts *bind.CallOpts) (*big.Int, error) {
	if g.countErr != nil {
		return nil, g.countErr
	}

	return g.count, nil
}

func (g *fakeGovernance) GetProposal(opts *bind.CallOpts, proposalId *big.Int) (contracts.GovernanceProposal, error) {
	id := proposalId.Uint64()
	if err, ok := g.proposalErr[id]; ok {
		return contracts.GovernanceProposal{}, err
	}

	return g.proposals[id], nil
}

func (g *fakeGovernance) GetProposalResult(opts *bind.CallOpts, proposalId *big.Int) (contracts.GovernanceResult, error) {
	return g.results[proposalId.Uint64()], nil
}

func (g *fakeGovernance) IsProposalActive(opts *bind.CallOpts, proposalId *big.Int) (bool, error) {
	return g.active[proposalId.Uint64()], nil
}

func (g *fakeGovernance) HasUserVoted(opts *bind.CallOpts, proposalId *big.Int, voter common.Address) (bool, error) {
	return g.voted[proposalId.Uint64()], nil
}

func (g *fakeGovernance) GetVotingPower(opts *bind.CallOpts, voter common.Address) (*big.Int, error) {
	if g.power == nil {
		return big.NewInt(0), nil
	}

	return g.power, nil
}

func (g *fakeGovernance) Vote(opts *bind.TransactOpts, proposalId *big.Int, support bool) (*types.Transaction, error) {
	g.voteCalls++
	return newTx(), nil
}

func (g *fakeGovernance) CreateProposal(opts *bind.TransactOpts, title string, description string) (*types.Transaction, error) {
	g.createCalls++
	return newTx(), nil
}

type fakeToken struct {
	symbol     string
	decimals   uint8
	balances   map[common.Address]*big.Int
	balanceErr error

	transferTo    common.Address
	transferAmt   *big.Int
	transferCalls int
}

func (t *fakeToken) Symbol(opts *bind.CallOpts) (string, error) {
	return t.symbol, nil
}

func (t *fakeToken) Decimals(opts *bind.CallOpts) (uint8, error) {
	return t.decimals, nil
}

func (t *fakeToken) BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error) {
	if t.balanceErr != nil {
		return nil, t.balanceErr
	}

	if b, ok := t.balances[owner]; ok {
		return b, nil
	}

	return big.NewInt(0), nil
}

func (t *fakeToken) Transfer(opts *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error) {
	t.transferCalls++
	t.transferTo = to
	t.transferAmt = amount
	return newTx(), nil
}

func newTestClient(t *testing.T, networkName string, gov GovernanceContract, token, stable TokenContract, withSigner bool) *Client {
	t.Helper()

	n, err := GetNetwork(networkName)
	if err != nil {
		t.Fatal(err)
	}

	c := &Client{
		network: n,
		evm:     &fakeEVM{},
		chainID: n.ChainID,
		gov:     gov,
		token:   token,
		stable:  stable,
	}

	if withSigner {
		k, err := crypto.GenerateKey()
		if err != nil {
			t.Fatal(err)
		}

		c.privateKey = k
		c.account = crypto.PubkeyToAddress(k.PublicKey)
	}

	return c
}

func fakeProposal(id uint64, status uint8) contracts.GovernanceProposal {
	return contracts.GovernanceProposal{
		Id:          new(big.Int).SetUint64(id),
		Title:       fmt.Sprintf("Proposal %d", id),
		Description: "a proposal",
		StartTime:   big.NewInt(1700000000),
		EndTime:     big.NewInt(1700086400),
		YesVotes:    big.NewInt(10),
		NoVotes:     big.NewInt(5),
		Status:      status,
	}
}

func fakeResult() contracts.GovernanceResult {
	return contracts.GovernanceResult{
		Ended:      false,
		Passed:     false,
		YesVotes:   big.NewInt(10),
		NoVotes:    big.NewInt(5),
		TotalVotes: big.NewInt(15),
	}
}

func expectKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}

	k, ok := KindOf(err)
	if !ok {
		t.Fatalf("expected %s error, got untagged: %s", kind, err)
	}

	if k != kind {
		t.Fatalf("expected %s error, got %s: %s", kind, k, err)
	}
}

func TestGetNetwork(t *testing.T) {
	t.Run("known networks", func(t *testing.T) {
		for _, name := range []string{"mainnet", "sepolia", "localhost"} {
			n, err := GetNetwork(name)
			if err != nil {
				t.Fatalf("GetNetwork(%s): %s", name, err)
			}

			if n.ChainID == nil || n.RPCURL == "" {
				t.Fatalf("GetNetwork(%s): incomplete configuration", name)
			}
		}
	})

	t.Run("stable asset availability", func(t *testing.T) {
		mainnet, _ := GetNetwork("mainnet")
		if mainnet.HasStableAsset() {
			t.Fatal("mainnet should not have a stable asset")
		}

		sepolia, _ := GetNetwork("sepolia")
		if !sepolia.HasStableAsset() {
			t.Fatal("sepolia should have a stable asset")
		}
	})

	t.Run("unknown selector", func(t *testing.T) {
		_, err := GetNetwork("ropsten")
		expectKind(t, err, ErrKindConfig)
	})
}

func TestDecodeStatus(t *testing.T) {
	tests := []struct {
		code     uint8
		expected ProposalStatus
	}{
		{0, StatusPending},
		{1, StatusActive},
		{2, StatusEnded},
		{3, StatusCancelled},
	}

	for _, tt := range tests {
		status, err := decodeStatus(tt.code)
		if err != nil {
			t.Fatalf("decodeStatus(%d): %s", tt.code, err)
		}

		if status != tt.expected {
			t.Errorf("decodeStatus(%d): expected %s, got %s", tt.code, tt.expected, status)
		}
	}

	for _, code := range []uint8{4, 9, 255} {
		_, err := decodeStatus(code)
		expectKind(t, err, ErrKindDataIntegrity)
	}
}

func TestGetProposal(t *testing.T) {
	gov := &fakeGovernance{
		proposals: map[uint64]contracts.GovernanceProposal{1: fakeProposal(1, 1)},
		results:   map[uint64]contracts.GovernanceResult{1: fakeResult()},
		active:    map[uint64]bool{1: true},
	}

	c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, false)

	t.Run("composes record, result and active flag", func(t *testing.T) {
		p, err := c.GetProposal(1)
		if err != nil {
			t.Fatal(err)
		}

		if p.ID != 1 || p.Title != "Proposal 1" {
			t.Errorf("unexpected proposal: %+v", p)
		}

		if p.Status != StatusActive || !p.IsActive {
			t.Errorf("expected active proposal, got status %s active %v", p.Status, p.IsActive)
		}

		if p.Result.TotalVotes.Cmp(big.NewInt(15)) != 0 {
			t.Errorf("expected total votes 15, got %s", p.Result.TotalVotes)
		}
	})

	t.Run("out-of-range status is never coerced", func(t *testing.T) {
		gov.proposals[2] = fakeProposal(2, 9)

		_, err := c.GetProposal(2)
		expectKind(t, err, ErrKindDataIntegrity)
	})
}

func TestListProposals(t *testing.T) {
	t.Run("empty contract", func(t *testing.T) {
		gov := &fakeGovernance{count: big.NewInt(0)}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, false)

		proposals, err := c.ListProposals()
		if err != nil {
			t.Fatal(err)
		}

		if len(proposals) != 0 {
			t.Fatalf("expected empty sequence, got %d", len(proposals))
		}
	})

	t.Run("single id failure is skipped", func(t *testing.T) {
		gov := &fakeGovernance{
			count:       big.NewInt(5),
			proposals:   map[uint64]contracts.GovernanceProposal{},
			results:     map[uint64]contracts.GovernanceResult{},
			active:      map[uint64]bool{},
			proposalErr: map[uint64]error{3: errors.New("connection reset")},
		}

		for id := uint64(1); id <= 5; id++ {
			gov.proposals[id] = fakeProposal(id, 1)
			gov.results[id] = fakeResult()
		}

		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, false)

		proposals, err := c.ListProposals()
		if err != nil {
			t.Fatal(err)
		}

		if len(proposals) != 4 {
			t.Fatalf("expected 4 proposals, got %d", len(proposals))
		}

		expected := []uint64{1, 2, 4, 5}
		for i, p := range proposals {
			if p.ID != expected[i] {
				t.Errorf("position %d: expected id %d, got %d", i, expected[i], p.ID)
			}
		}
	})

	t.Run("count failure aborts", func(t *testing.T) {
		gov := &fakeGovernance{countErr: errors.New("rpc down")}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, false)

		_, err := c.ListProposals()
		expectKind(t, err, ErrKindTransport)
	})
}

func TestGetVotingPower(t *testing.T) {
	power, _ := new(big.Int).SetString("2500000000000000000", 10)
	gov := &fakeGovernance{power: power}

	c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, false)

	vp, err := c.GetVotingPower("0x480Fbe37526226b6c6E2a7AfA449cDf661939D2f")
	if err != nil {
		t.Fatal(err)
	}

	if vp.Power != "2.5" {
		t.Errorf("expected scaled power 2.5, got %s", vp.Power)
	}

	if vp.Raw.Cmp(power) != 0 {
		t.Errorf("expected raw power %s, got %s", power, vp.Raw)
	}
}

func TestVote(t *testing.T) {
	oneToken := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	t.Run("requires signer", func(t *testing.T) {
		gov := &fakeGovernance{active: map[uint64]bool{1: true}, power: oneToken}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, false)

		_, err := c.Vote(1, true)
		expectKind(t, err, ErrKindConfig)

		if gov.voteCalls != 0 {
			t.Fatalf("expected no vote transaction, got %d", gov.voteCalls)
		}
	})

	t.Run("not open for voting", func(t *testing.T) {
		gov := &fakeGovernance{active: map[uint64]bool{1: false}, power: oneToken}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, true)

		_, err := c.Vote(1, true)
		expectKind(t, err, ErrKindPrecondition)

		if gov.voteCalls != 0 {
			t.Fatalf("expected no vote transaction, got %d", gov.voteCalls)
		}
	})

	t.Run("already voted", func(t *testing.T) {
		gov := &fakeGovernance{active: map[uint64]bool{1: true}, voted: map[uint64]bool{1: true}, power: oneToken}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, true)

		_, err := c.Vote(1, true)
		expectKind(t, err, ErrKindPrecondition)

		if gov.voteCalls != 0 {
			t.Fatalf("expected no vote transaction, got %d", gov.voteCalls)
		}
	})

	t.Run("zero voting power", func(t *testing.T) {
		gov := &fakeGovernance{active: map[uint64]bool{1: true}, power: big.NewInt(0)}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, true)

		_, err := c.Vote(1, true)
		expectKind(t, err, ErrKindPrecondition)

		if gov.voteCalls != 0 {
			t.Fatalf("expected no vote transaction, got %d", gov.voteCalls)
		}
	})

	t.Run("positive power proceeds to submission", func(t *testing.T) {
		gov := &fakeGovernance{active: map[uint64]bool{1: true}, power: oneToken}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, true)

		result, err := c.Vote(1, true)
		if err != nil {
			t.Fatal(err)
		}

		if gov.voteCalls != 1 {
			t.Fatalf("expected 1 vote transaction, got %d", gov.voteCalls)
		}

		if !result.Success || result.ProposalID != 1 {
			t.Errorf("unexpected result: %+v", result)
		}

		if result.Support == nil || !*result.Support {
			t.Errorf("expected support echoed as true")
		}

		if result.VotingPower != "1" {
			t.Errorf("expected voting power 1, got %s", result.VotingPower)
		}

		if result.TxHash == "" || result.ExplorerURL == "" {
			t.Errorf("expected tx hash and explorer url, got %+v", result)
		}
	})
}

func TestDonate(t *testing.T) {
	t.Run("unavailable without stable asset", func(t *testing.T) {
		gov := &fakeGovernance{}
		c := newTestClient(t, "mainnet", gov, &fakeToken{}, nil, true)

		_, err := c.Donate("10")
		expectKind(t, err, ErrKindConfig)
	})

	t.Run("requires signer", func(t *testing.T) {
		stable := &fakeToken{decimals: 6}
		c := newTestClient(t, "sepolia", &fakeGovernance{}, &fakeToken{}, stable, false)

		_, err := c.Donate("10")
		expectKind(t, err, ErrKindConfig)

		if stable.transferCalls != 0 {
			t.Fatalf("expected no transfer, got %d", stable.transferCalls)
		}
	})

	t.Run("converts to base units", func(t *testing.T) {
		stable := &fakeToken{decimals: 6}
		c := newTestClient(t, "sepolia", &fakeGovernance{}, &fakeToken{}, stable, true)

		result, err := c.Donate("10")
		if err != nil {
			t.Fatal(err)
		}

		if stable.transferCalls != 1 {
			t.Fatalf("expected 1 transfer, got %d", stable.transferCalls)
		}

		if stable.transferAmt.Cmp(big.NewInt(10_000_000)) != 0 {
			t.Errorf("expected 10000000 base units, got %s", stable.transferAmt)
		}

		if stable.transferTo != c.network.Contracts.Governance {
			t.Errorf("expected transfer to governance contract, got %s", stable.transferTo.Hex())
		}

		if result.Amount != "10" {
			t.Errorf("expected amount echoed as 10, got %s", result.Amount)
		}
	})

	t.Run("rejects excess precision", func(t *testing.T) {
		stable := &fakeToken{decimals: 6}
		c := newTestClient(t, "sepolia", &fakeGovernance{}, &fakeToken{}, stable, true)

		_, err := c.Donate("1.2345678")
		expectKind(t, err, ErrKindPrecondition)

		if stable.transferCalls != 0 {
			t.Fatalf("expected no transfer, got %d", stable.transferCalls)
		}
	})
}

func TestGetTreasury(t *testing.T) {
	fiveTokens := new(big.Int).Mul(big.NewInt(5), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

	t.Run("without stable asset the field is omitted", func(t *testing.T) {
		n, _ := GetNetwork("mainnet")
		token := &fakeToken{
			symbol:   "CDT",
			decimals: 18,
			balances: map[common.Address]*big.Int{n.Contracts.Splitter: fiveTokens},
		}

		c := newTestClient(t, "mainnet", &fakeGovernance{}, token, nil, false)

		snapshot, err := c.GetTreasury()
		if err != nil {
			t.Fatal(err)
		}

		if snapshot.TokenSymbol != "CDT" || snapshot.TokenDecimals != 18 {
			t.Errorf("unexpected token fields: %+v", snapshot)
		}

		if snapshot.SplitterBalance != "5" {
			t.Errorf("expected splitter balance 5, got %s", snapshot.SplitterBalance)
		}

		if snapshot.StableBalance != "" || snapshot.StableError != "" {
			t.Errorf("expected stable fields omitted, got %+v", snapshot)
		}
	})

	t.Run("with stable asset", func(t *testing.T) {
		n, _ := GetNetwork("sepolia")
		token := &fakeToken{
			symbol:   "CDT",
			decimals: 18,
			balances: map[common.Address]*big.Int{n.Contracts.Splitter: fiveTokens},
		}
		stable := &fakeToken{
			decimals: 6,
			balances: map[common.Address]*big.Int{n.Contracts.Governance: big.NewInt(12_500_000)},
		}

		c := newTestClient(t, "sepolia", &fakeGovernance{}, token, stable, false)

		snapshot, err := c.GetTreasury()
		if err != nil {
			t.Fatal(err)
		}

		if snapshot.StableBalance != "12.5" {
			t.Errorf("expected stable balance 12.5, got %s", snapshot.StableBalance)
		}
	})

	t.Run("stable read failure is captured, not fatal", func(t *testing.T) {
		token := &fakeToken{symbol: "CDT", decimals: 18}
		stable := &fakeToken{balanceErr: errors.New("execution reverted")}

		c := newTestClient(t, "sepolia", &fakeGovernance{}, token, stable, false)

		snapshot, err := c.GetTreasury()
		if err != nil {
			t.Fatal(err)
		}

		if snapshot.StableError == "" {
			t.Error("expected stable error captured")
		}

		if snapshot.TokenSymbol != "CDT" {
			t.Errorf("expected primary fields intact, got %+v", snapshot)
		}
	})

	t.Run("primary read failure is fatal", func(t *testing.T) {
		token := &fakeToken{symbol: "CDT", decimals: 18, balanceErr: errors.New("rpc down")}

		c := newTestClient(t, "mainnet", &fakeGovernance{}, token, nil, false)

		_, err := c.GetTreasury()
		expectKind(t, err, ErrKindTransport)
	})
}

func TestCreateProposal(t *testing.T) {
	t.Run("requires signer", func(t *testing.T) {
		gov := &fakeGovernance{count: big.NewInt(7)}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, false)

		_, err := c.CreateProposal("Fund the garden", "Allocate tokens")
		expectKind(t, err, ErrKindConfig)

		if gov.createCalls != 0 {
			t.Fatalf("expected no transaction, got %d", gov.createCalls)
		}
	})

	t.Run("reports the assigned id from the count re-read", func(t *testing.T) {
		gov := &fakeGovernance{count: big.NewInt(7)}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, true)

		result, err := c.CreateProposal("Fund the garden", "Allocate tokens")
		if err != nil {
			t.Fatal(err)
		}

		if gov.createCalls != 1 {
			t.Fatalf("expected 1 transaction, got %d", gov.createCalls)
		}

		if result.ProposalID != 7 {
			t.Errorf("expected proposal id 7, got %d", result.ProposalID)
		}

		if result.Title != "Fund the garden" {
			t.Errorf("expected title echoed, got %s", result.Title)
		}
	})

	t.Run("count re-read failure does not fail a confirmed transaction", func(t *testing.T) {
		gov := &fakeGovernance{countErr: errors.New("rpc down")}
		c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, true)

		result, err := c.CreateProposal("Fund the garden", "Allocate tokens")
		if err != nil {
			t.Fatal(err)
		}

		if !result.Success || result.ProposalID != 0 {
			t.Errorf("expected confirmed result without id, got %+v", result)
		}
	})
}

func TestMalformedKeyIsReadOnly(t *testing.T) {
	gov := &fakeGovernance{count: big.NewInt(0), active: map[uint64]bool{1: true}}
	c := newTestClient(t, "sepolia", gov, &fakeToken{}, nil, false)
	c.keyErr = errors.New("invalid hex character")

	// reads still work
	if _, err := c.ListProposals(); err != nil {
		t.Fatal(err)
	}

	// writes surface the key error as a configuration error
	_, err := c.Vote(1, true)
	expectKind(t, err, ErrKindConfig)
}
