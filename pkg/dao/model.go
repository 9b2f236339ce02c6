package dao

import (
	"fmt"
	"math/big"
	"time"
)

// ProposalStatus is the decoded label for the status integer returned by the
// governance contract. The four labels are positional: 0 = Pending,
// 1 = Active, 2 = Ended, 3 = Cancelled.
type ProposalStatus string

const (
	StatusPending   ProposalStatus = "Pending"
	StatusActive    ProposalStatus = "Active"
	StatusEnded     ProposalStatus = "Ended"
	StatusCancelled ProposalStatus = "Cancelled"
)

var proposalStatuses = []ProposalStatus{
	StatusPending,
	StatusActive,
	StatusEnded,
	StatusCancelled,
}

// decodeStatus maps the remote status integer onto its label. An
// out-of-range value is a data-integrity error, never coerced to a default.
func decodeStatus(code uint8) (ProposalStatus, error) {
	if int(code) >= len(proposalStatuses) {
		return "", NewDataIntegrityError(fmt.Sprintf("out-of-range proposal status: %d", code), nil)
	}

	return proposalStatuses[code], nil
}

// ProposalResult is the aggregated vote outcome reported by the contract.
type ProposalResult struct {
	Ended      bool     `json:"ended"`
	Passed     bool     `json:"passed"`
	YesVotes   *big.Int `json:"yes_votes"`
	NoVotes    *big.Int `json:"no_votes"`
	TotalVotes *big.Int `json:"total_votes"`
}

// Proposal is a point-in-time read projection of a remote proposal record.
// Nothing here is owned or mutated locally.
type Proposal struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	YesVotes    *big.Int       `json:"yes_votes"`
	NoVotes     *big.Int       `json:"no_votes"`
	Cancelled   bool           `json:"cancelled"`
	Status      ProposalStatus `json:"status"`
	IsActive    bool           `json:"is_active"`
	Result      ProposalResult `json:"result"`
}

// VotingPower is the vote weight of an address at query time.
type VotingPower struct {
	Address string   `json:"address"`
	Power   string   `json:"power"`
	Raw     *big.Int `json:"raw"`
}

// TreasurySnapshot is a point-in-time read of the token holdings the DAO
// controls. StableBalance is omitted on networks without a stable asset;
// StableError carries a failed best-effort read of it.
type TreasurySnapshot struct {
	TokenSymbol     string `json:"token_symbol"`
	TokenDecimals   uint8  `json:"token_decimals"`
	SplitterBalance string `json:"splitter_balance"`
	StableBalance   string `json:"stable_balance,omitempty"`
	StableError     string `json:"stable_error,omitempty"`
}

// TransactionResult reports a confirmed state-changing transaction. The
// client's responsibility ends once this is returned.
type TransactionResult struct {
	Success     bool   `json:"success"`
	TxHash      string `json:"tx_hash"`
	ExplorerURL string `json:"explorer_url"`

	// echoed inputs, set per operation
	ProposalID  uint64 `json:"proposal_id,omitempty"`
	Support     *bool  `json:"support,omitempty"`
	VotingPower string `json:"voting_power,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Title       string `json:"title,omitempty"`
}
