package contracts

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

func TestABIsParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		methods []string
	}{
		{
			name: "governance",
			raw:  GovernanceABI,
			methods: []string{
				"proposalCount",
				"getProposal",
				"getProposalResult",
				"isProposalActive",
				"hasUserVoted",
				"getVotingPower",
				"vote",
				"createProposal",
			},
		},
		{
			name:    "erc20",
			raw:     ERC20ABI,
			methods: []string{"symbol", "decimals", "balanceOf", "transfer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := abi.JSON(strings.NewReader(tt.raw))
			if err != nil {
				t.Fatal(err)
			}

			for _, method := range tt.methods {
				if _, ok := parsed.Methods[method]; !ok {
					t.Errorf("missing method: %s", method)
				}
			}
		})
	}
}
