package governance

import (
	"net/http"
	"strconv"

	com "github.com/commonsdao/govclient/internal/common"
	"github.com/commonsdao/govclient/pkg/dao"
	"github.com/go-chi/chi/v5"
)

type Service struct {
	client *dao.Client
}

func NewService(client *dao.Client) *Service {
	return &Service{
		client: client,
	}
}

// ListProposals returns all proposals in ascending id order
func (s *Service) ListProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := s.client.ListProposals()
	if err != nil {
		w.WriteHeader(statusFor(err))
		return
	}

	err = com.BodyMultiple(w, proposals, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetProposal returns a single proposal snapshot
func (s *Service) GetProposal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "proposal_id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	proposal, err := s.client.GetProposal(id)
	if err != nil {
		w.WriteHeader(statusFor(err))
		return
	}

	err = com.Body(w, proposal, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetVotingPower returns the vote weight of an address
func (s *Service) GetVotingPower(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, "acc_addr")

	power, err := s.client.GetVotingPower(addr)
	if err != nil {
		w.WriteHeader(statusFor(err))
		return
	}

	err = com.Body(w, power, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

type votedResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Address    string `json:"address"`
	Voted      bool   `json:"voted"`
}

// HasVoted returns whether an address has voted on a proposal
func (s *Service) HasVoted(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "proposal_id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	addr := chi.URLParam(r, "acc_addr")

	voted, err := s.client.HasVoted(id, addr)
	if err != nil {
		w.WriteHeader(statusFor(err))
		return
	}

	err = com.Body(w, votedResponse{ProposalID: id, Address: addr, Voted: voted}, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetTreasury returns a point-in-time treasury snapshot
func (s *Service) GetTreasury(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.client.GetTreasury()
	if err != nil {
		w.WriteHeader(statusFor(err))
		return
	}

	err = com.Body(w, snapshot, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// statusFor maps client error kinds onto response codes
func statusFor(err error) int {
	kind, ok := dao.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch kind {
	case dao.ErrKindConfig, dao.ErrKindPrecondition:
		return http.StatusBadRequest
	case dao.ErrKindDataIntegrity:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
