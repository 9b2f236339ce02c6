package router

import (
	"fmt"
	"net/http"

	"github.com/commonsdao/govclient/internal/auth"
	"github.com/commonsdao/govclient/internal/governance"
	"github.com/commonsdao/govclient/pkg/dao"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router serves the read-only governance API. Write operations stay in the
// CLI where the signing credential lives.
type Router struct {
	apiKey string
	client *dao.Client
}

func NewServer(apiKey string, client *dao.Client) *Router {
	return &Router{
		apiKey,
		client,
	}
}

func (r *Router) Start(port int) error {
	cr := chi.NewRouter()

	a := auth.New(r.apiKey)

	// configure middleware
	cr.Use(middleware.RequestID)
	cr.Use(middleware.Logger)

	// configure custom middleware
	cr.Use(OptionsMiddleware)
	cr.Use(HealthMiddleware)
	cr.Use(RequestSizeLimitMiddleware(1 << 20))
	cr.Use(a.AuthMiddleware)
	cr.Use(middleware.Compress(9))

	// instantiate handlers
	gov := governance.NewService(r.client)

	// configure routes
	cr.Route("/proposals", func(cr chi.Router) {
		cr.Get("/", gov.ListProposals)
		cr.Get("/{proposal_id}", gov.GetProposal)
	})

	cr.Get("/power/{acc_addr}", gov.GetVotingPower)
	cr.Get("/voted/{proposal_id}/{acc_addr}", gov.HasVoted)
	cr.Get("/treasury", gov.GetTreasury)

	// start the server
	return http.ListenAndServe(fmt.Sprintf(":%v", port), cr)
}
