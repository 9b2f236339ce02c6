package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/commonsdao/govclient/internal/config"
	"github.com/commonsdao/govclient/internal/services/journal"
	"github.com/commonsdao/govclient/pkg/dao"
	"github.com/getsentry/sentry-go"
)

const usage = `usage: govclient [flags] <command>

commands:
  proposals                      list all proposals
  power [address]                voting power of an address (default: signer)
  treasury                       treasury snapshot
  vote <id> <for|against>        vote on a proposal
  donate <amount>                donate stable asset to the governance contract
  propose <title> <description>  create a proposal
`

func main() {
	env := flag.String("env", "", "path to .env file")

	network := flag.String("network", "", "network to use (overrides NETWORK)")

	flag.Parse()

	ctx := context.Background()

	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	if conf.SentryURL != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn: conf.SentryURL,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		// Flush buffered events before the program terminates.
		defer sentry.Flush(2 * time.Second)
	}

	if *network != "" {
		conf.Network = *network
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	net, err := dao.GetNetwork(conf.Network)
	if err != nil {
		fatal(err)
	}

	if conf.RPCURL != "" {
		net.RPCURL = conf.RPCURL
	}

	client, err := dao.NewClientWithNetwork(ctx, net, conf.PrivateKey)
	if err != nil {
		fatal(err)
	}
	defer client.Close()

	var jrnl *journal.Journal
	if conf.HasJournal() {
		jrnl, err = journal.New(net.ChainID, conf.DBUser, conf.DBPassword, conf.DBName, conf.DBHost)
		if err != nil {
			fatal(err)
		}
		defer jrnl.Close()
	}

	switch args[0] {
	case "proposals":
		proposals, err := client.ListProposals()
		if err != nil {
			fatal(err)
		}

		printJSON(proposals)
	case "power":
		var addr string
		if len(args) > 1 {
			addr = args[1]
		} else {
			account, ok := client.Account()
			if !ok {
				fatal(dao.NewConfigError("power requires an address argument or a configured signer", nil))
			}
			addr = account.Hex()
		}

		power, err := client.GetVotingPower(addr)
		if err != nil {
			fatal(err)
		}

		printJSON(power)
	case "treasury":
		snapshot, err := client.GetTreasury()
		if err != nil {
			fatal(err)
		}

		printJSON(snapshot)
	case "vote":
		if len(args) != 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}

		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			fatal(fmt.Errorf("invalid proposal id: %s", args[1]))
		}

		var support bool
		switch args[2] {
		case "for":
			support = true
		case "against":
			support = false
		default:
			fatal(fmt.Errorf("invalid vote direction (must be one of: for, against): %s", args[2]))
		}

		result, err := client.Vote(id, support)
		if err != nil {
			fatal(err)
		}

		record(jrnl, "vote", result)
		printJSON(result)
	case "donate":
		if len(args) != 2 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}

		result, err := client.Donate(args[1])
		if err != nil {
			fatal(err)
		}

		record(jrnl, "donate", result)
		printJSON(result)
	case "propose":
		if len(args) != 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}

		result, err := client.CreateProposal(args[1], args[2])
		if err != nil {
			fatal(err)
		}

		record(jrnl, "propose", result)
		printJSON(result)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func fatal(err error) {
	sentry.CaptureException(err)
	sentry.Flush(2 * time.Second)
	log.Fatal(err)
}

// record writes a confirmed transaction to the journal. The transaction is
// already confirmed, so journal failures are only logged.
func record(jrnl *journal.Journal, operation string, result *dao.TransactionResult) {
	if jrnl == nil {
		return
	}

	if err := jrnl.AddEntry(operation, result); err != nil {
		log.Default().Println("failed to journal ", operation, ": ", err)
	}
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}

	fmt.Println(string(b))
}
