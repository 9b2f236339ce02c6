package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/commonsdao/govclient/internal/config"
	"github.com/commonsdao/govclient/pkg/dao"
	"github.com/commonsdao/govclient/pkg/router"
	"github.com/getsentry/sentry-go"
)

func main() {
	log.Default().Println("launching governance api...")

	env := flag.String("env", "", "path to .env file")

	port := flag.Int("port", 3000, "port to listen on")

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

	net, err := dao.GetNetwork(conf.Network)
	if err != nil {
		log.Fatal(err)
	}

	if conf.RPCURL != "" {
		net.RPCURL = conf.RPCURL
	}

	log.Default().Println("connecting to rpc...")

	// the api serves reads only, no signing key is held here
	client, err := dao.NewClientWithNetwork(ctx, net, "")
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	log.Default().Println("serving network: ", net.Name)

	api := router.NewServer(conf.APIKey, client)

	log.Default().Println("listening on port: ", *port)

	err = api.Start(*port)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
}
