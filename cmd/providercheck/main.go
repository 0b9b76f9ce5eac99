// Command providercheck probes every configured email provider and prints the
// result, without sending anything unless -send is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/seunsodimu/lag-int-sub001/pkg/config"
	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
	"github.com/seunsodimu/lag-int-sub001/pkg/mailer"
)

func main() {
	sendTo := flag.String("send", "", "also send a test email to this address using the active provider")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var cfg mailer.Config
	config.MustLoad(&cfg)

	log := logger.New(logger.WithDevelopment())

	factory, err := mailer.NewFactory(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "factory:", err)
		os.Exit(1)
	}

	fmt.Printf("active provider: %s (from %s)\n\n", factory.Current().Name, factory.Current().From)

	failed := false
	for name, res := range factory.TestAll(ctx) {
		status := "ok"
		if !res.OK {
			status = "FAILED"
			failed = true
		}
		fmt.Printf("%-10s %s", name, status)
		if res.Detail != "" {
			fmt.Printf("  (%s)", res.Detail)
		}
		fmt.Println()
	}

	if *sendTo != "" {
		msg := mailer.Message{
			Subject:    "Provider connectivity test",
			BodyHTML:   "<p>This is a test message from providercheck.</p>",
			Recipients: []string{*sendTo},
			IsTest:     true,
		}
		res := factory.Active().Send(ctx, msg)
		if res.Success {
			fmt.Printf("\ntest email sent via %s (message id %s)\n", res.Provider, res.MessageID)
		} else {
			fmt.Printf("\ntest email FAILED via %s: %s\n", res.Provider, res.Err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
