// Command steps-watch prints the live step total of a running site until
// interrupted. It follows the same channel the home page counter uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"dkl/internal/client/steps"
)

func main() {
	var (
		site    string
		poll    time.Duration
		retries int
	)
	flag.StringVar(&site, "site", "https://www.dekoninklijkeloop.nl", "site base URL")
	flag.DurationVar(&poll, "poll", 30*time.Second, "polling interval once the websocket is given up")
	flag.IntVar(&retries, "retries", 3, "websocket reconnect attempts before polling")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watch(ctx, os.Stdout, site, poll, retries); err != nil {
		fmt.Fprintln(os.Stderr, "steps-watch:", err)
		os.Exit(1)
	}
}

func watch(ctx context.Context, out io.Writer, site string, poll time.Duration, retries int) error {
	ch, err := steps.NewWSChannel(site,
		steps.WithPollInterval(poll),
		steps.WithReconnect(2*time.Second, 30*time.Second, retries),
	)
	if err != nil {
		return err
	}
	sub := steps.New(ch)
	defer sub.Close()
	if err := sub.Start(ctx); err != nil {
		return err
	}

	p := message.NewPrinter(language.Dutch)
	for {
		select {
		case <-ctx.Done():
			return nil
		case st, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			fmt.Fprintln(out, formatState(p, st))
		}
	}
}

func formatState(p *message.Printer, st steps.State) string {
	status := "offline"
	if st.IsConnected {
		status = "live"
	}
	at := "-"
	if !st.LastUpdate.IsZero() {
		at = st.LastUpdate.Local().Format("15:04:05")
	}
	return p.Sprintf("%s  %d stappen  (%s)", at, st.TotalSteps, status)
}
