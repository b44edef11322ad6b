package main

import (
	"fmt"

	"pagsync/cmd/consumers/app"
	"pagsync/internal/envelope"

	"github.com/spf13/cobra"
)

var (
	publishID     string
	publishSource string
	publishCount  int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Put one envelope on the order topic by hand",
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishID, "id", "", "PagBank order id (required)")
	publishCmd.Flags().StringVar(&publishSource, "source", string(envelope.SourceCron), "envelope source: webhook, retry or cron")
	publishCmd.Flags().IntVar(&publishCount, "count", 0, "retry count")
	_ = publishCmd.MarkFlagRequired("id")
}

func envelopeFromFlags(id, source string, count int) (envelope.Envelope, error) {
	env := envelope.Envelope{Source: envelope.Source(source), PagbankOrderID: id, Count: count}
	if err := env.Validate(); err != nil {
		return envelope.Envelope{}, err
	}
	return env, nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	env, err := envelopeFromFlags(publishID, publishSource, publishCount)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Publisher.Publish(cmd.Context(), env); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %s envelope for %s\n", env.Source, env.PagbankOrderID)
	return nil
}
