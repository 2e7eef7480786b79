package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matst80/escape-finder/pkg/common"
	"github.com/matst80/escape-finder/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEventsCmd(a *app) *cobra.Command {
	var rabbitUrl string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print search tracking events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rabbitUrl == "" {
				cfg, err := common.LoadConfig()
				if err != nil {
					return err
				}
				rabbitUrl = cfg.RabbitUrl
			}
			if rabbitUrl == "" {
				return errors.New("no broker configured, set --rabbit or RABBIT_URL")
			}
			conn, err := amqp.DialConfig(rabbitUrl, amqp.Config{
				Properties: amqp.NewConnectionProperties(),
			})
			if err != nil {
				return fmt.Errorf("connect to rabbitmq: %w", err)
			}
			defer conn.Close()
			ch, err := conn.Channel()
			if err != nil {
				return fmt.Errorf("open channel: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			a.logger.Debug("listening for events", zap.String("topic", messaging.GetName(messaging.GlobalPrefix, messaging.SearchTracked)))
			return messaging.ListenToTopic(ctx, a.logger, ch, messaging.GlobalPrefix, messaging.SearchTracked, func(d amqp.Delivery) error {
				_, err := fmt.Fprintln(out, string(d.Body))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&rabbitUrl, "rabbit", "", "broker url (default $RABBIT_URL)")
	return cmd
}
