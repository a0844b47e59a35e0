package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"logicbot/app/client/console"
	"logicbot/app/grammar"
	"logicbot/app/service/conversation"
	"logicbot/app/service/engine"
	"logicbot/app/service/parser"
	"logicbot/app/service/queue"
	"logicbot/app/service/transcript"

	"github.com/samber/do"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the bot, one line at a time",
		Long: `Chat reads lines from standard input and answers each of them. The
conversation ends at end of input or on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			di := a.injector(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			defer di.Shutdown()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			client := do.MustInvoke[*console.Client](di)
			queueSvc := do.MustInvoke[*queue.Service](di)
			engineSvc := do.MustInvoke[*engine.Service](di)

			client.SetListener(func(username, text string) {
				queueSvc.Add(ctx, username, text)
			})

			done := make(chan error, 1)
			go func() {
				defer queueSvc.Shutdown()
				done <- client.Run(ctx)
			}()

			engineSvc.Run(ctx)

			// Input cannot be interrupted; on cancel the reader is left behind.
			select {
			case err = <-done:
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			default:
				return nil
			}
		},
	}
}

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <sentence>...",
		Short: "Answer sentences in one conversation",
		Example: `  logicbot ask "penguins are birds" "penguins are birds?"
  logicbot ask --max-depth 0 "llamas walk?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			di := a.injector(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			defer di.Shutdown()

			session := do.MustInvoke[*conversation.Service](di).NewSession(cfg.Chat.Username)
			for _, text := range args {
				fmt.Fprintln(cmd.OutOrStdout(), session.Respond(cmd.Context(), text))
			}

			return nil
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <sentence>...",
		Short: "Show how sentences are understood",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			di := a.injector(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			defer di.Shutdown()

			parserSvc := do.MustInvoke[*parser.Service](di)
			out := cmd.OutOrStdout()

			for i, text := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}

				res, err := parserSvc.Parse(cmd.Context(), text)
				if err != nil && !errors.Is(err, grammar.ErrNoParse) {
					return err
				}

				tokens := make([]string, len(res.Tokens))
				for j, tok := range res.Tokens {
					tokens[j] = tok.String()
				}

				fmt.Fprintf(out, "tokens:    %s\n", strings.Join(tokens, " "))
				if len(res.Guessed) > 0 {
					fmt.Fprintf(out, "guessed:   %s\n", strings.Join(res.Guessed, " "))
				}
				fmt.Fprintf(out, "tree:      %s\n", res.Tree)
				if res.Parsed() {
					fmt.Fprintf(out, "utterance: %s\n", res.Utterance)
				} else {
					fmt.Fprintln(out, "utterance: no parse")
				}
			}

			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run <file>...",
		Short: "Play transcript files, each in its own conversation",
		Long: `Run reads transcript files, one line said to the bot per line, and prints
every line with its reply. Blank lines and lines starting with # are
skipped. Files are played concurrently in separate conversations.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			if concurrency > 0 {
				cfg.Batch.Concurrency = concurrency
			}

			di := a.injector(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			defer di.Shutdown()

			results, err := do.MustInvoke[*transcript.Service](di).RunFiles(cmd.Context(), args)
			if err != nil {
				return err
			}

			return transcript.Write(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of transcripts played at once (default from config)")

	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (LOGICBOT_*)
3. Config file (./config.yaml or --config)
4. Defaults`,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			if cfg.Log.Telegram.Token != "" {
				cfg.Log.Telegram.Token = "***"
			}

			yamlData, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(yamlData)
			return err
		},
	})

	return configCmd
}
