package cli

import (
	"fmt"
	"io"
	"time"

	"logicbot/app/client/console"
	"logicbot/app/config"
	"logicbot/app/service/brain"
	"logicbot/app/service/conversation"
	"logicbot/app/service/engine"
	"logicbot/app/service/markov"
	"logicbot/app/service/parser"
	"logicbot/app/service/queue"
	"logicbot/app/service/transcript"
	"logicbot/app/util/mylog"

	"github.com/samber/do"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "logicbot v0.1.0"

// app carries the state shared by all commands of one root command.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "logicbot",
		Short: "A chatbot that reasons about what you tell it",
		Long: `logicbot parses simple English sentences into logical statements, learns
the declarations, and answers questions by bounded inference over what it
has learned.

  cats are animals.        That's interesting.
  cats are animals?        Yes.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.Int("max-depth", 2, "deepest level of nested inference")
	flags.Duration("time-budget", 2*time.Second, "time limit of a single question")
	flags.Bool("debug", false, "prefix replies with tokens, parse tree and logical form")

	_ = a.v.BindPFlag("brain.max_depth", flags.Lookup("max-depth"))
	_ = a.v.BindPFlag("brain.time_budget", flags.Lookup("time-budget"))
	_ = a.v.BindPFlag("chat.debug", flags.Lookup("debug"))

	rootCmd.AddCommand(
		newChatCmd(a),
		newAskCmd(a),
		newParseCmd(a),
		newRunCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// load reads the configuration and sets up logging.
func (a *app) load() (*config.Config, error) {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return nil, err
	}

	if a.verbose {
		cfg.Log.Level = "debug"
	}

	if err = mylog.Init(cfg); err != nil {
		return nil, fmt.Errorf("logging init failed: %w", err)
	}

	return cfg, nil
}

// injector wires the services. The console client reads in and writes out.
func (a *app) injector(cfg *config.Config, in io.Reader, out io.Writer) *do.Injector {
	di := do.New()

	do.ProvideValue(di, cfg)
	do.ProvideValue(di, console.New(in, out, cfg.Chat.Username, cfg.Chat.BotName))

	do.Provide(di, parser.New)
	do.Provide(di, brain.New)
	do.Provide(di, markov.New)
	do.Provide(di, conversation.New)
	do.Provide(di, queue.New)
	do.Provide(di, engine.New)
	do.Provide(di, transcript.New)

	return di
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
