package config

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

const envPrefix = "LOGICBOT"

type Config struct {
	Log       Log       `mapstructure:"log" yaml:"log"`
	Brain     Brain     `mapstructure:"brain" yaml:"brain"`
	Lexicon   Lexicon   `mapstructure:"lexicon" yaml:"lexicon"`
	Education Education `mapstructure:"education" yaml:"education"`
	Chat      Chat      `mapstructure:"chat" yaml:"chat"`
	Parser    Parser    `mapstructure:"parser" yaml:"parser"`
	Batch     Batch     `mapstructure:"batch" yaml:"batch"`
}

type Log struct {
	// Minimum level of console logs
	Level string `mapstructure:"level" yaml:"level" example:"info" validate:"oneof=debug info warn error"`
	// Telegram logging config
	Telegram TelegramLog `mapstructure:"telegram" yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `mapstructure:"token" yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `mapstructure:"chat_id" yaml:"chat_id" example:"1001234567890" validate:"required_with=Token"`
}

type Brain struct {
	// Deepest level of nested inference tried for a query
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth" example:"2" validate:"gte=0,lte=8"`
	// Wall-clock limit of a single query
	TimeBudget time.Duration `mapstructure:"time_budget" yaml:"time_budget" example:"2s" validate:"gt=0"`
}

type Lexicon struct {
	// Word list file, the embedded list is used when empty
	WordData string `mapstructure:"word_data" yaml:"word_data" example:"data/worddata.txt"`
}

type Education struct {
	// Teach every new conversation the seed facts
	Enabled bool `mapstructure:"enabled" yaml:"enabled" example:"true"`
	// Seed facts file, one sentence per line; the embedded facts are used when empty
	Path string `mapstructure:"path" yaml:"path" example:"data/education.txt"`
}

type Chat struct {
	// Prefix replies with tokens, parse tree and logical form
	Debug bool `mapstructure:"debug" yaml:"debug" example:"false"`
	// Append generated flavor text to answers
	Flavor bool `mapstructure:"flavor" yaml:"flavor" example:"true"`
	// Random seed of the flavor text generator, 0 picks one at startup
	Seed uint64 `mapstructure:"seed" yaml:"seed" example:"0"`
	// Number of chat lines remembered per conversation
	HistorySize int `mapstructure:"history_size" yaml:"history_size" example:"20" validate:"gte=1"`
	// Name the bot signs its replies with
	BotName string `mapstructure:"bot_name" yaml:"bot_name" example:"bot" validate:"required"`
	// Name given to console input
	Username string `mapstructure:"username" yaml:"username" example:"you" validate:"required"`
}

type Parser struct {
	// How long parsed sentences stay cached, 0 disables the cache
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl" example:"10m" validate:"gte=0"`
	// How often expired cache entries are purged
	CacheCleanup time.Duration `mapstructure:"cache_cleanup" yaml:"cache_cleanup" example:"1m" validate:"gte=0"`
}

type Batch struct {
	// Number of transcripts evaluated at once
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" example:"4" validate:"gte=1"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.telegram.token", "")
	v.SetDefault("log.telegram.chat_id", "")
	v.SetDefault("brain.max_depth", 2)
	v.SetDefault("brain.time_budget", 2*time.Second)
	v.SetDefault("lexicon.word_data", "")
	v.SetDefault("education.enabled", true)
	v.SetDefault("education.path", "")
	v.SetDefault("chat.debug", false)
	v.SetDefault("chat.flavor", true)
	v.SetDefault("chat.seed", 0)
	v.SetDefault("chat.history_size", 20)
	v.SetDefault("chat.bot_name", "bot")
	v.SetDefault("chat.username", "you")
	v.SetDefault("parser.cache_ttl", 10*time.Minute)
	v.SetDefault("parser.cache_cleanup", time.Minute)
	v.SetDefault("batch.concurrency", 4)
}

// Load reads the configuration from defaults, an optional YAML file and
// LOGICBOT_* environment variables, in increasing priority. Flags bound to v
// beforehand take precedence over all of them. An empty path looks for
// config.yaml in the working directory; a missing file there is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, oops.In("config").With("path", path).Wrapf(err, "failed to read config file")
		}
	}

	var result Config
	if err := v.Unmarshal(&result); err != nil {
		return nil, oops.In("config").Wrapf(err, "failed to parse config")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.In("config").Wrapf(err, "failed to validate config")
	}

	return &result, nil
}
