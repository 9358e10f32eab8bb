package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/recruiter-assistant/internal/ai/gemini"
	"github.com/spigell/recruiter-assistant/internal/ai/openai"
	"github.com/spigell/recruiter-assistant/internal/logger"
)

const (
	app = "recruiter-assistant"
)

type Config struct {
	Listen       string       `mapstructure:"listen"`
	CandidateID  string       `mapstructure:"candidate-id"`
	AllowOrigins []string     `mapstructure:"allow-origins"`
	Store        *StoreConfig `mapstructure:"store"`
	AI           *AIConfig    `mapstructure:"ai"`
}

type StoreConfig struct {
	Driver         string `mapstructure:"driver"`
	URL            string `mapstructure:"url"`
	ServiceKey     string `mapstructure:"service-key"`
	ServiceKeyFile string `mapstructure:"service-key-file"`
	DSN            string `mapstructure:"dsn"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "recruiter-assistant answers recruiter questions about a candidate and assesses job fit",
	}
)

// envBindings maps config keys to the environment variables the hosted
// deployment provides.
var envBindings = map[string][]string{
	"listen":                 {"LISTEN_ADDR"},
	"candidate-id":           {"CANDIDATE_ID"},
	"store.driver":           {"STORE_DRIVER"},
	"store.url":              {"SUPABASE_URL"},
	"store.service-key":      {"SUPABASE_SERVICE_ROLE_KEY"},
	"store.service-key-file": {"SUPABASE_SERVICE_ROLE_KEY_FILE"},
	"store.dsn":              {"DATABASE_URL"},
	"ai.provider":            {"AI_PROVIDER"},
	"ai.gemini.api-key":      {"GEMINI_API_KEY"},
	"ai.gemini.api-key-file": {"GEMINI_API_KEY_FILE"},
	"ai.openai.api-key":      {"OPENAI_API_KEY"},
	"ai.openai.api-key-file": {"OPENAI_API_KEY_FILE"},
	"ai.openai.base-url":     {"OPENAI_BASE_URL"},
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, envs := range envBindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			log.Fatalf("binding %s environment variables: %v", strings.Join(envs, ","), err)
		}
	}

	viper.SetDefault("listen", ":8080")
	viper.SetDefault("store.driver", "rest")
	viper.SetDefault("ai.provider", gemini.Provider)
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("ai.gemini.model", gemini.DefaultModel)
	viper.SetDefault("ai.openai.model", openai.DefaultModel)
	viper.SetDefault("ai.openai.base-url", openai.DefaultBaseURL)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is recruiter-assistant.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("candidate-id", "", "candidate profile id (default is the first profile)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("candidate-id", rootCmd.PersistentFlags().Lookup("candidate-id"))
}

func initConfig() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config must be readable.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func newLogger() (*zap.Logger, error) {
	return logger.New(logger.Options{
		JSON:    viper.GetBool("json"),
		Debug:   viper.GetBool("debug"),
		App:     app,
		Version: version,
	})
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
