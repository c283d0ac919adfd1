package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skills-analyzer/internal/analytics"
	"github.com/spigell/skills-analyzer/internal/filtering"
	"github.com/spigell/skills-analyzer/internal/headhunter"
)

const (
	app = "skills-analyzer"

	sourceFile       = "file"
	sourceHeadhunter = "headhunter"
)

type Config struct {
	Dictionary string            `mapstructure:"dictionary"`
	FailFast   bool              `mapstructure:"fail-fast"`
	Input      *InputConfig      `mapstructure:"input"`
	Headhunter *HeadhunterConfig `mapstructure:"headhunter"`
	Filters    *filtering.Config `mapstructure:"filters"`
	Analysis   *AnalysisConfig   `mapstructure:"analysis"`
	Output     *OutputConfig     `mapstructure:"output"`
	AI         *AIConfig         `mapstructure:"ai"`
}

type InputConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

type HeadhunterConfig struct {
	headhunter.Options `mapstructure:",squash"`

	TokenFile    string                   `mapstructure:"token-file"`
	FetchDetails bool                     `mapstructure:"fetch-details"`
	Search       *headhunter.SearchParams `mapstructure:"search"`
}

// NamedSkills is a category or role entry. Config keys are case-folded, so
// names live in values to keep their spelling.
type NamedSkills struct {
	Name   string   `mapstructure:"name"`
	Skills []string `mapstructure:"skills"`
}

type AnalysisConfig struct {
	Workers    int                      `mapstructure:"workers"`
	MinSupport int                      `mapstructure:"min-support"`
	TopN       int                      `mapstructure:"top-n"`
	Categories []NamedSkills            `mapstructure:"categories"`
	Roles      []NamedSkills            `mapstructure:"roles"`
	Seniority  analytics.SeniorityRules `mapstructure:"seniority"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
	Limit  int    `mapstructure:"limit"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

// CategoryTable returns the configured categories or the built-in table.
func (c *AnalysisConfig) CategoryTable() analytics.Categories {
	if c == nil || len(c.Categories) == 0 {
		return analytics.DefaultCategories()
	}
	out := make(analytics.Categories, len(c.Categories))
	for _, entry := range c.Categories {
		out[entry.Name] = append(out[entry.Name], entry.Skills...)
	}
	return out
}

// RoleTable returns the configured roles or the built-in table.
func (c *AnalysisConfig) RoleTable() analytics.Roles {
	if c == nil || len(c.Roles) == 0 {
		return analytics.DefaultRoles()
	}
	out := make(analytics.Roles, len(c.Roles))
	for _, entry := range c.Roles {
		out[entry.Name] = append(out[entry.Name], entry.Skills...)
	}
	return out
}

// SeniorityRules returns the configured rules or the built-in ones.
func (c *AnalysisConfig) SeniorityRules() analytics.SeniorityRules {
	if c == nil || len(c.Seniority) == 0 {
		return analytics.DefaultSeniorityRules()
	}
	return c.Seniority
}

var errInvalidConfig = errors.New("invalid configuration")

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skills-analyzer extracts skills from job postings and reports market demand",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("headhunter.token-file", "HH_TOKEN_FILE"); err != nil {
		log.Fatalf("binding HH_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "a config file (default is skills-analyzer.yaml in current directory)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.StringP("input", "i", "", "postings file (JSON lines or JSON array)")
	flags.String("source", "", "postings source: file or headhunter")
	flags.String("dictionary", "", "skills dictionary JSON file")
	flags.Bool("fail-fast", false, "abort on the first malformed record instead of skipping it")
	flags.Int("workers", 0, "parallel normalization workers")
	flags.StringP("format", "o", "", "output format: table, csv or json")
	flags.String("output-dir", "", "directory for csv output, one file per table")
	flags.Int("limit", 0, "maximum rows per table (0 means all)")

	viper.BindPFlag("debug", flags.Lookup("debug"))
	viper.BindPFlag("json", flags.Lookup("json"))
	viper.BindPFlag("log-file", flags.Lookup("log-file"))
	viper.BindPFlag("input.path", flags.Lookup("input"))
	viper.BindPFlag("input.source", flags.Lookup("source"))
	viper.BindPFlag("dictionary", flags.Lookup("dictionary"))
	viper.BindPFlag("fail-fast", flags.Lookup("fail-fast"))
	viper.BindPFlag("analysis.workers", flags.Lookup("workers"))
	viper.BindPFlag("output.format", flags.Lookup("format"))
	viper.BindPFlag("output.dir", flags.Lookup("output-dir"))
	viper.BindPFlag("output.limit", flags.Lookup("limit"))
}

func setDefaults() {
	viper.SetDefault("dictionary", "skills-data/skills-dictionary.json")
	viper.SetDefault("input.source", sourceFile)
	viper.SetDefault("input.path", "skills-data/all-jobs.json")
	viper.SetDefault("headhunter.requests-per-second", 2)
	viper.SetDefault("analysis.workers", 4)
	viper.SetDefault("analysis.min-support", analytics.DefaultMinSupport)
	viper.SetDefault("analysis.top-n", 10)
	viper.SetDefault("output.format", "table")
	viper.SetDefault("ai.gemini.max-retries", 2)
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	// The version command does not need a config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine, flags and defaults still apply.
	// An explicit or unparsable config is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.Input == nil {
		config.Input = &InputConfig{}
	}
	if config.Filters == nil {
		config.Filters = &filtering.Config{}
	}
	if config.Analysis == nil {
		config.Analysis = &AnalysisConfig{}
	}
	if config.Output == nil {
		config.Output = &OutputConfig{}
	}

	return config, nil
}
