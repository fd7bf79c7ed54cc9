package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Search   SearchConfig   `mapstructure:"search"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Notion   NotionConfig   `mapstructure:"notion"`
	GeminiAI GeminiAIConfig `mapstructure:"gemini_ai"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Video    VideoConfig    `mapstructure:"video"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowOrigins  []string `mapstructure:"allow_origins"`
	AllowMethods  []string `mapstructure:"allow_methods"`
	AllowHeaders  []string `mapstructure:"allow_headers"`
	ExposeHeaders []string `mapstructure:"expose_headers"`
}

type SearchConfig struct {
	SourceTimeout     time.Duration `mapstructure:"source_timeout"`
	CacheSize         int           `mapstructure:"cache_size"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	UserAgent         string        `mapstructure:"user_agent"`
	OpenLibraryURL    string        `mapstructure:"openlibrary_url"`
	GoogleBooksURL    string        `mapstructure:"google_books_url"`
	GoogleBooksAPIKey string        `mapstructure:"google_books_api_key"`
}

type ChatConfig struct {
	Provider        string `mapstructure:"provider"`
	Model           string `mapstructure:"model"`
	MaxHistoryTurns int    `mapstructure:"max_history_turns"`
	MaxMessageChars int    `mapstructure:"max_message_chars"`
}

type NotionConfig struct {
	Token      string `mapstructure:"token"`
	DatabaseID string `mapstructure:"database_id"`
}

type GeminiAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type VideoConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Secrets keep their conventional environment names.
var envBindings = map[string]string{
	"server.port":                 "PORT",
	"notion.token":                "NOTION_TOKEN",
	"notion.database_id":          "NOTION_DATABASE_ID",
	"gemini_ai.api_key":           "GEMINI_API_KEY",
	"openai.api_key":              "OPENAI_API_KEY",
	"search.google_books_api_key": "GOOGLE_BOOKS_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Content-Type"})
	v.SetDefault("cors.expose_headers", []string{"X-Request-Id"})

	v.SetDefault("search.source_timeout", 8*time.Second)
	v.SetDefault("search.cache_size", 256)
	v.SetDefault("search.cache_ttl", time.Duration(0))
	v.SetDefault("search.user_agent", "bookfinder/1.0")
	v.SetDefault("search.openlibrary_url", "https://openlibrary.org")
	v.SetDefault("search.google_books_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("search.google_books_api_key", "")

	v.SetDefault("chat.provider", ProviderGemini)
	v.SetDefault("chat.model", "")
	v.SetDefault("chat.max_history_turns", 10)
	v.SetDefault("chat.max_message_chars", 4000)

	v.SetDefault("notion.token", "")
	v.SetDefault("notion.database_id", "")
	v.SetDefault("gemini_ai.api_key", "")
	v.SetDefault("openai.api_key", "")

	v.SetDefault("video.timeout", 10*time.Second)
	v.SetDefault("video.user_agent", "Mozilla/5.0 (compatible; BookBot/1.0)")
}

// LoadConfig reads defaults, then the optional YAML file at configPath, then
// the environment. A .env file at envPath is loaded first when it exists;
// either path may be empty.
func LoadConfig(configPath string, envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.Chat.Provider = strings.ToLower(strings.TrimSpace(config.Chat.Provider))

	return &config, nil
}
