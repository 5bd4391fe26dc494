// Package config provides configuration loading and validation for
// streambridge applications.
//
// It uses Viper to load configuration from files and environment variables,
// with .env support via godotenv. Structs embedding ServiceConfig follow the
// ApplyDefaults/Validate convention and satisfy the Config interface through
// promoted methods.
//
// # Usage
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    GenAI genai.Config `yaml:"genai" mapstructure:"genai"`
//	}
//
//	var cfg AppConfig
//	err := config.Load("streamchat", &cfg)
//
// Environment variables override file values using underscore-separated
// paths (e.g., LOGGING_LEVEL, GENAI_BASE_URL).
package config
