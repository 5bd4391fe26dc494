// Command streamchat streams a chat completion from a generative-text
// provider to stdout. It is the end-to-end exercise of the kit: config and
// env loading, dialect selection, and a live cancellable stream.
//
//	streamchat --dialect ollama --base-url http://localhost:11434 \
//	    --model llama3 "Why is the sky blue?"
//
// Ctrl-C cancels the stream mid-flight; the connection is released and the
// command exits without an error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/streambridge/config"
	"github.com/kbukum/streambridge/genai"
	_ "github.com/kbukum/streambridge/genai/ollama"
	_ "github.com/kbukum/streambridge/genai/openai"
	"github.com/kbukum/streambridge/httpclient"
	"github.com/kbukum/streambridge/logger"
	"github.com/kbukum/streambridge/observability"
	"github.com/kbukum/streambridge/version"
)

// appConfig is the file/env-loadable configuration. Flags override it.
type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	GenAI genai.Config `yaml:"genai" mapstructure:"genai"`
}

func (c *appConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "streamchat"
	}
	c.ServiceConfig.ApplyDefaults()
	c.GenAI.ApplyDefaults()
}

func (c *appConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return c.GenAI.Validate()
}

type flags struct {
	dialect     string
	baseURL     string
	model       string
	system      string
	apiKey      string
	temperature float64
	maxTokens   int
	noStream    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:     "streamchat [flags] <prompt>",
		Short:   "Stream a chat completion to stdout",
		Version: version.GetFullVersion(),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(f, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&f.dialect, "dialect", "", "provider dialect (ollama, openai)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "provider API base URL")
	cmd.Flags().StringVar(&f.model, "model", "", "model name")
	cmd.Flags().StringVar(&f.system, "system", "", "system prompt")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "bearer token (or STREAMCHAT_API_KEY)")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 0, "sampling temperature")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", 0, "maximum response tokens")
	cmd.Flags().BoolVar(&f.noStream, "no-stream", false, "wait for the full response instead of streaming")

	cmd.AddCommand(newCheckCommand(&f))
	return cmd
}

// newCheckCommand probes the configured provider and reports its health.
func newCheckCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the configured provider is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig(*f)
			if err != nil {
				return err
			}

			client, err := genai.New(cfg.GenAI)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			sh := observability.NewServiceHealth(cfg.Name, version.GetShortVersion())
			sh.AddComponent(client.CheckHealth(ctx))
			for _, comp := range sh.Components {
				fmt.Printf("%-20s %s", comp.Name, comp.Status)
				if comp.Message != "" {
					fmt.Printf(" (%s)", comp.Message)
				}
				fmt.Println()
			}
			if sh.Status != observability.HealthStatusUp {
				return fmt.Errorf("provider is %s", sh.Status)
			}
			return nil
		},
	}
}

func run(f flags, prompt string) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	client, err := genai.New(cfg.GenAI)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req := genai.CompletionRequest{
		Messages:     []genai.Message{{Role: genai.RoleUser, Content: prompt}},
		SystemPrompt: f.system,
	}

	if f.noStream {
		resp, err := client.Complete(ctx, req)
		if err != nil {
			return err
		}
		fmt.Println(resp.Content)
		return nil
	}

	ch, sub, err := client.Stream(ctx, req)
	if err != nil {
		return err
	}
	defer sub.Cancel()

	for ev := range ch {
		switch {
		case ev.IsError():
			fmt.Println()
			return ev.Err
		case ev.IsDone():
			fmt.Println()
			return nil
		default:
			fmt.Print(ev.Object.Content)
		}
	}
	// Channel closed without a terminal event: the signal handler cancelled.
	fmt.Println()
	logger.Debug("stream cancelled by signal")
	return nil
}

// loadConfig layers file/env configuration under the flag overrides, then
// runs the defaults/validate/logger-init lifecycle. Flags must land before
// validation so a purely flag-driven invocation needs no config file.
func loadConfig(f flags) (*appConfig, error) {
	cfg := &appConfig{}
	if err := config.LoadConfig("streamchat", cfg); err != nil {
		return nil, err
	}
	applyFlags(&cfg.GenAI, f)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Init(&cfg.Logging)
	return cfg, nil
}

func applyFlags(cfg *genai.Config, f flags) {
	if f.dialect != "" {
		cfg.Dialect = f.dialect
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.model != "" {
		cfg.Model = f.model
	}
	if f.temperature != 0 {
		cfg.Temperature = f.temperature
	}
	if f.maxTokens != 0 {
		cfg.MaxTokens = f.maxTokens
	}
	key := f.apiKey
	if key == "" {
		key = os.Getenv("STREAMCHAT_API_KEY")
	}
	if key != "" {
		cfg.Auth = httpclient.BearerAuth(key)
	}
}
