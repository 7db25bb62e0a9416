// Command sgctl is a small command line front end for the SendGrid client.
//
//	sgctl stats [days]   print global stats for the last days days (default 30)
//	sgctl scopes         print the scopes granted to the API key
//	sgctl send           send the mail/send JSON message read from stdin
//
// Settings are read from SENDGRID_* environment variables, after loading a
// .env file from the working directory when one exists.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	sendgrid "github.com/formsend/client-go"
)

const usage = "usage: sgctl <stats [days] | scopes | send>"

// Config holds the streams the command reads from and writes to.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config wired to the process streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Settings are the SENDGRID_* environment variables.
type Settings struct {
	APIKey  string        `envconfig:"API_KEY" required:"true"`
	BaseURL string        `envconfig:"BASE_URL" default:"https://api.sendgrid.com/v3/"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"60s"`
	Debug   bool          `envconfig:"DEBUG"`
}

func loadSettings() (Settings, error) {
	// A missing .env is normal; the environment may already be set.
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("sendgrid", &s); err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

func newLogger(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

func run(args []string, cfg Config) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Stderr, settings.Debug)
	defer logger.Sync()

	client, err := sendgrid.New(settings.APIKey,
		sendgrid.WithBaseURL(settings.BaseURL),
		sendgrid.WithTimeout(settings.Timeout),
		sendgrid.WithUserAgent("sgctl"),
		sendgrid.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	ctx := context.Background()

	switch args[1] {
	case "stats":
		return stats(ctx, client, args[2:], cfg.Stdout)
	case "scopes":
		return scopes(ctx, client, cfg.Stdout)
	case "send":
		return send(ctx, client, cfg.Stdin, cfg.Stdout)
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[1], usage)
	}
}

func stats(ctx context.Context, client *sendgrid.Client, args []string, out io.Writer) error {
	days := sendgrid.DefaultStatsDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid days %q: %w", args[0], err)
		}
		days = n
	}

	raw, err := client.GetStatsRaw(ctx, days)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	_, err = fmt.Fprintln(out, string(raw))
	return err
}

// ScopesOutput is printed by the scopes command.
type ScopesOutput struct {
	Scopes []string `json:"scopes"`
}

func scopes(ctx context.Context, client *sendgrid.Client, out io.Writer) error {
	loaded := client.LoadScopes(ctx)
	if loaded == nil {
		loaded = []string{}
	}
	return writeJSON(out, ScopesOutput{Scopes: loaded})
}

// SendOutput is printed by the send command.
type SendOutput struct {
	Status    int    `json:"status"`
	MessageID string `json:"message_id,omitempty"`
}

func send(ctx context.Context, client *sendgrid.Client, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	var msg sendgrid.Message
	if err := sonic.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("parse message: %w", err)
	}

	resp, err := client.SendEmail(ctx, &msg)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}

	return writeJSON(out, SendOutput{Status: resp.StatusCode, MessageID: resp.MessageID})
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
