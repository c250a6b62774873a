// Package config loads transport settings from a config file, a .env file and
// MANDRILL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	email "github.com/International-Combat-Archery-Alliance/mandrill-email"
	"github.com/International-Combat-Archery-Alliance/mandrill-email/mandrill"
)

const envPrefix = "MANDRILL"

// Config holds the complete transport configuration.
type Config struct {
	APIKey         string        `mapstructure:"api_key" validate:"required"`
	BaseURL        string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gte=0"`
	DefaultFrom    string        `mapstructure:"default_from" validate:"omitempty,mailaddress"`
	DefaultReplyTo string        `mapstructure:"default_reply_to" validate:"omitempty,mailaddress"`
	DefaultBcc     string        `mapstructure:"default_bcc" validate:"omitempty,mailaddress"`
	DebugTo        string        `mapstructure:"debug_to" validate:"omitempty,mailaddress"`
	Tags           []string      `mapstructure:"tags" validate:"dive,required"`
	Subaccount     string        `mapstructure:"subaccount"`
	CcBccMode      string        `mapstructure:"cc_bcc_mode" validate:"omitempty,oneof=recipient_role header"`

	// LineBreak is "lf" or "crlf"; empty leaves bodies untouched.
	LineBreak string    `mapstructure:"line_break" validate:"omitempty,oneof=lf crlf"`
	Log       LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Env   string `mapstructure:"env"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error"`
}

// Load reads configuration. A .env file in the working directory is loaded
// into the environment when present; path, when set, names a config file
// whose format follows its extension. Environment variables always override
// file values.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults registers every key so that environment variables are seen
// by Unmarshal.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", mandrill.DefaultBaseURL)
	v.SetDefault("timeout", mandrill.DefaultTimeout)
	v.SetDefault("default_from", "")
	v.SetDefault("default_reply_to", "")
	v.SetDefault("default_bcc", "")
	v.SetDefault("debug_to", "")
	v.SetDefault("tags", []string{})
	v.SetDefault("subaccount", "")
	v.SetDefault("cc_bcc_mode", mandrill.CcBccRecipientRole.String())
	v.SetDefault("line_break", "")
	v.SetDefault("log.env", "production")
	v.SetDefault("log.level", "info")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("mailaddress", func(fl validator.FieldLevel) bool {
		_, err := email.ParseAddress(fl.Field().String())
		return err == nil
	})
	return v
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return email.NewValidationError("invalid config: "+strings.Join(msgs, ", "), err)
		}
		return email.NewValidationError("invalid config", err)
	}
	return nil
}

// ClientOptions returns the HTTP client settings.
func (c *Config) ClientOptions() []mandrill.ClientOption {
	opts := []mandrill.ClientOption{
		mandrill.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
	}
	if c.BaseURL != "" {
		opts = append(opts, mandrill.WithBaseURL(c.BaseURL))
	}
	return opts
}

// TransportOptions converts the configured defaults to transport options.
func (c *Config) TransportOptions() ([]mandrill.Option, error) {
	mode, err := mandrill.ParseCcBccMode(c.CcBccMode)
	if err != nil {
		return nil, email.NewValidationError("invalid cc_bcc_mode", err)
	}

	opts := []mandrill.Option{mandrill.WithCcBccMode(mode)}

	addrs := []struct {
		value string
		opt   func(email.Address) mandrill.Option
	}{
		{c.DefaultFrom, mandrill.WithDefaultFrom},
		{c.DefaultReplyTo, mandrill.WithDefaultReplyTo},
		{c.DefaultBcc, mandrill.WithDefaultBcc},
		{c.DebugTo, mandrill.WithDebugTo},
	}
	for _, a := range addrs {
		if a.value == "" {
			continue
		}
		addr, err := email.ParseAddress(a.value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, a.opt(addr))
	}

	if len(c.Tags) > 0 {
		opts = append(opts, mandrill.WithTags(c.Tags...))
	}
	if c.Subaccount != "" {
		opts = append(opts, mandrill.WithSubaccount(c.Subaccount))
	}

	switch c.LineBreak {
	case "lf":
		opts = append(opts, mandrill.WithLineBreak("\n"))
	case "crlf":
		opts = append(opts, mandrill.WithLineBreak("\r\n"))
	}

	return opts, nil
}

// NewTransport builds a transport from the configuration. extra options are
// applied after the configured ones.
func (c *Config) NewTransport(extra ...mandrill.Option) (*mandrill.Transport, error) {
	opts, err := c.TransportOptions()
	if err != nil {
		return nil, err
	}

	client := mandrill.NewClient(c.APIKey, c.ClientOptions()...)

	return mandrill.NewTransport(client, append(opts, extra...)...), nil
}
