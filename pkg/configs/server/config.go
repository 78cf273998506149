// Package server loads the configuration of orcaobra server.
//
// Configuration is read from a yaml file. Secrets can be put in the
// environment, which overrides the file.
package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

type ServerConfig struct {
	Server  ServerSection  `yaml:"server"`
	DB      DBSection      `yaml:"db"`
	Auth    AuthSection    `yaml:"auth"`
	LLM     LLMSection     `yaml:"llm"`
	Billing BillingSection `yaml:"billing"`
	Storage StorageSection `yaml:"storage"`
	Quota   QuotaSection   `yaml:"quota"`
}

type ServerSection struct {
	Port string `yaml:"port"`

	// URL where users reach the application. Payment pages return there.
	PublicURL string `yaml:"publicUrl"`
}

type DBSection struct {
	URI string `yaml:"uri"`

	// directory of versioned schema
	SchemaRepository string `yaml:"schemaRepository"`
}

type AuthSection struct {
	// secret of HS256 access tokens
	JWTSecret   string   `yaml:"jwtSecret"`
	Issuer      string   `yaml:"issuer"`
	AdminEmails []string `yaml:"adminEmails"`
}

type LLMSection struct {
	// providers to try, in order
	Order   []string      `yaml:"order"`
	Timeout time.Duration `yaml:"timeout"`
	Groq    GroqSection   `yaml:"groq"`
	Gemini  GeminiSection `yaml:"gemini"`
}

type GroqSection struct {
	APIKey      string  `yaml:"apiKey"`
	URL         string  `yaml:"url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

type GeminiSection struct {
	APIKey      string  `yaml:"apiKey"`
	URL         string  `yaml:"url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

type BillingSection struct {
	Stripe StripeSection `yaml:"stripe"`
}

type StripeSection struct {
	SecretKey     string `yaml:"secretKey"`
	WebhookSecret string `yaml:"webhookSecret"`
	PriceID       string `yaml:"priceId"`
}

type StorageSection struct {
	S3 S3Section `yaml:"s3"`
}

type S3Section struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	PathStyle       bool   `yaml:"pathStyle"`

	// lifetime of download URLs of photos
	URLTTL time.Duration `yaml:"urlTtl"`
}

type QuotaSection struct {
	FreeBudgetsPerMonth int `yaml:"freeBudgetsPerMonth"`
}

// secrets overriding the file.
type secrets struct {
	DBURI               string `env:"ORCAOBRA_DB_URI"`
	JWTSecret           string `env:"ORCAOBRA_JWT_SECRET"`
	GroqAPIKey          string `env:"GROQ_API_KEY"`
	GeminiAPIKey        string `env:"GEMINI_API_KEY"`
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	S3AccessKeyID       string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey   string `env:"S3_SECRET_ACCESS_KEY"`
}

// LoadServerConfig reads the config file and overlays secrets in the environment.
func LoadServerConfig(filepath string) (*ServerConfig, error) {
	return LoadServerConfigWithEnv(filepath, nil)
}

// LoadServerConfigWithEnv is LoadServerConfig, reading secrets from environ
// instead of the process environment when it is not nil.
func LoadServerConfigWithEnv(filepath string, environ map[string]string) (*ServerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	conf, err := Unmarshal(content)
	if err != nil {
		return nil, err
	}

	s := secrets{}
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	conf.overlay(s)

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Unmarshal parses yaml and fills defaults.
func Unmarshal(content []byte) (*ServerConfig, error) {
	var out ServerConfig
	if err := yaml.Unmarshal(content, &out); err != nil {
		return nil, err
	}
	out.defaults()
	return &out, nil
}

func (c *ServerConfig) defaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.DB.SchemaRepository == "" {
		c.DB.SchemaRepository = "./schema/postgres"
	}
	if len(c.LLM.Order) == 0 {
		c.LLM.Order = []string{ProviderGroq, ProviderGemini}
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	if c.Storage.S3.URLTTL == 0 {
		c.Storage.S3.URLTTL = 15 * time.Minute
	}
	if c.Quota.FreeBudgetsPerMonth == 0 {
		c.Quota.FreeBudgetsPerMonth = 3
	}
}

func (c *ServerConfig) overlay(s secrets) {
	set := func(dest *string, v string) {
		if v != "" {
			*dest = v
		}
	}
	set(&c.DB.URI, s.DBURI)
	set(&c.Auth.JWTSecret, s.JWTSecret)
	set(&c.LLM.Groq.APIKey, s.GroqAPIKey)
	set(&c.LLM.Gemini.APIKey, s.GeminiAPIKey)
	set(&c.Billing.Stripe.SecretKey, s.StripeSecretKey)
	set(&c.Billing.Stripe.WebhookSecret, s.StripeWebhookSecret)
	set(&c.Storage.S3.AccessKeyID, s.S3AccessKeyID)
	set(&c.Storage.S3.SecretAccessKey, s.S3SecretAccessKey)
}

// Validate reports every misconfiguration found.
func (c *ServerConfig) Validate() error {
	errs := []error{}
	if c.DB.URI == "" {
		errs = append(errs, errors.New("db.uri (or ORCAOBRA_DB_URI) is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwtSecret (or ORCAOBRA_JWT_SECRET) is required"))
	}
	for _, p := range c.LLM.Order {
		switch p {
		case ProviderGroq, ProviderGemini:
		default:
			errs = append(errs, fmt.Errorf("llm.order: unknown provider %q", p))
		}
	}
	if c.Quota.FreeBudgetsPerMonth < 0 {
		errs = append(errs, errors.New("quota.freeBudgetsPerMonth should not be negative"))
	}
	return errors.Join(errs...)
}
