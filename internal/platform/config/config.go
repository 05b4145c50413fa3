package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	RegistryAdminPrincipal string
	DefaultRedeemFee       int64
	RewardPercentage       int64
	AuthorizerBaseURI      string
	OperatorBaseURI        string

	EnableOutboxRelay bool
}

// fileOverlay is the optional YAML overlay named by CONFIG_FILE. Values set
// in the file win over environment defaults.
type fileOverlay struct {
	ServiceName            string   `yaml:"service_name"`
	HTTPPort               string   `yaml:"http_port"`
	PostgresDSN            string   `yaml:"postgres_dsn"`
	KafkaBrokers           []string `yaml:"kafka_brokers"`
	RegistryAdminPrincipal string   `yaml:"registry_admin_principal"`
	DefaultRedeemFee       *int64   `yaml:"default_redeem_fee"`
	RewardPercentage       *int64   `yaml:"reward_percentage"`
	AuthorizerBaseURI      string   `yaml:"authorizer_base_uri"`
	OperatorBaseURI        string   `yaml:"operator_base_uri"`
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "domin"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	admin := os.Getenv("REGISTRY_ADMIN_PRINCIPAL")
	if admin == "" {
		admin = "registry-admin"
	}

	cfg := Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		RegistryAdminPrincipal: admin,
		DefaultRedeemFee:       envInt64("DEFAULT_REDEEM_FEE", 100),
		RewardPercentage:       envInt64("AUTHORIZER_REWARD_PERCENTAGE", 5),
		AuthorizerBaseURI:      envString("AUTHORIZER_BASE_URI", "https://tokens.domin.local/authorizer/"),
		OperatorBaseURI:        envString("OPERATOR_BASE_URI", "https://tokens.domin.local/operator/"),

		EnableOutboxRelay: envBool("ENABLE_OUTBOX_RELAY", true),
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyOverlay(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func applyOverlay(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var overlay fileOverlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if overlay.ServiceName != "" {
		cfg.ServiceName = overlay.ServiceName
	}
	if overlay.HTTPPort != "" {
		cfg.HTTPPort = overlay.HTTPPort
	}
	if overlay.PostgresDSN != "" {
		cfg.PostgresDSN = overlay.PostgresDSN
	}
	if len(overlay.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = overlay.KafkaBrokers
	}
	if overlay.RegistryAdminPrincipal != "" {
		cfg.RegistryAdminPrincipal = overlay.RegistryAdminPrincipal
	}
	if overlay.DefaultRedeemFee != nil {
		cfg.DefaultRedeemFee = *overlay.DefaultRedeemFee
	}
	if overlay.RewardPercentage != nil {
		cfg.RewardPercentage = *overlay.RewardPercentage
	}
	if overlay.AuthorizerBaseURI != "" {
		cfg.AuthorizerBaseURI = overlay.AuthorizerBaseURI
	}
	if overlay.OperatorBaseURI != "" {
		cfg.OperatorBaseURI = overlay.OperatorBaseURI
	}
	return nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt64(name string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
