package config

const (
	DefaultConfigPath = "~/.postgreat/config.yaml"
	DefaultPGPort     = 5432
	DefaultSSLMode    = "prefer"
	DefaultPGUser     = "postgres"
	DefaultPGDatabase = "postgres"
	DefaultComputeTier = "medium"
	DefaultWorkloadHint = "mixed"
)
