package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type AppConfig struct {
	Port               string `mapstructure:"PORT"`
	GRPCPort           string `mapstructure:"GRPC_PORT"`
	ServiceName        string `mapstructure:"SERVICE_NAME"`
	StorageDriver      string `mapstructure:"STORAGE_DRIVER"`
	MongoURI           string `mapstructure:"MONGO_URI"`
	MongoDatabase      string `mapstructure:"MONGO_DATABASE"`
	PostgresUsername   string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword   string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase   string `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode    string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost       string `mapstructure:"POSTGRES_HOST"`
	PostgresPort       string `mapstructure:"POSTGRES_PORT"`
	RabbitMQURL        string `mapstructure:"RABBITMQ_URL"`
	AWSEndpoint        string `mapstructure:"AWS_ENDPOINT"`
	AWSBucket          string `mapstructure:"AWS_BUCKET"`
	AWSDefaultRegion   string `mapstructure:"AWS_DEFAULT_REGION"`
	AWSAccessKey       string `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey       string `mapstructure:"AWS_SECRET_KEY"`
	EnrichConcurrency  int    `mapstructure:"ENRICH_CONCURRENCY"`
	LegacyItemRuleJoin bool   `mapstructure:"LEGACY_ITEM_RULE_JOIN"`
}

func Read() *AppConfig {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	var appConfig AppConfig
	err := viper.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	if err := appConfig.Validate(); err != nil {
		panic(fmt.Errorf("fatal error in config: %w", err))
	}

	return &appConfig
}

func (c *AppConfig) Validate() error {
	switch c.StorageDriver {
	case StorageMongo, StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.EnrichConcurrency < 1 {
		return fmt.Errorf("ENRICH_CONCURRENCY must be positive, got %d", c.EnrichConcurrency)
	}

	return nil
}

// HasObjectStorage reports whether failure pictures can be uploaded.
func (c *AppConfig) HasObjectStorage() bool {
	return c.AWSBucket != ""
}

func bindEnvVariables() {
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("GRPC_PORT")
	_ = viper.BindEnv("SERVICE_NAME")
	_ = viper.BindEnv("STORAGE_DRIVER")
	_ = viper.BindEnv("MONGO_URI")
	_ = viper.BindEnv("MONGO_DATABASE")
	_ = viper.BindEnv("POSTGRES_USERNAME")
	_ = viper.BindEnv("POSTGRES_PASSWORD")
	_ = viper.BindEnv("POSTGRES_DATABASE")
	_ = viper.BindEnv("POSTGRES_SSLMODE")
	_ = viper.BindEnv("POSTGRES_HOST")
	_ = viper.BindEnv("POSTGRES_PORT")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("AWS_ENDPOINT")
	_ = viper.BindEnv("AWS_BUCKET")
	_ = viper.BindEnv("AWS_DEFAULT_REGION")
	_ = viper.BindEnv("AWS_ACCESS_KEY")
	_ = viper.BindEnv("AWS_SECRET_KEY")
	_ = viper.BindEnv("ENRICH_CONCURRENCY")
	_ = viper.BindEnv("LEGACY_ITEM_RULE_JOIN")
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GRPC_PORT", "9090")
	viper.SetDefault("SERVICE_NAME", "commentadmin")
	viper.SetDefault("STORAGE_DRIVER", StorageMongo)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "comment_admin")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("ENRICH_CONCURRENCY", 8)
	viper.SetDefault("LEGACY_ITEM_RULE_JOIN", false)
}
