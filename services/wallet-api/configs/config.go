package configs

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/Seer7-SWE/PayTM-clone/pkg"
	"github.com/Seer7-SWE/PayTM-clone/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port                   string        `mapstructure:"PORT" validate:"required"`
	PrimaryDbAddr          string        `mapstructure:"PRIMARY_DB_ADDR" validate:"required"`
	ReplicaDbAddr          string        `mapstructure:"REPLICA_DB_ADDR"`
	MaxDbCons              int32         `mapstructure:"MAX_DB_CONNECTIONS" validate:"min=1"`
	MinDbCons              int32         `mapstructure:"MIN_DB_CONNECTIONS" validate:"min=1,ltefield=MaxDbCons"`
	JwtSecret              string        `mapstructure:"JWT_SECRET" validate:"required,min=16"`
	SessionTTL             time.Duration `mapstructure:"SESSION_TTL" validate:"min=1m"`
	RedisAddr              string        `mapstructure:"REDIS_ADDR"`
	KafkaBrokers           string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTransferTopic     string        `mapstructure:"KAFKA_TRANSFER_TOPIC" validate:"required_with=KafkaBrokers"`
	KafkaPartition         uint32        `mapstructure:"KAFKA_PARTITION" validate:"min=1"`
	KafkaTransferRetention time.Duration `mapstructure:"KAFKA_TRANSFER_RETENTION" validate:"min=1h"`
	MaxSeedBalance         int64         `mapstructure:"MAX_SEED_BALANCE" validate:"min=1"`
	SearchLimit            int           `mapstructure:"SEARCH_LIMIT" validate:"min=1,max=100"`
	RecentLimit            int           `mapstructure:"RECENT_LIMIT" validate:"min=1,max=100"`
	TransferTimeout        time.Duration `mapstructure:"TRANSFER_TIMEOUT" validate:"min=100ms"`
}

// ReplicaDSNs splits the comma separated replica list.
func (c *Config) ReplicaDSNs() []string {
	var dsns []string
	for _, dsn := range strings.Split(c.ReplicaDbAddr, ",") {
		if dsn = strings.TrimSpace(dsn); !utils.IsEmpty(dsn) {
			dsns = append(dsns, dsn)
		}
	}
	return dsns
}

// KafkaEnabled reports whether transfer events should be published.
func (c *Config) KafkaEnabled() bool {
	return !utils.IsBlank(c.KafkaBrokers)
}

func Load(logger *zap.Logger) (*Config, error) {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("dotenv_not_loaded", zap.Error(err))
	}

	viper.SetEnvPrefix("app") // Prefix for env vars
	viper.AutomaticEnv()

	// Default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("MAX_DB_CONNECTIONS", "10")
	viper.SetDefault("MIN_DB_CONNECTIONS", "2")
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("KAFKA_TRANSFER_TOPIC", "wallet.transfers")
	viper.SetDefault("KAFKA_PARTITION", "4")
	viper.SetDefault("KAFKA_TRANSFER_RETENTION", "168h")
	viper.SetDefault("MAX_SEED_BALANCE", pkg.DefaultMaxSeedBalance)
	viper.SetDefault("SEARCH_LIMIT", "100")
	viper.SetDefault("RECENT_LIMIT", pkg.DefaultRecentLimit)
	viper.SetDefault("TRANSFER_TIMEOUT", "5s")

	if gin.ReleaseMode == gin.Mode() {
		viper.SetConfigName("config.prod")
	} else if gin.TestMode == gin.Mode() {
		logger.Warn("running in test mode")
		viper.SetConfigName("config.test")
	} else {
		logger.Warn("running in development mode")
		viper.SetConfigName("config.dev")
	}
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./services/wallet-api/configs")
	_ = viper.ReadInConfig() // Ignore if no file

	var cfg Config
	if err := utils.ParseStructEnv(&cfg); err != nil {
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, utils.FormatConfigErrors(logger, err, cfg)
	}
	return &cfg, nil
}
