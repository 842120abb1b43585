package utils

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Queue    QueueConfig
	Mailtrap MailtrapConfig
	Frontend FrontendConfig
	Password PasswordConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type QueueConfig struct {
	URL       string
	QueueName string
}

type MailtrapConfig struct {
	APIURL      string
	APIToken    string
	SenderEmail string
	SenderName  string
}

type FrontendConfig struct {
	BaseURL string
}

type PasswordConfig struct {
	BcryptCost int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 1)
	viper.SetDefault("EMAIL_QUEUE_NAME", "email_queue")
	viper.SetDefault("BCRYPT_COST", 12)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional in containerized deployments; env vars still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Queue: QueueConfig{
			URL:       viper.GetString("RABBITMQ_URL"),
			QueueName: viper.GetString("EMAIL_QUEUE_NAME"),
		},
		Mailtrap: MailtrapConfig{
			APIURL:      viper.GetString("MAILTRAP_API_URL"),
			APIToken:    viper.GetString("MAILTRAP_API_TOKEN"),
			SenderEmail: viper.GetString("MAILTRAP_SENDER_EMAIL"),
			SenderName:  viper.GetString("MAILTRAP_SENDER_NAME"),
		},
		Frontend: FrontendConfig{
			BaseURL: viper.GetString("FRONTEND_BASE_URL"),
		},
		Password: PasswordConfig{
			BcryptCost: viper.GetInt("BCRYPT_COST"),
		},
	}

	return config, nil
}
