package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	TelegramBot struct {
		Token       string        `yaml:"token"`
		Mode        string        `yaml:"mode"`
		WebhookURL  string        `yaml:"webhook_url"`
		ListenAddr  string        `yaml:"listen_addr"`
		PollTimeout time.Duration `yaml:"poll_timeout"`
	} `yaml:"telegram_bot"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
	} `yaml:"database"`
	Files struct {
		Catalog       string `yaml:"catalog"`
		Locales       string `yaml:"locales"`
		EmailTemplate string `yaml:"email_template"`
		PDFFont       string `yaml:"pdf_font"`
		PDFFontBold   string `yaml:"pdf_font_bold"`
	} `yaml:"files"`
	Session struct {
		IdleTTL       time.Duration `yaml:"idle_ttl"`
		SweepInterval time.Duration `yaml:"sweep_interval"`
	} `yaml:"session"`
	Email struct {
		SMTPServer  string `yaml:"smtp_server"`
		SMTPPort    int    `yaml:"smtp_port"`
		SenderEmail string `yaml:"sender_email"`
		Password    string `yaml:"-"`
		Subject     string `yaml:"subject"`
	} `yaml:"email"`
	Contacts struct {
		ConsultationNumber string `yaml:"consultation_number"`
		Link               string `yaml:"link"`
		Mail               string `yaml:"mail"`
	} `yaml:"contacts"`
	Recommendations struct {
		FreeEmoji string `yaml:"free_emoji"`
		PaidEmoji string `yaml:"paid_emoji"`
	} `yaml:"recommendations"`
	// Admins Telegram ники администраторов без @
	Admins   []string `yaml:"admins"`
	LogLevel string   `yaml:"log_level"`
	// Debug отправляет пользователю отладочное сообщение после каждого обновления
	Debug bool `yaml:"debug"`
}

// LoadConfig читает YAML конфигурацию, затем подставляет секреты из окружения и .env
func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	config := &Config{}
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, err)
	}

	// .env необязателен
	_ = godotenv.Load()
	config.applyEnv()
	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramBot.Token = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		c.Email.Password = v
	}
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.TelegramBot.Mode == "" {
		c.TelegramBot.Mode = ModePolling
	}
	if c.TelegramBot.ListenAddr == "" {
		c.TelegramBot.ListenAddr = ":8443"
	}
	if c.TelegramBot.PollTimeout <= 0 {
		c.TelegramBot.PollTimeout = 10 * time.Second
	}
	if c.Session.IdleTTL <= 0 {
		c.Session.IdleTTL = time.Hour
	}
	if c.Session.SweepInterval <= 0 {
		c.Session.SweepInterval = 5 * time.Minute
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 465
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error
	if c.TelegramBot.Token == "" {
		errs = append(errs, errors.New("telegram bot token is not set"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database name is not set"))
	}
	switch c.TelegramBot.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.TelegramBot.WebhookURL == "" {
			errs = append(errs, errors.New("webhook_url is required in webhook mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown bot mode %q", c.TelegramBot.Mode))
	}
	if c.Files.Catalog == "" {
		errs = append(errs, errors.New("catalog file is not set"))
	}
	return errors.Join(errs...)
}

// IsAdmin проверяет, входит ли пользователь в список администраторов
func (c *Config) IsAdmin(username string) bool {
	if username == "" {
		return false
	}
	for _, a := range c.Admins {
		if a == username {
			return true
		}
	}
	return false
}

// DatabaseURL строка подключения к PostgreSQL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}
