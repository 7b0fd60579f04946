package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env              string           `yaml:"env" env-default:"development"`
	DbConfig         DbConfig         `yaml:"db" env-required:"true"`
	HttpServerConfig HttpServerConfig `yaml:"http_server" env-required:"true"`
	CacheConfig      CacheConfig      `yaml:"cache" env-required:"true"`
	JWTConfig        JWTConfig        `yaml:"jwt" env-required:"true"`
	SMTPConfig       SMTPConfig       `yaml:"smtp"`
	S3Config         S3Config         `yaml:"s3"`
	OAuthConfig      OAuthConfig      `yaml:"oauth"`
	WhatsAppConfig   WhatsAppConfig   `yaml:"whatsapp"`
}

type DbConfig struct {
	Username string `yaml:"username"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	DbName   string `yaml:"dbname"`
	SSLMode  string `yaml:"ssl_mode"`
}

type TLSConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type HttpServerConfig struct {
	Address        string        `yaml:"address" env-required:"true"`
	Timeout        time.Duration `yaml:"timeout" env-required:"true"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-required:"true"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	TLS            TLSConfig     `yaml:"tls"`
}

type CacheConfig struct {
	Address                string        `yaml:"address" env-required:"true"`
	Db                     int           `yaml:"db"`
	StateExpiration        time.Duration `yaml:"state_expiration" env-required:"true"`
	DefaultStoryListTtl    time.Duration `yaml:"default_story_list_ttl" env-required:"true"`
	DefaultCategoryListTtl time.Duration `yaml:"default_category_list_ttl" env-required:"true"`
	DefaultDashboardTtl    time.Duration `yaml:"default_dashboard_ttl" env-required:"true"`
}

var JwtConfig JWTConfig

type JWTConfig struct {
	AccessExpire  time.Duration `yaml:"access_expire" env-required:"true"`
	RefreshExpire time.Duration `yaml:"refresh_expire" env-required:"true"`
	CookieDomain  string        `yaml:"cookie_domain" env-required:"true"`
	SecureCookie  bool          `yaml:"secure_cookie" default:"true"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
}

type S3Config struct {
	Endpoint          string `yaml:"endpoint"`
	Region            string `yaml:"region"`
	BucketUserAvatars string `yaml:"bucket_user_avatars"`
}

type OAuthConfig struct {
	GoogleRedirectURL          string `yaml:"google_redirect_url"`
	FrontendRedirectSuccessURL string `yaml:"frontend_redirect_success_url"`
	FrontendRedirectErrorURL   string `yaml:"frontend_redirect_error_url"`
}

// WhatsAppConfig описывает шлюз Twilio WhatsApp. Account SID и Auth Token
// берутся из переменных окружения TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN.
type WhatsAppConfig struct {
	Enabled            bool          `yaml:"enabled" env-default:"false"`
	FromNumber         string        `yaml:"from_number"` // whatsapp:+14155238886
	DefaultRegion      string        `yaml:"default_region" env-default:"PE"`
	VerificationExpire time.Duration `yaml:"verification_expire" env-default:"10m"`
	MessagesPerSecond  float64       `yaml:"messages_per_second" env-default:"1"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/dev.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config file: %s. Error: %v", configPath, err)
	}

	JwtConfig = cfg.JWTConfig

	return &cfg
}
