package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Plan - одна запись прайс-таблицы. Цены в полных KRW (без минорных единиц).
type Plan struct {
	Name       string `yaml:"name"`
	Base       int64  `yaml:"base"`
	Discounted int64  `yaml:"discounted"`
}

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
		// Базовый URL, на который провайдер платежа возвращает браузер
		PublicURL string `yaml:"public_url"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		SessionTTL int    `yaml:"session_ttl_minutes"`
	} `yaml:"redis"`

	OpenAI struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Gemini struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Toss struct {
		ClientKey  string `yaml:"client_key"`
		SecretKey  string `yaml:"secret_key"`
		ConfirmURL string `yaml:"confirm_url"`
	} `yaml:"toss"`

	Sheets struct {
		CredentialsJSON string `yaml:"credentials_json"` // путь к файлу сервис-аккаунта
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		AnalyticsRange  string `yaml:"analytics_range"`
		CapsuleRange    string `yaml:"capsule_range"`
	} `yaml:"sheets"`

	Report struct {
		// UTF-8 TTF с хангылем для PDF (타임캡슐, 내용증명)
		FontPath string `yaml:"font_path"`
	} `yaml:"report"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Admin struct {
		Email        string `yaml:"email"`
		PasswordHash string `yaml:"password_hash"` // bcrypt, не plaintext
	} `yaml:"admin"`

	// Прайс-таблица: код плана -> цены. Это конфигурация, не константы кода.
	Plans map[string]Plan `yaml:"plans"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию из config.yaml, либо из переменных
// окружения, если задан DATABASE_URL (режим теста/контейнера).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		if err := ValidatePlans(cfg.Plans); err != nil {
			log.Fatalf("Invalid plan table: %v", err)
		}

		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Server.PublicURL = getEnv("PUBLIC_URL", "http://localhost:4000")
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.SessionTTL = 30

	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAI.Model = getEnv("OPENAI_MODEL", "gpt-4o")
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", "gemini-2.5-flash")

	cfg.Toss.ClientKey = os.Getenv("TOSS_CLIENT_KEY")
	cfg.Toss.SecretKey = os.Getenv("TOSS_SECRET_KEY")

	cfg.Sheets.CredentialsJSON = os.Getenv("SHEETS_CREDENTIALS_JSON")
	cfg.Sheets.SpreadsheetID = os.Getenv("SHEETS_SPREADSHEET_ID")

	cfg.Email.SMTPHost = getEnv("SMTP_HOST", "smtp.test.com")
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = getEnv("SMTP_FROM", "test@safehome.kr")

	cfg.Admin.Email = getEnv("ADMIN_EMAIL", "admin@safehome.kr")
	cfg.Admin.PasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")

	// Наблюдаемая конфигурация цен; в проде берется из config.yaml
	cfg.Plans = map[string]Plan{
		"BASIC":   {Name: "Basic", Base: 990, Discounted: 790},
		"PREMIUM": {Name: "Premium", Base: 3900, Discounted: 2900},
	}

	applyDefaults(&cfg)
	if err := ValidatePlans(cfg.Plans); err != nil {
		log.Fatalf("Invalid plan table: %v", err)
	}

	AppConfig = &cfg
}

// GetConfig возвращает загруженную конфигурацию
func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// ValidatePlans проверяет инварианты прайс-таблицы при загрузке:
// каждая запись обязана иметь discounted < base и положительные цены.
func ValidatePlans(plans map[string]Plan) error {
	if len(plans) == 0 {
		return fmt.Errorf("plan table is empty")
	}
	for code, p := range plans {
		if p.Base <= 0 || p.Discounted <= 0 {
			return fmt.Errorf("plan %s: prices must be positive (base=%d, discounted=%d)", code, p.Base, p.Discounted)
		}
		if p.Discounted >= p.Base {
			return fmt.Errorf("plan %s: discounted price %d must be lower than base price %d", code, p.Discounted, p.Base)
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Toss.ConfirmURL == "" {
		cfg.Toss.ConfirmURL = "https://api.tosspayments.com/v1/payments/confirm"
	}
	if cfg.Sheets.AnalyticsRange == "" {
		cfg.Sheets.AnalyticsRange = "analytics!A:H"
	}
	if cfg.Sheets.CapsuleRange == "" {
		cfg.Sheets.CapsuleRange = "capsules!A:E"
	}
	if cfg.Redis.SessionTTL == 0 {
		cfg.Redis.SessionTTL = 30
	}
	if cfg.Report.FontPath == "" {
		cfg.Report.FontPath = "assets/fonts/NanumGothic.ttf"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
