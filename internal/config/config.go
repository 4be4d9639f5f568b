// Package config loads settings from an optional YAML file and the
// environment. Environment variables override the file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogoref/gogoref/internal/i18n"
	"github.com/gogoref/gogoref/internal/logger"
	"github.com/gogoref/gogoref/internal/viewmodel"
)

type Config struct {
	Business BusinessConfig `yaml:"business"`
	Sheet    SheetConfig    `yaml:"sheet"`
	Web      WebConfig      `yaml:"web"`
	Storage  StorageConfig  `yaml:"storage"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
	Language string         `yaml:"language"`
}

type BusinessConfig struct {
	Name          string `yaml:"name"`
	WhatsApp      string `yaml:"whatsapp"`
	AdminWhatsApp string `yaml:"admin_whatsapp"`
}

type SheetConfig struct {
	BaseURL         string          `yaml:"base_url"`
	ID              string          `yaml:"id"`
	GamesTab        string          `yaml:"games_tab"`
	Timetable       []viewmodel.Tab `yaml:"timetable"`
	RefreshInterval string          `yaml:"refresh_interval"`
}

type WebConfig struct {
	Port       string   `yaml:"port"`
	CORSHosts  []string `yaml:"cors_hosts"`
	AdminToken string   `yaml:"admin_token"`
}

type StorageConfig struct {
	DatabasePath  string `yaml:"db_path"`
	EncryptionKey string `yaml:"encryption_key"`
}

type EmailConfig struct {
	ResendKey string   `yaml:"resend_key"`
	From      string   `yaml:"from"`
	To        []string `yaml:"to"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings of the live site
func Default() *Config {
	return &Config{
		Business: BusinessConfig{
			Name:          "籃球專業服務",
			WhatsApp:      "85293211378",
			AdminWhatsApp: "85293211378",
		},
		Sheet: SheetConfig{
			BaseURL:  "https://docs.google.com/spreadsheets/d/",
			ID:       "1lsP6VImpOraHe8g-Apgc86R8se4Dfpe5gBLHbKuPFT0",
			GamesTab: "Sheet1",
			Timetable: []viewmodel.Tab{
				{Key: "saturday", SheetName: "SAT, Nov 8 Timetable"},
				{Key: "sunday", SheetName: "SUN, Nov 9 Timetable"},
			},
			RefreshInterval: "5m",
		},
		Web: WebConfig{
			Port: "8080",
		},
		Log: LogConfig{
			Level: "INFO",
		},
		Language: string(i18n.DefaultLang),
	}
}

// Load reads path (when non-empty) over the defaults, then applies the
// environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv is Load without a file
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func (c *Config) applyEnv() error {
	c.Business.Name = getEnv("BUSINESS_NAME", c.Business.Name)
	c.Business.WhatsApp = getEnv("BUSINESS_WHATSAPP", c.Business.WhatsApp)
	c.Business.AdminWhatsApp = getEnv("ADMIN_WHATSAPP", c.Business.AdminWhatsApp)

	c.Sheet.BaseURL = getEnv("SHEET_BASE_URL", c.Sheet.BaseURL)
	c.Sheet.ID = getEnv("SHEET_ID", c.Sheet.ID)
	c.Sheet.GamesTab = getEnv("GAMES_TAB", c.Sheet.GamesTab)
	c.Sheet.RefreshInterval = getEnv("REFRESH_INTERVAL", c.Sheet.RefreshInterval)
	if v := os.Getenv("TIMETABLE_TABS"); v != "" {
		tabs, err := ParseTabs(v)
		if err != nil {
			return fmt.Errorf("TIMETABLE_TABS: %w", err)
		}
		c.Sheet.Timetable = tabs
	}

	c.Web.Port = getEnv("WEB_PORT", c.Web.Port)
	c.Web.CORSHosts = getEnvList("CORS_HOSTS", c.Web.CORSHosts)
	c.Web.AdminToken = getEnv("ADMIN_TOKEN", c.Web.AdminToken)

	c.Storage.DatabasePath = getEnv("DB_PATH", c.Storage.DatabasePath)
	c.Storage.EncryptionKey = getEnv("BOOKING_ENCRYPTION_KEY", c.Storage.EncryptionKey)

	c.Email.ResendKey = getEnv("RESEND_KEY", c.Email.ResendKey)
	c.Email.From = getEnv("EMAIL_FROM", c.Email.From)
	c.Email.To = getEnvList("EMAIL_TO", c.Email.To)

	c.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", c.Telegram.BotToken)
	c.Telegram.ChatID = getEnv("TELEGRAM_CHAT_ID", c.Telegram.ChatID)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Language = getEnv("DEFAULT_LANG", c.Language)
	return nil
}

// ParseTabs reads "key=Sheet name;key=Sheet name". Sheet names may contain
// commas, so tabs are separated by semicolons.
func ParseTabs(s string) ([]viewmodel.Tab, error) {
	var tabs []viewmodel.Tab
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, sheet, ok := strings.Cut(part, "=")
		key, sheet = strings.TrimSpace(key), strings.TrimSpace(sheet)
		if !ok || key == "" || sheet == "" {
			return nil, fmt.Errorf("invalid tab %q, want key=Sheet name", part)
		}
		tabs = append(tabs, viewmodel.Tab{Key: key, SheetName: sheet})
	}
	if len(tabs) == 0 {
		return nil, fmt.Errorf("no tabs in %q", s)
	}
	return tabs, nil
}

func (c *Config) Validate() error {
	if c.Sheet.ID == "" {
		return fmt.Errorf("sheet.id is required")
	}

	u, err := url.Parse(c.Sheet.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid sheet.base_url: %q", c.Sheet.BaseURL)
	}

	if c.Sheet.GamesTab == "" {
		return fmt.Errorf("sheet.games_tab is required")
	}

	if len(c.Sheet.Timetable) == 0 {
		return fmt.Errorf("sheet.timetable needs at least one tab")
	}
	seen := make(map[string]bool)
	for _, tab := range c.Sheet.Timetable {
		if tab.Key == "" || tab.SheetName == "" {
			return fmt.Errorf("sheet.timetable entries need a key and a sheet")
		}
		if seen[tab.Key] {
			return fmt.Errorf("duplicate timetable day: %s", tab.Key)
		}
		seen[tab.Key] = true
	}

	d, err := time.ParseDuration(c.Sheet.RefreshInterval)
	if err != nil {
		return fmt.Errorf("invalid refresh_interval: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("refresh_interval must not be negative")
	}

	if len(digits(c.Business.WhatsApp)) < 8 {
		return fmt.Errorf("business.whatsapp must be a phone number")
	}
	if len(digits(c.Business.AdminWhatsApp)) < 8 {
		return fmt.Errorf("business.admin_whatsapp must be a phone number")
	}

	if port, err := strconv.Atoi(c.Web.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid web.port: %q", c.Web.Port)
	}

	if c.Web.AdminToken != "" && len(c.Web.AdminToken) < 16 {
		return fmt.Errorf("web.admin_token must be at least 16 characters")
	}

	if c.Email.ResendKey != "" {
		if c.Email.From == "" {
			return fmt.Errorf("email.from is required when email is enabled")
		}
		if len(c.Email.To) == 0 {
			return fmt.Errorf("email.to is required when email is enabled")
		}
	}

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}

	if c.Storage.EncryptionKey != "" && c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.encryption_key needs storage.db_path")
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}

	if _, err := i18n.ParseLang(c.Language); err != nil {
		return fmt.Errorf("invalid language: %w", err)
	}

	return nil
}

// GetRefreshInterval returns the parsed refresh interval. Call Validate first.
func (c *Config) GetRefreshInterval() time.Duration {
	d, _ := time.ParseDuration(c.Sheet.RefreshInterval)
	return d
}

// EmailEnabled reports whether booking emails can be sent
func (c *Config) EmailEnabled() bool {
	return c.Email.ResendKey != ""
}

// TelegramEnabled reports whether bookings are posted to Telegram
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// DefaultLang returns the configured fallback language
func (c *Config) DefaultLang() i18n.Lang {
	lang, err := i18n.ParseLang(c.Language)
	if err != nil {
		return i18n.DefaultLang
	}
	return lang
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
