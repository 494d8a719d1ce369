package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	// Core
	BotToken string `env:"BOT_TOKEN,required"`

	// Control channels
	SubmissionsChatID string `env:"SUBMISSIONS_CHAT_ID,required"`
	ResultsChatID     string `env:"RESULTS_CHAT_ID,required"`
	WithdrawChatID    string `env:"WITHDRAW_CHAT_ID,required"`

	// Accrual rules
	CreditAmount  decimal.Decimal `env:"CREDIT_AMOUNT" envDefault:"2"`
	MaxCreditDays int             `env:"MAX_CREDIT_DAYS" envDefault:"5"`
	MinWithdraw   decimal.Decimal `env:"MIN_WITHDRAW" envDefault:"50"`

	// Command parsing
	CommandPrefixes string `env:"COMMAND_PREFIXES" envDefault:"/.!"`

	// Storage: flat-file store under DataDir unless DatabaseURL is set
	DataDir     string `env:"DATA_DIR" envDefault:"./data"`
	DatabaseURL string `env:"DATABASE_URL"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// TempDir is the transient scratch area the cleartemp command empties.
func (c *Config) TempDir() string {
	return filepath.Join(c.DataDir, "temp")
}
