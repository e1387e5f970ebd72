package infra

import (
	"fmt"
	"os"
	"strings"

	"launchpad_go/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration. Cost figures are written in
// whole native units in the file and parsed exactly into yocto amounts;
// sensitive values can be overridden through environment variables.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Ledger struct {
		RPCURL string `yaml:"rpc_url"`
		// Namespace is the orchestrator's own account; every launched
		// identifier is a sub-account of it.
		Namespace string `yaml:"namespace"`
		// Controller is the only identity allowed to withdraw fees.
		Controller string `yaml:"controller"`
		SigningKey string `yaml:"signing_key"`
		// TokenCodeHash is the global contract hash installed on every
		// provisioned asset account.
		TokenCodeHash string `yaml:"token_code_hash"`
	} `yaml:"ledger"`

	Exchange struct {
		ContractID string `yaml:"contract_id"`
		// PairID scopes the second asset registration and the pool-create
		// call to one trading-pair implementation.
		PairID     string `yaml:"pair_id"`
		EventWSURL string `yaml:"event_ws_url"`
	} `yaml:"exchange"`

	Costs struct {
		ExchangeStorageDeposit string `yaml:"exchange_storage_deposit"`
		PoolStorageDeposit     string `yaml:"pool_storage_deposit"`
		AssetStorageDeposit    string `yaml:"asset_storage_deposit"`
		OwnStorageAllowance    string `yaml:"own_storage_allowance"`
		ScarcePremium          string `yaml:"scarce_premium"`
		PhantomLiquidity       string `yaml:"phantom_liquidity"`
	} `yaml:"costs"`

	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Ledger.RPCURL == "" || (!strings.HasPrefix(c.Ledger.RPCURL, "http://") && !strings.HasPrefix(c.Ledger.RPCURL, "https://")) {
		return fmt.Errorf("invalid ledger RPC URL: %s", c.Ledger.RPCURL)
	}
	if c.Ledger.Namespace == "" {
		return fmt.Errorf("ledger namespace account is required")
	}
	if c.Ledger.Controller == "" {
		return fmt.Errorf("ledger controller account is required")
	}
	if c.Ledger.TokenCodeHash == "" {
		return fmt.Errorf("token code hash is required")
	}
	if c.Exchange.ContractID == "" || c.Exchange.PairID == "" {
		return fmt.Errorf("exchange contract and pair ids are required")
	}
	if c.Exchange.EventWSURL != "" && !strings.HasPrefix(c.Exchange.EventWSURL, "ws://") && !strings.HasPrefix(c.Exchange.EventWSURL, "wss://") {
		return fmt.Errorf("invalid exchange event WS URL: %s", c.Exchange.EventWSURL)
	}
	if _, err := c.ParseCosts(); err != nil {
		return err
	}
	return nil
}

// ParseCosts converts the configured human-unit figures to yocto, filling
// protocol defaults for anything left unset.
func (c *Config) ParseCosts() (domain.CostTable, error) {
	var table domain.CostTable
	fields := []struct {
		name string
		raw  string
		def  string
		dst  *domain.Amount
	}{
		{"exchange_storage_deposit", c.Costs.ExchangeStorageDeposit, "0.005", &table.ExchangeStorageDeposit},
		{"pool_storage_deposit", c.Costs.PoolStorageDeposit, "0.01", &table.PoolStorageDeposit},
		{"asset_storage_deposit", c.Costs.AssetStorageDeposit, "0.00125", &table.AssetStorageDeposit},
		{"own_storage_allowance", c.Costs.OwnStorageAllowance, "0.01", &table.OwnStorageAllowance},
		{"scarce_premium", c.Costs.ScarcePremium, "1", &table.ScarcePremium},
		{"phantom_liquidity", c.Costs.PhantomLiquidity, "300", &table.PhantomLiquidity},
	}
	for _, f := range fields {
		raw := f.raw
		if raw == "" {
			raw = f.def
		}
		amount, err := domain.AmountFromUnits(raw)
		if err != nil {
			return domain.CostTable{}, fmt.Errorf("costs.%s: %w", f.name, err)
		}
		*f.dst = amount
	}
	return table, nil
}

// overrideWithEnv applies environment overrides for sensitive values.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("LAUNCHPAD_SIGNING_KEY"); key != "" {
		cfg.Ledger.SigningKey = key
	}
	if rpc := os.Getenv("LAUNCHPAD_RPC_URL"); rpc != "" {
		cfg.Ledger.RPCURL = rpc
	}
	if db := os.Getenv("LAUNCHPAD_DB_PATH"); db != "" {
		cfg.Storage.DBPath = db
	}
}
