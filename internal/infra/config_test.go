package infra

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigYAML = `
app:
  name: launchpad
  version: test
ledger:
  rpc_url: https://rpc.testnet.near.org
  namespace: launchpad.near
  controller: ops.launchpad.near
  token_code_hash: 8D1NEU2NC2hKhdtCkHyyAz2KVmVXRazm9ZQMC27D97jF
exchange:
  contract_id: dex.intear.near
  pair_id: slimedragon.near/xyk
  event_ws_url: wss://events.intear.near/pools
logging:
  level: debug
`

func writeTestConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeTestConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Ledger.Namespace != "launchpad.near" {
		t.Errorf("unexpected namespace: %s", cfg.Ledger.Namespace)
	}
	if cfg.Exchange.PairID != "slimedragon.near/xyk" {
		t.Errorf("unexpected pair id: %s", cfg.Exchange.PairID)
	}
}

func TestLoadConfigRejectsBadRPC(t *testing.T) {
	body := testConfigYAML + "\n"
	cfg, err := LoadConfig(writeTestConfig(t, body))
	if err != nil || cfg == nil {
		t.Fatalf("baseline config must load: %v", err)
	}

	bad := `
ledger:
  rpc_url: ftp://nope
  namespace: launchpad.near
  controller: ops.launchpad.near
  token_code_hash: abc
exchange:
  contract_id: dex.intear.near
  pair_id: slimedragon.near/xyk
`
	if _, err := LoadConfig(writeTestConfig(t, bad)); err == nil {
		t.Error("expected error for non-http RPC URL")
	}
}

func TestParseCostsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeTestConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	table, err := cfg.ParseCosts()
	if err != nil {
		t.Fatalf("ParseCosts failed: %v", err)
	}

	if table.ScarcePremium.String() != "1000000000000000000000000" {
		t.Errorf("expected 1 unit premium, got %s yocto", table.ScarcePremium.String())
	}
	if table.AssetStorageDeposit.String() != "1250000000000000000000" {
		t.Errorf("unexpected asset storage deposit: %s", table.AssetStorageDeposit.String())
	}
	if table.PhantomLiquidity.Units() != "300" {
		t.Errorf("expected 300 units phantom liquidity, got %s", table.PhantomLiquidity.Units())
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LAUNCHPAD_SIGNING_KEY", "ed25519:testkey")
	cfg, err := LoadConfig(writeTestConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Ledger.SigningKey != "ed25519:testkey" {
		t.Errorf("env override not applied: %s", cfg.Ledger.SigningKey)
	}
}

func TestCalculateBackoff(t *testing.T) {
	if CalculateBackoff(0) != backoffBase {
		t.Error("retry 0 should use base delay")
	}
	if CalculateBackoff(100) != backoffMax {
		t.Error("large retry counts must cap at max delay")
	}
}
