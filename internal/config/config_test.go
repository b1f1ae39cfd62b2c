package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestRevenueRateDefaultsToTenPercent(t *testing.T) {
	rate, err := RevenueConfig{}.Rate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.String() != "0.1" {
		t.Fatalf("default rate want 0.1 got %s", rate.String())
	}
}

func TestRevenueRateRejectsOutOfRange(t *testing.T) {
	for _, raw := range []string{"-0.1", "1.5", "abc"} {
		if _, err := (RevenueConfig{CommissionRate: raw}).Rate(); err == nil {
			t.Fatalf("rate %q should be rejected", raw)
		}
	}
}

func TestSetDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults failed: %v", err)
	}
	if cfg.Revenue.BatchCutoffDays != 3 {
		t.Fatalf("batch cutoff days want 3 got %d", cfg.Revenue.BatchCutoffDays)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("database driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Queue.Queues["critical"] != 5 {
		t.Fatalf("critical queue weight want 5 got %d", cfg.Queue.Queues["critical"])
	}
	if cfg.Kafka.Enabled {
		t.Fatalf("kafka should be disabled by default")
	}
}
