package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("ALLOW_DEMO", "")
	t.Setenv("STORE_TIMEOUT_MS", "")
	c := Load()
	if c.Port != "3001" {
		t.Fatalf("Port default")
	}
	if c.DBDSN != "astranode.db" {
		t.Fatalf("DBDSN default")
	}
	if !c.AllowDemo {
		t.Fatalf("AllowDemo default")
	}
	if c.StoreTimeout != 5*time.Second {
		t.Fatalf("StoreTimeout default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DSN", ":memory:")
	t.Setenv("ALLOW_DEMO", "0")
	t.Setenv("STORE_TIMEOUT_MS", "250")
	c := Load()
	if c.Port != "9090" {
		t.Fatalf("Port override")
	}
	if c.DBDSN != ":memory:" {
		t.Fatalf("DBDSN override")
	}
	if c.AllowDemo {
		t.Fatalf("AllowDemo override")
	}
	if c.StoreTimeout != 250*time.Millisecond {
		t.Fatalf("StoreTimeout override")
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("ALLOW_DEMO", "maybe")
	t.Setenv("STORE_TIMEOUT_MS", "-5")
	c := Load()
	if !c.AllowDemo {
		t.Fatalf("unparseable ALLOW_DEMO should keep default")
	}
	if c.StoreTimeout != 5*time.Second {
		t.Fatalf("non-positive timeout should keep default")
	}
}
