package keyValue

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSetGetLocal(t *testing.T) {
	Setup(zap.NewNop().Sugar(), nil, true)

	err := Set("invite:abc123", "7", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	value, err := Get("invite:abc123")
	if err != nil {
		t.Fatal(err)
	}
	if value != "7" {
		t.Errorf("got %q, want %q", value, "7")
	}
}

func TestGetMissingKeyLocal(t *testing.T) {
	Setup(zap.NewNop().Sugar(), nil, true)

	value, err := Get("no-such-key")
	if err != nil {
		t.Fatal(err)
	}
	if value != "" {
		t.Errorf("got %q, want empty string", value)
	}
}

func TestGetExpiredKeyLocal(t *testing.T) {
	Setup(zap.NewNop().Sugar(), nil, true)

	err := Set("short-lived", "v", -time.Second)
	if err != nil {
		t.Fatal(err)
	}

	value, err := Get("short-lived")
	if err != nil {
		t.Fatal(err)
	}
	if value != "" {
		t.Errorf("got %q, want empty string for expired key", value)
	}
}
