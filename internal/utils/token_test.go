package utils_test

import (
	"testing"

	"github.com/kurumaworks/tenkendb/internal/utils"
)

func TestGenerateAccessToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := utils.GenerateAccessToken()
		if len(token) != 32 {
			t.Fatalf("token length = %d, want 32", len(token))
		}
		for _, r := range token {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
				t.Fatalf("token contains non-base36 rune %q", r)
			}
		}
		if seen[token] {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[token] = true
	}
}

func TestNewID(t *testing.T) {
	a, b := utils.NewID(), utils.NewID()
	if a == b {
		t.Error("ids should be unique")
	}
	if len(a) != 36 {
		t.Errorf("id length = %d, want 36", len(a))
	}
}

func TestTruncateMessage(t *testing.T) {
	if got := utils.TruncateMessage("短い", 50); got != "短い" {
		t.Errorf("short message should pass through, got %q", got)
	}
	long := "あ"
	for i := 0; i < 60; i++ {
		long += "い"
	}
	got := utils.TruncateMessage(long, 50)
	if runes := []rune(got); len(runes) != 50 {
		t.Errorf("truncated length = %d runes, want 50", len(runes))
	}
}
