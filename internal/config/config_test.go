package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("BOT_TOKEN", "test_bot_token")
	os.Setenv("ADMIN_IDS", "111, 222,333")
	os.Setenv("QUIZ_THRESHOLD", "5")
	defer func() {
		os.Unsetenv("BOT_TOKEN")
		os.Unsetenv("ADMIN_IDS")
		os.Unsetenv("QUIZ_THRESHOLD")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.BotToken != "test_bot_token" {
		t.Errorf("BotToken = %q, want %q", cfg.BotToken, "test_bot_token")
	}
	if len(cfg.AdminIDs) != 3 {
		t.Fatalf("AdminIDs length = %d, want 3", len(cfg.AdminIDs))
	}
	if cfg.AdminIDs[1] != 222 {
		t.Errorf("AdminIDs[1] = %d, want 222", cfg.AdminIDs[1])
	}
	if cfg.QuizThreshold != 5 {
		t.Errorf("QuizThreshold = %d, want 5", cfg.QuizThreshold)
	}
	if cfg.DataFile != "bot_data.json" {
		t.Errorf("DataFile = %q, want default %q", cfg.DataFile, "bot_data.json")
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "Missing BOT_TOKEN",
			envVars: map[string]string{"ADMIN_IDS": "111"},
		},
		{
			name:    "Missing ADMIN_IDS",
			envVars: map[string]string{"BOT_TOKEN": "token"},
		},
		{
			name: "Bad ADMIN_IDS entry",
			envVars: map[string]string{
				"BOT_TOKEN": "token",
				"ADMIN_IDS": "111,abc",
			},
		},
		{
			name: "Non-positive QUIZ_THRESHOLD",
			envVars: map[string]string{
				"BOT_TOKEN":      "token",
				"ADMIN_IDS":      "111",
				"QUIZ_THRESHOLD": "-1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("BOT_TOKEN")
			os.Unsetenv("ADMIN_IDS")
			os.Unsetenv("QUIZ_THRESHOLD")

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer func() {
				for k := range tt.envVars {
					os.Unsetenv(k)
				}
			}()

			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{111, 222}}

	if !cfg.IsAdmin(111) {
		t.Error("IsAdmin(111) = false, want true")
	}
	if cfg.IsAdmin(999) {
		t.Error("IsAdmin(999) = true, want false")
	}
}
