package config

import "testing"

// Containers configure everything through the environment with no .env
// file present; fields without defaults must still come through.
func TestLoadFromEnvironmentOnly(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token-123")
	t.Setenv("DISCORD_GUILD_ID", "guild-456")
	t.Setenv("DISCORD_REVIEW_CHANNEL_ID", "chan-789")
	t.Setenv("DATABASE_URL", "postgres://env-only")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DiscordToken != "token-123" {
		t.Fatalf("DISCORD_BOT_TOKEN from env lost: got %q", cfg.DiscordToken)
	}
	if cfg.DiscordGuildID != "guild-456" {
		t.Fatalf("DISCORD_GUILD_ID from env lost: got %q", cfg.DiscordGuildID)
	}
	if cfg.DiscordReviewChannel != "chan-789" {
		t.Fatalf("DISCORD_REVIEW_CHANNEL_ID from env lost: got %q", cfg.DiscordReviewChannel)
	}
	if cfg.DatabaseURL != "postgres://env-only" {
		t.Fatalf("DATABASE_URL from env lost: got %q", cfg.DatabaseURL)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timezone != "Asia/Kolkata" {
		t.Fatalf("unexpected default timezone %q", cfg.Timezone)
	}
	if cfg.Port != "3000" {
		t.Fatalf("unexpected default port %q", cfg.Port)
	}
	if _, err := cfg.Location(); err != nil {
		t.Fatalf("default timezone must resolve: %v", err)
	}
}
