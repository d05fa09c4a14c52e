package infra

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/slidegen_test")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("STAGE_SHARED_SECRET", "stage-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DefaultLocale != "en" {
		t.Fatalf("DefaultLocale = %q, want en", cfg.DefaultLocale)
	}
	if cfg.WorkerSlots != 4 {
		t.Fatalf("WorkerSlots = %d, want 4", cfg.WorkerSlots)
	}
	if cfg.JobLease != 15*time.Minute {
		t.Fatalf("JobLease = %v, want 15m", cfg.JobLease)
	}
	if cfg.StageMaxAttempts != 3 {
		t.Fatalf("StageMaxAttempts = %d, want 3", cfg.StageMaxAttempts)
	}
	if cfg.StageBackoffBase != 500*time.Millisecond {
		t.Fatalf("StageBackoffBase = %v, want 500ms", cfg.StageBackoffBase)
	}
	if cfg.ApprovalTimeout != 0 {
		t.Fatalf("ApprovalTimeout = %v, want disabled", cfg.ApprovalTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WORKER_SLOTS", "8")
	t.Setenv("JOB_LEASE_MINUTES", "30")
	t.Setenv("STAGE_MAX_ATTEMPTS", "5")
	t.Setenv("APPROVAL_TIMEOUT_MINUTES", "60")
	t.Setenv("DEFAULT_LOCALE", "ja")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.WorkerSlots != 8 {
		t.Fatalf("WorkerSlots = %d, want 8", cfg.WorkerSlots)
	}
	if cfg.JobLease != 30*time.Minute {
		t.Fatalf("JobLease = %v, want 30m", cfg.JobLease)
	}
	if cfg.StageMaxAttempts != 5 {
		t.Fatalf("StageMaxAttempts = %d, want 5", cfg.StageMaxAttempts)
	}
	if cfg.ApprovalTimeout != time.Hour {
		t.Fatalf("ApprovalTimeout = %v, want 1h", cfg.ApprovalTimeout)
	}
	if cfg.DefaultLocale != "ja" {
		t.Fatalf("DefaultLocale = %q, want ja", cfg.DefaultLocale)
	}
}

func TestLoadConfigRequiredVars(t *testing.T) {
	cases := []struct {
		name string
		omit string
	}{
		{name: "database_url", omit: "DATABASE_URL"},
		{name: "jwt_secret", omit: "JWT_SECRET"},
		{name: "stage_secret", omit: "STAGE_SHARED_SECRET"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.omit, "")
			_, err := LoadConfig()
			if err == nil {
				t.Fatalf("LoadConfig succeeded without %s", tc.omit)
			}
			if !strings.Contains(err.Error(), tc.omit) {
				t.Fatalf("error = %q, want mention of %s", err, tc.omit)
			}
		})
	}
}

func TestLoadConfigClampsBadValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WORKER_SLOTS", "0")
	t.Setenv("STAGE_MAX_ATTEMPTS", "-1")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.WorkerSlots != 1 {
		t.Fatalf("WorkerSlots = %d, want clamped to 1", cfg.WorkerSlots)
	}
	if cfg.StageMaxAttempts != 1 {
		t.Fatalf("StageMaxAttempts = %d, want clamped to 1", cfg.StageMaxAttempts)
	}
}
