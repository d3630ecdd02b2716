package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ftahirops/validatord/model"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("expected a missing config file to fall back to defaults, got error: %v", err)
	}
	if cfg.Interval != 10*time.Second {
		t.Fatalf("expected default interval 10s, got %s", cfg.Interval)
	}
	if cfg.EventStore.Driver != "sqlite" {
		t.Fatalf("expected default event store driver sqlite, got %q", cfg.EventStore.Driver)
	}
}

func TestLoadParsesServiceList(t *testing.T) {
	doc := `
interval: 5s
event_store:
  driver: memory
services:
  - name: sshd
    type: process
    path: /var/run/sshd.pid
    permission:
      expected: "0644"
      action: ALERT
    size:
      - op: ">"
        limit: 1048576
        action: ALERT
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval != 5*time.Second {
		t.Fatalf("expected interval 5s, got %s", cfg.Interval)
	}
	if len(cfg.Services) != 1 || cfg.Services[0].Name != "sshd" {
		t.Fatalf("expected one service named sshd, got %+v", cfg.Services)
	}
}

func TestBuildServicesSeedsProcessObservation(t *testing.T) {
	services, err := BuildServices([]ServiceSpec{
		{Name: "sshd", Type: "process", Path: "/var/run/sshd.pid"},
	})
	if err != nil {
		t.Fatalf("BuildServices: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("expected 1 service, got %d", len(services))
	}
	if services[0].Inf.Process.PrevPID != -1 {
		t.Fatalf("expected PrevPID sentinel -1 seeded for a process service, got %d", services[0].Inf.Process.PrevPID)
	}
}

func TestBuildServicesParsesPermissionAndSizeRules(t *testing.T) {
	services, err := BuildServices([]ServiceSpec{
		{
			Name: "logfile",
			Type: "file",
			Path: "/var/log/app.log",
			Permission: &PermissionSpec{Expected: "0640", Action: "ALERT"},
			Size:       []SizeSpec{{Op: ">", Limit: 100, Action: "ALERT"}},
		},
	})
	if err != nil {
		t.Fatalf("BuildServices: %v", err)
	}
	svc := services[0]
	if svc.Permission == nil || svc.Permission.Expected != 0o640 {
		t.Fatalf("expected permission rule 0640, got %+v", svc.Permission)
	}
	if len(svc.Size) != 1 || svc.Size[0].Op != model.OpGt || svc.Size[0].Limit != 100 {
		t.Fatalf("expected a single > 100 size rule, got %+v", svc.Size)
	}
}

func TestBuildServicesRejectsUnknownServiceType(t *testing.T) {
	_, err := BuildServices([]ServiceSpec{{Name: "x", Type: "bogus"}})
	if err == nil {
		t.Fatalf("expected an error for an unknown service type")
	}
}

func TestBuildServicesRejectsBadOctalPermission(t *testing.T) {
	_, err := BuildServices([]ServiceSpec{
		{Name: "x", Type: "file", Permission: &PermissionSpec{Expected: "not-an-octal"}},
	})
	if err == nil {
		t.Fatalf("expected an error for a malformed octal permission")
	}
}

func TestApplyEverySkipCyclesRejectsZero(t *testing.T) {
	_, err := BuildServices([]ServiceSpec{
		{Name: "x", Type: "system", Every: EverySpec{Kind: "skipcycles", SkipCycles: 0}},
	})
	if err == nil {
		t.Fatalf("expected skip_cycles < 1 to be rejected")
	}
}

func TestBuildServicesFSResourceRequiresALimit(t *testing.T) {
	_, err := BuildServices([]ServiceSpec{
		{Name: "x", Type: "filesystem", FSResource: []FSResourceSpec{{Kind: "space", Op: ">"}}},
	})
	if err == nil {
		t.Fatalf("expected an fsresource rule with neither limit set to be rejected")
	}
}
