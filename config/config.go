// Package config loads the daemon's YAML configuration file: global daemon
// settings plus the declarative service list (spec §3) that the Scheduler
// evaluates every cycle.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ftahirops/validatord/model"
)

// File is the on-disk shape of the config file.
type File struct {
	Interval   time.Duration    `yaml:"interval"`
	DataDir    string           `yaml:"data_dir"`
	LogLevel   string           `yaml:"log_level"`
	LogFormat  string           `yaml:"log_format"`
	PidFile    string           `yaml:"pid_file"`
	EventStore EventStoreSpec   `yaml:"event_store"`
	Services   []ServiceSpec    `yaml:"services"`
}

// EventStoreSpec selects and configures the event.Store backend.
type EventStoreSpec struct {
	Driver string `yaml:"driver"` // "sqlite" (default), "postgres", "memory"
	DSN    string `yaml:"dsn"`
}

// ServiceSpec is one service's declarative configuration (spec §3).
type ServiceSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // process|file|directory|fifo|filesystem|program|host|system
	Path string `yaml:"path"`

	Every          EverySpec    `yaml:"every"`
	ProgramTimeout time.Duration `yaml:"program_timeout"`

	Restart []RestartSpec `yaml:"restart"`

	Permission *PermissionSpec `yaml:"permission"`
	UID        *OwnerSpec      `yaml:"uid"`
	GID        *OwnerSpec      `yaml:"gid"`
	Checksum   []ChecksumSpec  `yaml:"checksum"`
	Size       []SizeSpec      `yaml:"size"`
	Timestamp  []TimestampSpec `yaml:"timestamp"`
	Uptime     []LimitSpec     `yaml:"uptime"`
	Match      []MatchSpec     `yaml:"match"`
	MatchIgnore []MatchSpec    `yaml:"match_ignore"`
	Ports      []PortSpec      `yaml:"port"`
	Icmp       []IcmpSpec      `yaml:"ping"`
	Resource   []ResourceSpec  `yaml:"resource"`
	Filesystem []ActionSpec    `yaml:"filesystem_flags"`
	FSResource []FSResourceSpec `yaml:"fsresource"`
	Status     []StatusSpec    `yaml:"status"`
}

type EverySpec struct {
	Kind       string `yaml:"kind"` // cycle|skipcycles|cron|notincron
	SkipCycles int    `yaml:"skip_cycles"`
	Cron       string `yaml:"cron"`
}

type RestartSpec struct {
	Count  int    `yaml:"count"`
	Cycles int    `yaml:"cycles"`
	Action string `yaml:"action"`
}

type PermissionSpec struct {
	Expected string `yaml:"expected"` // octal, e.g. "0644"
	Action   string `yaml:"action"`
}

type OwnerSpec struct {
	Expected int    `yaml:"expected"`
	Action   string `yaml:"action"`
}

type ChecksumSpec struct {
	Hash         string `yaml:"hash"` // md5|sha1
	ChangeDetect bool   `yaml:"change_detect"`
	Expected     string `yaml:"expected"`
	Action       string `yaml:"action"`
}

type SizeSpec struct {
	ChangeDetect bool   `yaml:"change_detect"`
	Op           string `yaml:"op"`
	Limit        int64  `yaml:"limit"`
	Action       string `yaml:"action"`
}

type TimestampSpec struct {
	ChangeDetect bool   `yaml:"change_detect"`
	Op           string `yaml:"op"`
	Limit        int64  `yaml:"limit"`
	Action       string `yaml:"action"`
}

type LimitSpec struct {
	Op     string `yaml:"op"`
	Limit  int64  `yaml:"limit"`
	Action string `yaml:"action"`
}

type MatchSpec struct {
	Pattern string `yaml:"pattern"`
	Regex   bool   `yaml:"regex"`
	Not     bool   `yaml:"not"`
	Action  string `yaml:"action"`
}

type PortSpec struct {
	Address     string        `yaml:"address"`
	Protocol    string        `yaml:"protocol"` // tcp|udp|unix
	Plugin      string        `yaml:"plugin"`
	Retry       int           `yaml:"retry"`
	ConnTimeout time.Duration `yaml:"timeout"`
}

type IcmpSpec struct {
	Type    string `yaml:"type"`
	Timeout int    `yaml:"timeout_ms"`
	Count   int    `yaml:"count"`
	Action  string `yaml:"action"`
}

type ResourceSpec struct {
	ID     string `yaml:"id"`
	Op     string `yaml:"op"`
	Limit  int64  `yaml:"limit"`
	Action string `yaml:"action"`
}

type ActionSpec struct {
	Action string `yaml:"action"`
}

type FSResourceSpec struct {
	Kind         string `yaml:"kind"` // inode|space
	Op           string `yaml:"op"`
	PercentLimit int64  `yaml:"percent_limit"` // x10; 0 means unset, use -1 explicitly to truly disable
	CountLimit   int64  `yaml:"count_limit"`
	Action       string `yaml:"action"`
}

type StatusSpec struct {
	Op     string `yaml:"op"`
	Value  int    `yaml:"value"`
	Action string `yaml:"action"`
}

// Default returns a File with sensible defaults, used when no config file is
// found (grounded on the teacher's config.Default()).
func Default() File {
	return File{
		Interval:  10 * time.Second,
		DataDir:   "",
		LogLevel:  "info",
		LogFormat: "text",
		EventStore: EventStoreSpec{
			Driver: "sqlite",
		},
	}
}

// Path returns the default config path, honoring XDG_CONFIG_HOME, mirroring
// the teacher's config.Path().
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "validatord", "config.yaml")
}

// Load reads and parses path, or the default path if empty; returns
// defaults (no services) if neither exists.
func Load(path string) (File, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	return cfg, nil
}

// BuildServices converts every ServiceSpec into a *model.Service, seeding
// Observation sentinels per the field contracts documented in
// model.NewProcessObservation and model.FSResourceRule/IcmpRule.
func BuildServices(specs []ServiceSpec) ([]*model.Service, error) {
	out := make([]*model.Service, 0, len(specs))
	for _, spec := range specs {
		svc, err := buildService(spec)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", spec.Name, err)
		}
		out = append(out, svc)
	}
	return out, nil
}

func buildService(spec ServiceSpec) (*model.Service, error) {
	typ, err := parseServiceType(spec.Type)
	if err != nil {
		return nil, err
	}

	svc := &model.Service{
		Name:           spec.Name,
		Type:           typ,
		Path:           spec.Path,
		Monitor:        model.MonitorInit,
		ProgramTimeout: spec.ProgramTimeout,
	}
	if typ == model.ServiceProcess {
		svc.Inf.Process = model.NewProcessObservation()
	}

	if err := applyEvery(svc, spec.Every); err != nil {
		return nil, err
	}
	for _, rr := range spec.Restart {
		svc.Restart = append(svc.Restart, model.RestartRate{
			Count: rr.Count, Cycles: rr.Cycles, Action: model.ActionRef(rr.Action),
		})
	}

	if spec.Permission != nil {
		mode, err := parseOctal(spec.Permission.Expected)
		if err != nil {
			return nil, fmt.Errorf("permission.expected: %w", err)
		}
		svc.Permission = &model.PermissionRule{Expected: mode, Action: model.ActionRef(spec.Permission.Action)}
	}
	if spec.UID != nil {
		svc.UID = &model.UIDRule{Expected: spec.UID.Expected, Action: model.ActionRef(spec.UID.Action)}
	}
	if spec.GID != nil {
		svc.GID = &model.GIDRule{Expected: spec.GID.Expected, Action: model.ActionRef(spec.GID.Action)}
	}

	for _, cs := range spec.Checksum {
		hash, err := parseHash(cs.Hash)
		if err != nil {
			return nil, err
		}
		svc.Checksum = append(svc.Checksum, &model.ChecksumRule{
			Hash: hash, ChangeDetect: cs.ChangeDetect, Expected: strings.ToLower(cs.Expected),
			Initialized: cs.Expected != "",
			Action:      model.ActionRef(cs.Action),
		})
	}

	for _, ss := range spec.Size {
		op, err := parseOp(ss.Op)
		if err != nil {
			return nil, err
		}
		svc.Size = append(svc.Size, &model.SizeRule{
			ChangeDetect: ss.ChangeDetect, Op: op, Limit: ss.Limit,
			Action: model.ActionRef(ss.Action),
		})
	}

	for _, ts := range spec.Timestamp {
		op, err := parseOp(ts.Op)
		if err != nil {
			return nil, err
		}
		svc.Timestamp = append(svc.Timestamp, &model.TimestampRule{
			ChangeDetect: ts.ChangeDetect, Op: op, Limit: ts.Limit,
			Action: model.ActionRef(ts.Action),
		})
	}

	for _, us := range spec.Uptime {
		op, err := parseOp(us.Op)
		if err != nil {
			return nil, err
		}
		svc.Uptime = append(svc.Uptime, &model.UptimeRule{Op: op, Limit: us.Limit, Action: model.ActionRef(us.Action)})
	}

	for _, ms := range spec.Match {
		svc.Match = append(svc.Match, buildMatchRule(ms))
	}
	for _, ms := range spec.MatchIgnore {
		svc.MatchIgnore = append(svc.MatchIgnore, buildMatchRule(ms))
	}

	for _, ps := range spec.Ports {
		proto, err := parseProtocol(ps.Protocol)
		if err != nil {
			return nil, err
		}
		retry := ps.Retry
		if retry < 1 {
			retry = 1
		}
		svc.Ports = append(svc.Ports, &model.Port{
			Name: spec.Name, Address: ps.Address, Protocol: proto, Plugin: ps.Plugin,
			Retry: retry, ConnTimeout: ps.ConnTimeout,
		})
	}

	for _, is := range spec.Icmp {
		svc.Icmp = append(svc.Icmp, &model.IcmpRule{
			Type: is.Type, Timeout: is.Timeout, Count: is.Count, Action: model.ActionRef(is.Action),
		})
	}

	for _, rs := range spec.Resource {
		id, err := parseResourceID(rs.ID)
		if err != nil {
			return nil, err
		}
		op, err := parseOp(rs.Op)
		if err != nil {
			return nil, err
		}
		svc.Resource = append(svc.Resource, &model.ResourceRule{ID: id, Op: op, Limit: rs.Limit, Action: model.ActionRef(rs.Action)})
	}

	for _, fs := range spec.Filesystem {
		svc.Filesystem = append(svc.Filesystem, &model.FilesystemFlagRule{Action: model.ActionRef(fs.Action)})
	}

	for _, fr := range spec.FSResource {
		kind, err := parseFSResourceKind(fr.Kind)
		if err != nil {
			return nil, err
		}
		op, err := parseOp(fr.Op)
		if err != nil {
			return nil, err
		}
		percentLimit := fr.PercentLimit
		countLimit := fr.CountLimit
		if percentLimit == 0 && countLimit == 0 {
			return nil, fmt.Errorf("fsresource: neither percent_limit nor count_limit set")
		}
		if percentLimit == 0 {
			percentLimit = -1
		}
		if countLimit == 0 {
			countLimit = -1
		}
		svc.FSResource = append(svc.FSResource, &model.FSResourceRule{
			Kind: kind, Op: op, PercentLimit: percentLimit, CountLimit: countLimit,
			Action: model.ActionRef(fr.Action),
		})
	}

	for _, st := range spec.Status {
		op, err := parseOp(st.Op)
		if err != nil {
			return nil, err
		}
		svc.Status = append(svc.Status, &model.StatusRule{Op: op, Value: st.Value, Action: model.ActionRef(st.Action)})
	}

	return svc, nil
}

func buildMatchRule(ms MatchSpec) *model.MatchRule {
	rule := &model.MatchRule{Pattern: ms.Pattern, Not: ms.Not, Action: model.ActionRef(ms.Action)}
	if ms.Regex {
		if re, err := regexp.Compile(ms.Pattern); err == nil {
			rule.Regexp = re
		}
	}
	return rule
}

func applyEvery(svc *model.Service, spec EverySpec) error {
	switch spec.Kind {
	case "", "cycle":
		svc.Every = model.Every{Kind: model.EveryCycle}
	case "skipcycles":
		if spec.SkipCycles < 1 {
			return fmt.Errorf("every.skip_cycles must be >= 1")
		}
		svc.Every = model.Every{Kind: model.EverySkipCycles, SkipCycles: spec.SkipCycles}
	case "cron":
		svc.Every = model.Every{Kind: model.EveryCron, CronSpec: spec.Cron}
	case "notincron":
		svc.Every = model.Every{Kind: model.EveryNotInCron, CronSpec: spec.Cron}
	default:
		return fmt.Errorf("unknown every.kind %q", spec.Kind)
	}
	return nil
}

func parseServiceType(s string) (model.ServiceType, error) {
	switch s {
	case "process":
		return model.ServiceProcess, nil
	case "file":
		return model.ServiceFile, nil
	case "directory":
		return model.ServiceDirectory, nil
	case "fifo":
		return model.ServiceFifo, nil
	case "filesystem":
		return model.ServiceFilesystem, nil
	case "program":
		return model.ServiceProgram, nil
	case "host":
		return model.ServiceRemoteHost, nil
	case "system":
		return model.ServiceSystem, nil
	}
	return 0, fmt.Errorf("unknown service type %q", s)
}

func parseOp(s string) (model.Operator, error) {
	switch s {
	case "=", "==":
		return model.OpEq, nil
	case "!=":
		return model.OpNe, nil
	case ">":
		return model.OpGt, nil
	case "<":
		return model.OpLt, nil
	case ">=":
		return model.OpGe, nil
	case "<=":
		return model.OpLe, nil
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

func parseHash(s string) (model.HashKind, error) {
	switch s {
	case "", "md5":
		return model.HashMD5, nil
	case "sha1":
		return model.HashSHA1, nil
	}
	return 0, fmt.Errorf("unknown hash kind %q", s)
}

func parseProtocol(s string) (model.PortProtocolKind, error) {
	switch s {
	case "", "tcp":
		return model.ProtoTCP, nil
	case "udp":
		return model.ProtoUDP, nil
	case "unix":
		return model.ProtoUnix, nil
	}
	return 0, fmt.Errorf("unknown port protocol %q", s)
}

func parseResourceID(s string) (model.ResourceID, error) {
	switch s {
	case "cpu_percent":
		return model.ResourceCPUPercent, nil
	case "total_cpu_percent":
		return model.ResourceTotalCPUPercent, nil
	case "cpu_user":
		return model.ResourceCPUUser, nil
	case "cpu_system":
		return model.ResourceCPUSystem, nil
	case "cpu_wait":
		return model.ResourceCPUWait, nil
	case "mem_percent":
		return model.ResourceMemPercent, nil
	case "mem_kb":
		return model.ResourceMemKB, nil
	case "swap_percent":
		return model.ResourceSwapPercent, nil
	case "swap_kb":
		return model.ResourceSwapKB, nil
	case "load1":
		return model.ResourceLoad1, nil
	case "load5":
		return model.ResourceLoad5, nil
	case "load15":
		return model.ResourceLoad15, nil
	case "children":
		return model.ResourceChildren, nil
	case "total_mem_percent":
		return model.ResourceTotalMemPercent, nil
	case "total_mem_kb":
		return model.ResourceTotalMemKB, nil
	}
	return 0, fmt.Errorf("unknown resource id %q", s)
}

func parseFSResourceKind(s string) (model.FSResourceKind, error) {
	switch s {
	case "inode":
		return model.FSResourceInode, nil
	case "space":
		return model.FSResourceSpace, nil
	}
	return 0, fmt.Errorf("unknown fsresource kind %q", s)
}

func parseOctal(s string) (uint32, error) {
	var mode uint32
	if _, err := fmt.Sscanf(s, "%o", &mode); err != nil {
		return 0, fmt.Errorf("bad octal mode %q: %w", s, err)
	}
	return mode, nil
}
