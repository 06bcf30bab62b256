package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 || cfg.WSPath != "/ws" || cfg.Mode != "release" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Namespace != NamespaceGlobal || cfg.RoomScoped() {
		t.Fatalf("default namespace must be global")
	}
	if cfg.WriteTimeout != 5*time.Second || cfg.PingPeriod != 54*time.Second {
		t.Fatalf("unexpected timeout defaults: %+v", cfg)
	}
	if len(cfg.ICEServers) != 1 || len(cfg.ICEServers[0].URLs) != 1 {
		t.Fatalf("expected one default ICE server, got %+v", cfg.ICEServers)
	}
}

func TestValidate_RejectsUnknownNamespace(t *testing.T) {
	cfg := &Config{
		Namespace:    "datacenter",
		SendBuffer:   32,
		WriteTimeout: time.Second,
		PingPeriod:   time.Second,
	}
	if err := cfg.validate(); err == nil {
		t.Fatalf("expected error for unknown namespace")
	}
}

func TestOriginAllowed(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "https://evil.example", true},
		{"exact match", []string{"https://moya.example"}, "https://moya.example", true},
		{"mismatch", []string{"https://moya.example"}, "https://evil.example", false},
		{"empty origin always passes", []string{"https://moya.example"}, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{AllowedOrigins: tc.allowed}
			if got := cfg.OriginAllowed(tc.origin); got != tc.want {
				t.Fatalf("OriginAllowed(%q)=%v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}

func TestWebRTCICEServers(t *testing.T) {
	cfg := &Config{ICEServers: []ICEServer{
		{URLs: []string{"stun:stun.example:3478"}},
		{URLs: []string{"turn:turn.example:3478"}, Username: "u", Credential: "p"},
	}}

	servers := cfg.WebRTCICEServers()
	if len(servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(servers))
	}
	if servers[0].Username != "" {
		t.Fatalf("stun entry must carry no credentials")
	}
	if servers[1].Username != "u" || servers[1].Credential != "p" {
		t.Fatalf("turn credentials lost: %+v", servers[1])
	}
}
