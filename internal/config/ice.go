package config

import "github.com/pion/webrtc/v4"

// ICEServer is the config-file form of one STUN/TURN entry. The relay never
// dials these itself; it only hands them to clients building their
// RTCPeerConnections.
type ICEServer struct {
	URLs       []string `mapstructure:"urls" json:"urls"`
	Username   string   `mapstructure:"username" json:"username,omitempty"`
	Credential string   `mapstructure:"credential" json:"credential,omitempty"`
}

func defaultICEServers() []map[string]any {
	return []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	}
}

// WebRTCICEServers converts the configured entries into pion's type, which
// serializes in the shape RTCPeerConnection expects.
func (c *Config) WebRTCICEServers() []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for _, s := range c.ICEServers {
		server := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			server.Username = s.Username
			server.Credential = s.Credential
		}
		out = append(out, server)
	}
	return out
}
