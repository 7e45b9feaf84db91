package tailscale

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/portside/portside/config"
	"github.com/portside/portside/internal/app/model"
)

const lookupTimeout = 3 * time.Second

// Lookup discovers the host's Tailscale IPv4 address via the local CLI. The
// result is a rendering hint only; absence of Tailscale is not an error.
type Lookup struct {
	binary string
}

// NewLookup returns a Lookup using the configured tailscale binary.
func NewLookup(cfg config.TailscaleConfig) *Lookup {
	binary := cfg.Binary
	if binary == "" {
		binary = "tailscale"
	}
	return &Lookup{binary: binary}
}

// Status returns the Tailscale IP when the CLI is installed and logged in,
// and a disabled status otherwise.
func (l *Lookup) Status(ctx context.Context) model.TailscaleStatus {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, l.binary, "ip", "-4").Output()
	if err != nil {
		return model.TailscaleStatus{Enabled: false}
	}
	ip := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	if ip == "" {
		return model.TailscaleStatus{Enabled: false}
	}
	return model.TailscaleStatus{Enabled: true, IP: &ip}
}
