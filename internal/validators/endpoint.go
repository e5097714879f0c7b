// Package validators provides validation functions for tenant settings
// entered by operators.
package validators

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"
)

const (
	maxTenantIDLength = 64
	maxHostLength     = 253
)

var (
	// Tenant ids must start and end with alphanumeric characters, dots, underscores and hyphens may appear in between
	tenantIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

	// One DNS label
	hostLabelPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
)

// ValidateTenantID validates the id a tenant is stored under.
// Returns the trimmed id.
func ValidateTenantID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("tenant id cannot be empty")
	}
	if len(id) > maxTenantIDLength {
		return "", fmt.Errorf("tenant id exceeds maximum length of %d characters", maxTenantIDLength)
	}
	if !tenantIDPattern.MatchString(id) {
		return "", fmt.Errorf(
			"tenant id '%s' is invalid. It must start and end with alphanumeric characters, "+
				"and may contain dots, underscores, and hyphens in the middle",
			id,
		)
	}
	return id, nil
}

// ValidateServerEndpoint validates the host and companion port of a game server.
// The host is an IP address or a DNS name. Returns the trimmed host.
func ValidateServerEndpoint(host string, port int) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("server host cannot be empty")
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("invalid port %d", port)
	}

	if _, err := netip.ParseAddr(host); err == nil {
		return host, nil
	}

	if len(host) > maxHostLength {
		return "", fmt.Errorf("server host exceeds maximum length of %d characters", maxHostLength)
	}
	for _, label := range strings.Split(strings.TrimSuffix(host, "."), ".") {
		if len(label) > 63 || !hostLabelPattern.MatchString(label) {
			return "", fmt.Errorf("server host '%s' is neither an IP address nor a valid DNS name", host)
		}
	}
	return host, nil
}

// IsValidTenantID reports whether id passes ValidateTenantID
func IsValidTenantID(id string) bool {
	_, err := ValidateTenantID(id)
	return err == nil
}
