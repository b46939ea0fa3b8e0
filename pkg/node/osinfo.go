package node

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/aretw0/acceptance/pkg/ports"
)

// OSRelease reads ID and VERSION_ID from /etc/os-release on the node behind ch.
// ok is false when either field is missing. On SLES the version dot becomes "-SP" (15.4 -> 15-SP4).
func OSRelease(ctx context.Context, ch ports.CommandChannel) (version, family string, ok bool, err error) {
	family, ok, err = osReleaseField(ctx, ch, "ID")
	if err != nil || !ok {
		return "", "", false, err
	}
	version, ok, err = osReleaseField(ctx, ch, "VERSION_ID")
	if err != nil || !ok {
		return "", "", false, err
	}
	if strings.HasPrefix(family, "sles") {
		version = strings.ReplaceAll(version, ".", "-SP")
	}
	return version, family, true, nil
}

func osReleaseField(ctx context.Context, ch ports.CommandChannel, field string) (string, bool, error) {
	res, err := ch.Run(ctx, fmt.Sprintf(`grep "^%s=" /etc/os-release`, field), ports.WithCheckErrors(false))
	if err != nil {
		return "", false, err
	}
	if !res.Success() {
		return "", false, nil
	}
	_, value, found := strings.Cut(strings.TrimSpace(res.Output), "=")
	if !found || value == "" {
		return "", false, nil
	}
	return strings.ReplaceAll(value, `"`, ""), true, nil
}

var familyMarkers = []struct {
	family  domain.HostFamily
	markers []string
}{
	{domain.FamilySLEMicro, []string{"slemicro", "micro"}},
	{domain.FamilySUSE, []string{"sle", "opensuse", "ssh"}},
	{domain.FamilyRedHat, []string{"rhlike", "alma", "centos", "liberty", "oracle", "rocky"}},
	{domain.FamilyDebian, []string{"deblike", "debian", "ubuntu"}},
}

// ClassifyHost maps a suite host name (e.g. "sle15sp4_minion", "rocky8_minion") to a family.
// SLE Micro wins over plain SUSE since its names also contain "sle".
func ClassifyHost(name string) domain.HostFamily {
	for _, fm := range familyMarkers {
		for _, m := range fm.markers {
			if strings.Contains(name, m) {
				return fm.family
			}
		}
	}
	return domain.FamilyUnknown
}

// Uptime is the node uptime in several units.
type Uptime struct {
	Seconds float64
	Minutes float64
	Hours   float64
	Days    float64
}

// UptimeOf reads /proc/uptime on the node.
func UptimeOf(ctx context.Context, ch ports.CommandChannel) (Uptime, error) {
	res, err := ch.Run(ctx, "cat /proc/uptime")
	if err != nil {
		return Uptime{}, err
	}
	fields := strings.Fields(res.Output)
	if len(fields) == 0 {
		return Uptime{}, fmt.Errorf("unexpected /proc/uptime content %q", res.Output)
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Uptime{}, fmt.Errorf("parse uptime: %w", err)
	}
	minutes := seconds / 60
	hours := minutes / 60
	return Uptime{Seconds: seconds, Minutes: minutes, Hours: hours, Days: hours / 24}, nil
}

// ConfVariable returns the value of a "name = value" line in file.
func ConfVariable(ctx context.Context, ch ports.CommandChannel, file, name string) (string, error) {
	cmd := fmt.Sprintf(`sed -n 's/^%s = \(.*\)/\1/p' < %s`, name, file)
	res, err := ch.Run(ctx, cmd, ports.WithCheckErrors(false))
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", fmt.Errorf("reading %s from %s failed: %w", name, file, &domain.CommandError{Command: cmd, Result: res})
	}
	return strings.TrimSpace(res.Output), nil
}

// MACAddress returns the link-layer address of dev.
func MACAddress(ctx context.Context, ch ports.CommandChannel, dev string) (string, error) {
	res, err := ch.Run(ctx, "ip link show dev "+dev)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimSpace(res.Output), "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("no link/ether line for %s", dev)
	}
	fields := strings.Fields(lines[1])
	if len(fields) < 2 {
		return "", fmt.Errorf("malformed link line for %s: %q", dev, lines[1])
	}
	return fields[1], nil
}

// FileExists reports whether path is a regular file on the node.
func FileExists(ctx context.Context, ch ports.CommandChannel, path string) (bool, error) {
	return testPath(ctx, ch, "-f", path)
}

// FolderExists reports whether path is a directory on the node.
func FolderExists(ctx context.Context, ch ports.CommandChannel, path string) (bool, error) {
	return testPath(ctx, ch, "-d", path)
}

func testPath(ctx context.Context, ch ports.CommandChannel, flag, path string) (bool, error) {
	res, err := ch.Run(ctx, fmt.Sprintf("test %s %s", flag, path), ports.WithCheckErrors(false))
	if err != nil {
		return false, err
	}
	return res.Success(), nil
}

// ReverseNet returns the in-addr.arpa zone of a /24 network, e.g. 192.168.1.0 -> 1.168.192.in-addr.arpa.
func ReverseNet(network string) (string, error) {
	octets := strings.Split(network, ".")
	if len(octets) < 3 {
		return "", fmt.Errorf("not an IPv4 network: %q", network)
	}
	return octets[2] + "." + octets[1] + "." + octets[0] + ".in-addr.arpa", nil
}

var netSuffix = regexp.MustCompile(`\.0+/24$`)

// NetPrefix turns "192.168.1.0/24" into "192.168.1.".
func NetPrefix(privateNet string) string {
	return netSuffix.ReplaceAllString(privateNet, ".")
}

var regexMeta = regexp.MustCompile(`[$.*\[/^]`)

// EscapeRegex escapes the characters sed treats specially in a basic regex.
func EscapeRegex(text string) string {
	return regexMeta.ReplaceAllString(text, `\$0`)
}
