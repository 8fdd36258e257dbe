package utils

import (
	"os"
	"os/user"
	"regexp"
	"strings"
)

var (
	invalidDeviceChars = regexp.MustCompile(`[^a-z0-9\-_]`)
	repeatedHyphens    = regexp.MustCompile(`-+`)
)

// GetUsername returns the current username.
func GetUsername() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// GetHostname returns the system hostname.
func GetHostname() (string, error) {
	return os.Hostname()
}

// SanitizeDeviceName lowercases a name, turns spaces into hyphens and drops
// anything that is not alphanumeric, a hyphen or an underscore.
func SanitizeDeviceName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	name = invalidDeviceChars.ReplaceAllString(name, "")
	name = repeatedHyphens.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	if name == "" {
		name = "device"
	}
	return name
}

// DefaultDeviceName derives a device name from the hostname, falling back to
// the username and then to "device".
func DefaultDeviceName() string {
	hostname, err := GetHostname()
	if err != nil || hostname == "" {
		username, userErr := GetUsername()
		if userErr != nil {
			return "device"
		}
		hostname = username
	}
	return SanitizeDeviceName(hostname)
}
