package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeDeviceName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"LowercaseSimple", "MacBook", "macbook"},
		{"SpacesToHyphens", "My Device", "my-device"},
		{"RemoveSpecialChars", "My@Device#123!", "mydevice123"},
		{"RemoveConsecutiveHyphens", "my--device", "my-device"},
		{"TrimHyphens", "-my-device-", "my-device"},
		{"EmptyToDefault", "", "device"},
		{"OnlySpecialChars", "@#$%", "device"},
		{"PreserveUnderscores", "my_device", "my_device"},
		{"DottedHostname", "laptop.local", "laptoplocal"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := SanitizeDeviceName(tc.input)
			if result != tc.expected {
				t.Errorf("SanitizeDeviceName(%q) = %q, expected %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestDefaultDeviceNameIsSanitized(t *testing.T) {
	name := DefaultDeviceName()
	if name == "" {
		t.Fatal("Expected non-empty device name")
	}
	if SanitizeDeviceName(name) != name {
		t.Errorf("Expected %q to already be sanitized", name)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Tilde", "~", home},
		{"TildeSlash", "~/journal", filepath.Join(home, "journal")},
		{"Absolute", "/var/journal", "/var/journal"},
		{"Relative", "journal", "journal"},
		{"TildeUser", "~other/journal", "~other/journal"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExpandHome(tc.input)
			if err != nil {
				t.Fatalf("ExpandHome failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("ExpandHome(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}
}

func TestJoinWords(t *testing.T) {
	got := JoinWords([]string{" Today", "was", "good. "})
	if got != "Today was good." {
		t.Errorf("Expected joined words, got %q", got)
	}
	if JoinWords([]string{" ", "\t"}) != "" {
		t.Error("Expected whitespace-only words to join to empty")
	}
}
