package browser

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		link string
		ok   bool
	}{
		{"https://baemin.me/abc", true},
		{"http://localhost:3000/x", true},
		{"", false},
		{"baemin.me/abc", false},
		{"javascript:alert(1)", false},
		{"file:///etc/passwd", false},
		{"https://", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		err := Validate(tt.link)
		if (err == nil) != tt.ok {
			t.Errorf("Validate(%q) = %v, want ok=%v", tt.link, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedLink) {
			t.Errorf("Validate(%q) error %v does not wrap ErrUnsupportedLink", tt.link, err)
		}
	}
}

func TestOpen_RejectsBeforeLaunch(t *testing.T) {
	if err := Open("ftp://example.com"); !errors.Is(err, ErrUnsupportedLink) {
		t.Errorf("Open(ftp) = %v, want ErrUnsupportedLink", err)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "rundll32"},
	}
	for _, tt := range tests {
		cmd, err := command(tt.goos, "https://example.com")
		if err != nil {
			t.Fatalf("command(%s) error: %v", tt.goos, err)
		}
		if cmd.Args[0] != tt.want {
			t.Errorf("command(%s) = %q, want %q", tt.goos, cmd.Args[0], tt.want)
		}
		if last := cmd.Args[len(cmd.Args)-1]; last != "https://example.com" {
			t.Errorf("command(%s) last arg = %q", tt.goos, last)
		}
	}
	if _, err := command("plan9", "https://example.com"); err == nil {
		t.Error("expected error for unsupported OS")
	}
}
