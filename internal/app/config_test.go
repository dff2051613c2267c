package app

import (
	"testing"

	"github.com/openhearth/charity-backend/internal/domain"
)

func TestParseChannels(t *testing.T) {
	out, err := parseChannels([]string{" Email ", "SMS"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0] != domain.ChannelEmail || out[1] != domain.ChannelSms {
		t.Fatalf("unexpected channels: %v", out)
	}
}

func TestParseChannelsSkipsBlanks(t *testing.T) {
	out, err := parseChannels([]string{"", "email", "  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0] != domain.ChannelEmail {
		t.Fatalf("blank entries must be dropped: %v", out)
	}
}

func TestParseChannelsRejectsUnknown(t *testing.T) {
	if _, err := parseChannels([]string{"email", "pigeon"}); err == nil {
		t.Fatalf("unknown channel must fail configuration")
	}
}

func TestParseChannelsEmptyListAllowed(t *testing.T) {
	out, err := parseChannels(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("empty input must disable fan-out, got %v", out)
	}
}
