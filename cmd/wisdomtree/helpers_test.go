package main

import (
	"strings"
	"testing"
	"time"

	"wisdomtree/internal/config"
	"wisdomtree/internal/ipc"
)

func TestParseVolumeArg(t *testing.T) {
	cases := []struct {
		arg     string
		want    ipc.VolumeRequest
		wantErr bool
	}{
		{arg: "50", want: ipc.VolumeRequest{Volume: 50}},
		{arg: "0", want: ipc.VolumeRequest{Volume: 0}},
		{arg: "100", want: ipc.VolumeRequest{Volume: 100}},
		{arg: "+10", want: ipc.VolumeRequest{Delta: 10}},
		{arg: "-5", want: ipc.VolumeRequest{Delta: -5}},
		{arg: "101", wantErr: true},
		{arg: "-0", wantErr: true},
		{arg: "loud", wantErr: true},
		{arg: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseVolumeArg(tc.arg)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseVolumeArg(%q) expected error", tc.arg)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseVolumeArg(%q) failed: %v", tc.arg, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseVolumeArg(%q) = %+v, want %+v", tc.arg, got, tc.want)
		}
	}
}

func TestParseEffectVolumeArg(t *testing.T) {
	if got, err := parseEffectVolumeArg("+10"); err != nil || got != 10 {
		t.Errorf("parseEffectVolumeArg(+10) = %d, %v", got, err)
	}
	if got, err := parseEffectVolumeArg("-5"); err != nil || got != -5 {
		t.Errorf("parseEffectVolumeArg(-5) = %d, %v", got, err)
	}
	for _, arg := range []string{"10", "+0", "loud", ""} {
		if _, err := parseEffectVolumeArg(arg); err == nil {
			t.Errorf("parseEffectVolumeArg(%q) expected error", arg)
		}
	}
}

func TestFormatSessionTime(t *testing.T) {
	recent := time.Now().Add(-2 * time.Hour).Format(time.RFC3339)
	if got := formatSessionTime(recent); !strings.Contains(got, "ago") {
		t.Errorf("expected relative time for recent session, got %q", got)
	}

	old := time.Date(2020, 3, 14, 9, 26, 0, 0, time.UTC).Format(time.RFC3339)
	if got := formatSessionTime(old); !strings.Contains(got, "2020-03-14") {
		t.Errorf("expected absolute date for old session, got %q", got)
	}

	if got := formatSessionTime("not-a-time"); got != "not-a-time" {
		t.Errorf("expected passthrough for unparseable value, got %q", got)
	}
}

func TestSessionLength(t *testing.T) {
	started := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	session := ipc.SessionRecord{
		StartedAt: started.Format(time.RFC3339),
		EndedAt:   started.Add(25 * time.Minute).Format(time.RFC3339),
	}
	if got := sessionLength(session); got != "25m0s" {
		t.Errorf("unexpected length %q", got)
	}

	running := ipc.SessionRecord{StartedAt: started.Format(time.RFC3339)}
	if got := sessionLength(running); got != "running" {
		t.Errorf("expected running marker, got %q", got)
	}
}

func TestPresetSummary(t *testing.T) {
	cfg := config.Default()
	summary := presetSummary(&cfg)
	if !strings.Contains(summary, "20+20") {
		t.Errorf("expected default preset in summary, got %q", summary)
	}
	if !strings.Contains(summary, ", ") {
		t.Errorf("expected comma-separated presets, got %q", summary)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]column{{title: "Name"}, {title: "Count", numeric: true}},
		[][]string{{"alpha", "1"}, {"beta", "22"}},
	)
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "22") {
		t.Fatalf("table missing content:\n%s", out)
	}
	if !strings.Contains(out, "Name") {
		t.Fatalf("table missing header:\n%s", out)
	}
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Daemon", statusOK, "Running", false)
	if !strings.Contains(line, "●") || !strings.Contains(line, "Daemon") || !strings.Contains(line, "Running") {
		t.Fatalf("unexpected status line %q", line)
	}
	if strings.Contains(line, ansiReset) {
		t.Fatalf("plain line must not carry escapes: %q", line)
	}
	colored := renderStatusLine("Daemon", statusError, "down", true)
	if !strings.Contains(colored, ansiRed) {
		t.Fatalf("expected color escape in %q", colored)
	}
	bare := renderStatusLine("Readable", statusOK, "", false)
	if strings.HasSuffix(bare, " ") {
		t.Fatalf("empty detail must not leave trailing padding: %q", bare)
	}
}
