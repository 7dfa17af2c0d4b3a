package stack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestComposeArgs(t *testing.T) {
	c := &Compose{bin: "podman-compose", file: "compose.yaml"}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"up", []string{"up", "-d"}, "-f compose.yaml up -d"},
		{"down", []string{"down"}, "-f compose.yaml down"},
		{"down volumes", []string{"down", "-v"}, "-f compose.yaml down -v"},
		{"logs follow service", []string{"logs", "-f", "scheduler"}, "-f compose.yaml logs -f scheduler"},
		{"ps", []string{"ps"}, "-f compose.yaml ps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(c.composeArgs(tt.args...), " ")
			if got != tt.want {
				t.Errorf("composeArgs = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposeCustomFile(t *testing.T) {
	c := &Compose{bin: "podman-compose", file: "other.yaml"}
	got := strings.Join(c.composeArgs("up", "-d"), " ")
	if got != "-f other.yaml up -d" {
		t.Errorf("composeArgs = %q", got)
	}
}

func TestStderrTail(t *testing.T) {
	if got := stderrTail(""); got != "" {
		t.Errorf("empty stderr tail = %q", got)
	}
	if got := stderrTail("one error\n"); got != "one error" {
		t.Errorf("tail = %q", got)
	}

	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("line\n")
	}
	got := stderrTail(b.String())
	if n := strings.Count(got, "line"); n != stderrTailLines {
		t.Errorf("tail kept %d lines, want %d", n, stderrTailLines)
	}
}

func TestScaffold(t *testing.T) {
	dir := t.TempDir()

	if err := Scaffold(dir); err != nil {
		t.Fatalf("Scaffold: %v", err)
	}

	for _, d := range ScaffoldDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		if err != nil {
			t.Fatalf("stat %s: %v", d, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", d)
		}
	}

	env, err := os.ReadFile(filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("read .env: %v", err)
	}
	if !strings.HasPrefix(string(env), "STACK_UID=") {
		t.Errorf(".env content = %q", env)
	}
}

func TestScaffold_Idempotent(t *testing.T) {
	dir := t.TempDir()

	if err := Scaffold(dir); err != nil {
		t.Fatal(err)
	}

	// A customized .env must survive a second run.
	envPath := filepath.Join(dir, ".env")
	custom := []byte("STACK_UID=1000\nEXTRA=1\n")
	if err := os.WriteFile(envPath, custom, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Scaffold(dir); err != nil {
		t.Fatalf("second Scaffold: %v", err)
	}

	got, err := os.ReadFile(envPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(custom) {
		t.Errorf(".env was overwritten: %q", got)
	}
}

func TestParseMemTotal(t *testing.T) {
	meminfo := `MemTotal:       16314828 kB
MemFree:         1054808 kB
MemAvailable:    8345620 kB
Buffers:          512332 kB
`
	got, err := parseMemTotal(strings.NewReader(meminfo))
	if err != nil {
		t.Fatalf("parseMemTotal: %v", err)
	}
	if got != 16314828 {
		t.Errorf("MemTotal = %d, want 16314828", got)
	}
}

func TestParseMemTotal_Missing(t *testing.T) {
	_, err := parseMemTotal(strings.NewReader("MemFree: 1 kB\n"))
	if err == nil {
		t.Fatal("expected error for missing MemTotal")
	}
}

func TestCheckDirs(t *testing.T) {
	dir := t.TempDir()

	res := checkDirs(dir)
	if res.Status != StatusFail {
		t.Fatalf("status = %s for empty dir, want fail", res.Status)
	}
	if !strings.Contains(res.Detail, "dags") {
		t.Errorf("detail %q does not name missing dirs", res.Detail)
	}

	if err := Scaffold(dir); err != nil {
		t.Fatal(err)
	}
	res = checkDirs(dir)
	if res.Status != StatusOK {
		t.Errorf("status = %s after scaffold, want ok", res.Status)
	}
}

func TestHealthy(t *testing.T) {
	ok := []CheckResult{{Status: StatusOK}, {Status: StatusWarn}}
	if !Healthy(ok) {
		t.Error("warn-only results should be healthy")
	}
	bad := append(ok, CheckResult{Status: StatusFail})
	if Healthy(bad) {
		t.Error("fail result should mark unhealthy")
	}
}
