package main

import (
	"bytes"
	"flag"
	"os"
	"testing"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

// ----------------- Tests for printBuildInfo -----------------

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Set build info variables
	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()
	os.Stdout = oldStdout

	// Check if all expected strings are present
	if !contains(output, "v1.0.0") ||
		!contains(output, "abcd1234") ||
		!contains(output, "2025-09-26") {
		t.Errorf("printBuildInfo output unexpected:\n%s", output)
	}
}

// Helper function to check substring
func contains(s, substr string) bool {
	return bytes.Contains([]byte(s), []byte(substr))
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	dbPath, logLevel, jwtSecret, jwtExp, err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	if dbPath != "./data/remindme.db" || logLevel != "info" {
		t.Errorf("unexpected app config: %v/%v", dbPath, logLevel)
	}
	if jwtSecret != "my_super_secret_key" || jwtExp != 86400 {
		t.Errorf("unexpected token config: %v/%v", jwtSecret, jwtExp)
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	resetEnv()
	t.Setenv("APP_DB_PATH", "/tmp/test.db")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("JWT_EXP_SECOND", "60")

	dbPath, logLevel, jwtSecret, jwtExp, err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	if dbPath != "/tmp/test.db" || logLevel != "debug" || jwtSecret != "s3cret" || jwtExp != 60 {
		t.Errorf("unexpected config: %v/%v/%v/%v", dbPath, logLevel, jwtSecret, jwtExp)
	}
}

func TestParseConfig_BadExpiration(t *testing.T) {
	resetEnv()
	t.Setenv("JWT_EXP_SECOND", "not-a-number")

	_, _, _, _, err := parseConfig("nonexistent.env")
	if err == nil {
		t.Fatal("expected error for non-numeric JWT_EXP_SECOND")
	}
}

func TestParseConfig_FileValues(t *testing.T) {
	resetEnv()

	f, err := os.CreateTemp(t.TempDir(), "*.env")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("APP_DB_PATH=/tmp/file.db\nAPP_LOG_LEVEL=warn\n"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	dbPath, logLevel, _, _, err := parseConfig(f.Name())
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	if dbPath != "/tmp/file.db" || logLevel != "warn" {
		t.Errorf("unexpected config from file: %v/%v", dbPath, logLevel)
	}
}
