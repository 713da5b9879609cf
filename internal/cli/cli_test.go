package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"exam-portal/internal/domain"
	transport "exam-portal/internal/transport/http"
)

func TestLoadTestFileParsesSample(t *testing.T) {
	in, err := loadTestFile(filepath.Join("..", "..", "config", "sample_test.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if in.Branch != domain.BranchCE || in.Duration != 20 || len(in.Questions) != 3 {
		t.Fatalf("unexpected test %+v", in)
	}
	if !in.Questions[0].Options[1].IsCorrect || in.Questions[2].Marks != 0 {
		t.Fatalf("unexpected questions %+v", in.Questions)
	}
}

func TestImportTestCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "store:\n  backend: memory\n")
	file := writeFile(t, dir, "test.yaml", `
title: Networks quiz
branch: IT
duration: 5
questions:
  - text: Which port does HTTPS use by default?
    subject: Networks
    options:
      - text: "80"
      - text: "443"
        isCorrect: true
`)

	out, err := runCLI(t, "--config", cfg, "import-test", "--file", file, "--author", "admin-1")
	if err != nil {
		t.Fatalf("import-test: %v", err)
	}
	if !strings.Contains(out, "created test") || !strings.Contains(out, "Networks quiz") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestImportTestCommandRejectsInvalidTest(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "store:\n  backend: memory\n")
	file := writeFile(t, dir, "test.yaml", "title: Empty\nbranch: XX\nduration: 5\n")

	_, err := runCLI(t, "--config", cfg, "import-test", "--file", file)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLeaderboardCommandOnEmptyStore(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "config.yaml", "store:\n  backend: memory\n")

	out, err := runCLI(t, "--config", cfg, "leaderboard", "--top", "5")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty list, got %q", out)
	}
}

func TestLearnerCommandRejectsUnknownBranch(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "config.yaml", "store:\n  backend: memory\n")

	_, err := runCLI(t, "--config", cfg, "learner", "--id", "u1", "--name", "Asha", "--branch", "ARTS")
	if err == nil || !strings.Contains(err.Error(), "unknown branch") {
		t.Fatalf("expected branch error, got %v", err)
	}
}

func TestTokenCommandIssuesVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg := writeFile(t, t.TempDir(), "config.yaml", "auth:\n  jwtSecret: cli-secret\n  tokenTTL: 1h\n")

	out, err := runCLI(t, "--config", cfg, "token", "--user", "admin-7", "--role", "admin")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/tests", nil)
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(out))
	caller, err := transport.NewAuthenticator("cli-secret").Caller(req)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if caller.UserID != "admin-7" || !caller.IsAdmin() {
		t.Fatalf("unexpected caller %+v", caller)
	}
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg := writeFile(t, t.TempDir(), "config.yaml", "store:\n  backend: memory\n")

	if _, err := runCLI(t, "--config", cfg, "token", "--user", "u1"); err == nil {
		t.Fatalf("expected missing secret error")
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
