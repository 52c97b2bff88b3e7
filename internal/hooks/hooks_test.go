package hooks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderGitHook_PostCommit(t *testing.T) {
	script, err := RenderGitHook(GitHooks[0])
	if err != nil {
		t.Fatalf("RenderGitHook() error: %v", err)
	}
	for _, want := range []string{
		"#!/bin/sh",
		marker,
		`"$0.pre-devxp" "$@"`,
		"devxp record git_commit --quiet",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("post-commit script missing %q:\n%s", want, script)
		}
	}
	if strings.Contains(script, "|| exit 0") {
		t.Errorf("unguarded hook rendered a guard line:\n%s", script)
	}
}

func TestRenderGitHook_CheckoutGuard(t *testing.T) {
	var checkout GitHook
	for _, h := range GitHooks {
		if h.Name == "post-checkout" {
			checkout = h
		}
	}
	if checkout.Name == "" {
		t.Fatal("post-checkout not in GitHooks")
	}

	script, err := RenderGitHook(checkout)
	if err != nil {
		t.Fatalf("RenderGitHook() error: %v", err)
	}
	if !strings.Contains(script, `[ "$3" = "1" ] || exit 0`) {
		t.Errorf("post-checkout missing branch-switch guard:\n%s", script)
	}
	if !strings.Contains(script, "devxp record git_branch") {
		t.Errorf("post-checkout records wrong activity:\n%s", script)
	}
}

func TestRenderShellInit(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "trap '__devxp_record' DEBUG"},
		{"zsh", "add-zsh-hook preexec __devxp_record"},
		{"fish", "--on-event fish_preexec"},
	}
	for _, tt := range tests {
		snippet, err := RenderShellInit(tt.shell)
		if err != nil {
			t.Fatalf("RenderShellInit(%q) error: %v", tt.shell, err)
		}
		if !strings.Contains(snippet, tt.want) {
			t.Errorf("%s snippet missing %q:\n%s", tt.shell, tt.want, snippet)
		}
		if !strings.Contains(snippet, "devxp record command_run --quiet") {
			t.Errorf("%s snippet never records command_run:\n%s", tt.shell, snippet)
		}
	}
}

func TestRenderShellInit_UnsupportedShell(t *testing.T) {
	if _, err := RenderShellInit("powershell"); err == nil {
		t.Fatal("RenderShellInit(powershell) expected error, got nil")
	}
}

func TestFindGitDir(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".git")
	nested := filepath.Join(root, "src", "deep", "pkg")
	if err := os.MkdirAll(gitDir, 0755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	found, err := FindGitDir(nested)
	if err != nil {
		t.Fatalf("FindGitDir() error: %v", err)
	}
	if found != gitDir {
		t.Errorf("FindGitDir() = %s, want %s", found, gitDir)
	}
}

func TestFindGitDir_NotARepo(t *testing.T) {
	if _, err := FindGitDir(t.TempDir()); err == nil {
		t.Fatal("FindGitDir() expected error outside a repository")
	}
}

func TestInstall_FreshRepo(t *testing.T) {
	gitDir := filepath.Join(t.TempDir(), ".git")
	if err := os.MkdirAll(gitDir, 0755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}

	written, err := Install(gitDir)
	if err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	if len(written) != len(GitHooks) {
		t.Fatalf("Install() wrote %d hooks, want %d", len(written), len(GitHooks))
	}

	for _, path := range written {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Mode()&0100 == 0 {
			t.Errorf("%s not executable (mode %v)", path, info.Mode())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if !strings.Contains(string(data), marker) {
			t.Errorf("%s missing ownership marker", path)
		}
	}
}

func TestInstall_ChainsExistingHook(t *testing.T) {
	gitDir := filepath.Join(t.TempDir(), ".git")
	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		t.Fatalf("mkdir hooks: %v", err)
	}

	original := "#!/bin/sh\necho custom hook\n"
	hookPath := filepath.Join(hooksDir, "post-commit")
	if err := os.WriteFile(hookPath, []byte(original), 0755); err != nil {
		t.Fatalf("write existing hook: %v", err)
	}

	if _, err := Install(gitDir); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	chained, err := os.ReadFile(hookPath + ".pre-devxp")
	if err != nil {
		t.Fatalf("chained hook not preserved: %v", err)
	}
	if string(chained) != original {
		t.Errorf("chained hook content changed: %q", chained)
	}

	ours, err := os.ReadFile(hookPath)
	if err != nil {
		t.Fatalf("read installed hook: %v", err)
	}
	if !strings.Contains(string(ours), marker) {
		t.Errorf("installed hook missing marker:\n%s", ours)
	}

	// Reinstalling over our own hook must not chain a second time.
	if _, err := Install(gitDir); err != nil {
		t.Fatalf("reinstall error: %v", err)
	}
	chained2, err := os.ReadFile(hookPath + ".pre-devxp")
	if err != nil {
		t.Fatalf("chained hook lost on reinstall: %v", err)
	}
	if string(chained2) != original {
		t.Errorf("reinstall overwrote the chained hook: %q", chained2)
	}
}

func TestInstall_RefusesAmbiguousChain(t *testing.T) {
	gitDir := filepath.Join(t.TempDir(), ".git")
	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		t.Fatalf("mkdir hooks: %v", err)
	}

	hookPath := filepath.Join(hooksDir, "post-commit")
	if err := os.WriteFile(hookPath, []byte("#!/bin/sh\necho one\n"), 0755); err != nil {
		t.Fatalf("write hook: %v", err)
	}
	if err := os.WriteFile(hookPath+".pre-devxp", []byte("#!/bin/sh\necho two\n"), 0755); err != nil {
		t.Fatalf("write chained hook: %v", err)
	}

	if _, err := Install(gitDir); err == nil {
		t.Fatal("Install() expected error when both hook and chain target exist")
	}
}
