// Package hooks generates and installs the git and shell integration that
// feeds developer activity into devxp. Git hooks record commits, merges and
// branch switches; shell preexec snippets record terminal commands. All
// scripts call `devxp record ... --quiet` in the background so the developer
// never waits on the tracker.
package hooks

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// marker identifies scripts written by devxp so Install can safely
// overwrite its own hooks and chain everyone else's.
const marker = "managed by devxp"

// binaryName is the command the generated scripts invoke.
const binaryName = "devxp"

// GitHook describes one managed hook under .git/hooks.
type GitHook struct {
	Name     string // hook filename, e.g. "post-commit"
	Activity string // activity type the hook records
	Guard    string // optional shell condition; hook exits quietly when false
}

// GitHooks lists every hook Install manages. post-checkout only fires for
// branch switches (git passes flag=1), not file checkouts.
var GitHooks = []GitHook{
	{Name: "post-commit", Activity: "git_commit"},
	{Name: "post-merge", Activity: "git_merge"},
	{Name: "post-checkout", Activity: "git_branch", Guard: `[ "$3" = "1" ]`},
}

var gitHookTmpl = template.Must(template.New("githook").Parse(`#!/bin/sh
# {{.Marker}}: {{.Name}}
# A pre-existing hook is preserved as {{.Name}}.pre-devxp and runs first.
if [ -x "$0.pre-devxp" ]; then
  "$0.pre-devxp" "$@" || exit $?
fi
{{if .Guard}}{{.Guard}} || exit 0
{{end}}{{.Binary}} record {{.Activity}} --quiet >/dev/null 2>&1 &
exit 0
`))

var shellTmpls = map[string]*template.Template{
	"bash": template.Must(template.New("bash").Parse(`# {{.Marker}}: bash integration
# Add to ~/.bashrc:  eval "$({{.Binary}} shellinit bash)"
__devxp_record() {
  [ -n "$COMP_LINE" ] && return
  [ -z "$__devxp_armed" ] && return
  __devxp_armed=""
  ({{.Binary}} record command_run --quiet >/dev/null 2>&1 &)
}
__devxp_arm() { __devxp_armed=1; }
trap '__devxp_record' DEBUG
PROMPT_COMMAND="__devxp_arm${PROMPT_COMMAND:+;$PROMPT_COMMAND}"
`)),
	"zsh": template.Must(template.New("zsh").Parse(`# {{.Marker}}: zsh integration
# Add to ~/.zshrc:  eval "$({{.Binary}} shellinit zsh)"
__devxp_record() {
  ({{.Binary}} record command_run --quiet >/dev/null 2>&1 &)
}
autoload -Uz add-zsh-hook
add-zsh-hook preexec __devxp_record
`)),
	"fish": template.Must(template.New("fish").Parse(`# {{.Marker}}: fish integration
# Add to ~/.config/fish/config.fish:  {{.Binary}} shellinit fish | source
function __devxp_record --on-event fish_preexec
  {{.Binary}} record command_run --quiet >/dev/null 2>&1 &
end
`)),
}

type tmplData struct {
	Marker   string
	Name     string
	Activity string
	Guard    string
	Binary   string
}

// RenderGitHook renders the script body for one managed hook.
func RenderGitHook(h GitHook) (string, error) {
	var buf bytes.Buffer
	err := gitHookTmpl.Execute(&buf, tmplData{
		Marker:   marker,
		Name:     h.Name,
		Activity: h.Activity,
		Guard:    h.Guard,
		Binary:   binaryName,
	})
	if err != nil {
		return "", fmt.Errorf("render %s: %w", h.Name, err)
	}
	return buf.String(), nil
}

// RenderShellInit returns the preexec integration snippet for a shell.
// Supported shells: bash, zsh, fish.
func RenderShellInit(shell string) (string, error) {
	tmpl, ok := shellTmpls[shell]
	if !ok {
		return "", fmt.Errorf("unsupported shell %q (want bash, zsh, or fish)", shell)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, tmplData{Marker: marker, Binary: binaryName}); err != nil {
		return "", fmt.Errorf("render %s init: %w", shell, err)
	}
	return buf.String(), nil
}

// FindGitDir walks up from dir looking for a .git directory.
func FindGitDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		gitPath := filepath.Join(abs, ".git")
		if info, err := os.Stat(gitPath); err == nil && info.IsDir() {
			return gitPath, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no git repository found above %s", dir)
		}
		abs = parent
	}
}

// Install writes every managed hook into gitDir/hooks and returns the paths
// written. A pre-existing hook that devxp does not own is moved aside to
// <hook>.pre-devxp and chained; reinstalling over devxp's own hooks just
// rewrites them.
func Install(gitDir string) ([]string, error) {
	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return nil, fmt.Errorf("create hooks dir: %w", err)
	}

	var written []string
	for _, h := range GitHooks {
		path := filepath.Join(hooksDir, h.Name)
		if err := installOne(path, h); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func installOne(path string, h GitHook) error {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil && !strings.Contains(string(existing), marker):
		// Someone else's hook. Move it aside so ours can chain it.
		chained := path + ".pre-devxp"
		if _, err := os.Stat(chained); err == nil {
			return fmt.Errorf("both %s and %s exist; resolve manually", path, chained)
		}
		if err := os.Rename(path, chained); err != nil {
			return fmt.Errorf("preserve existing %s: %w", h.Name, err)
		}
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("inspect %s: %w", h.Name, err)
	}

	script, err := RenderGitHook(h)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		return fmt.Errorf("write %s: %w", h.Name, err)
	}
	return nil
}
