package main

// Notes:
// - CLI tests run the real conversion pipeline against t.TempDir fixtures;
//   only stdout/stderr are stubbed through Environment.
// - Progress is disabled in tests so pterm's renderer never writes ANSI
//   control sequences into the capture buffers.

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/5ime/mht2html/internal/config"
)

// fixtureMHT is a minimal two-part archive: an HTML root with one styled
// message and one embedded image.
func fixtureMHT(t *testing.T) string {
	t.Helper()

	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01})
	raw := strings.Join([]string{
		"From: <Saved by Tencent>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/related; boundary="frag"`,
		"",
		"--frag",
		"Content-Type: text/html; charset=utf-8",
		"",
		`<html><head></head><body><div style="color:red;"><img src="cid:pic"></div></body></html>`,
		"--frag",
		"Content-Type: image/png",
		"Content-Transfer-Encoding: base64",
		"Content-ID: <pic>",
		"Content-Location: photo.dat",
		"",
		payload,
		"--frag--",
		"",
	}, "\r\n")

	path := filepath.Join(t.TempDir(), "chat.mht")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{Stdout: &stdout, Stderr: &stderr, Config: config.Default()}, &stdout, &stderr
}

func quietFlags() *cliFlags {
	return &cliFlags{noProgress: true, quiet: true}
}

// ---------------------------------------------------------------------------
// TestRunConvert - end-to-end CLI conversion
// ---------------------------------------------------------------------------

func TestRunConvert(t *testing.T) {
	t.Parallel()

	mhtPath := fixtureMHT(t)
	outPath := filepath.Join(t.TempDir(), "out", "chat.html")
	env, stdout, _ := testEnv()
	flags := &cliFlags{noProgress: true}

	err := runConvert(context.Background(), []string{mhtPath, outPath}, flags, env)
	if err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	html, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(html), "images/photo.png") {
		t.Error("output HTML does not reference the extracted resource")
	}
	if !strings.Contains(string(html), "i-style-1") {
		t.Error("output HTML has no hoisted style class")
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(outPath), "images", "photo.png")); err != nil {
		t.Errorf("extracted resource missing: %v", err)
	}

	if !strings.Contains(stdout.String(), "Created "+outPath) {
		t.Errorf("stdout = %q, want a Created line", stdout.String())
	}
}

func TestRunConvertQuiet(t *testing.T) {
	t.Parallel()

	mhtPath := fixtureMHT(t)
	outPath := filepath.Join(t.TempDir(), "chat.html")
	env, stdout, _ := testEnv()

	if err := runConvert(context.Background(), []string{mhtPath, outPath}, quietFlags(), env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty with --quiet", stdout.String())
	}
}

func TestRunConvertVerbose(t *testing.T) {
	t.Parallel()

	mhtPath := fixtureMHT(t)
	outPath := filepath.Join(t.TempDir(), "chat.html")
	env, stdout, _ := testEnv()
	flags := &cliFlags{noProgress: true, verbose: true}

	if err := runConvert(context.Background(), []string{mhtPath, outPath}, flags, env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	for _, want := range []string{"Resources extracted: 1", "Style rules hoisted: 1", "Duration:"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRunConvertResourceDirFlag(t *testing.T) {
	t.Parallel()

	mhtPath := fixtureMHT(t)
	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "chat.html")
	env, _, _ := testEnv()
	flags := quietFlags()
	flags.dir = "assets"

	if err := runConvert(context.Background(), []string{mhtPath, outPath}, flags, env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "assets", "photo.png")); err != nil {
		t.Errorf("resource not in --dir directory: %v", err)
	}
}

func TestRunConvertWithConfig(t *testing.T) {
	t.Parallel()

	mhtPath := fixtureMHT(t)
	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "chat.html")

	cfgPath := filepath.Join(t.TempDir(), "conv.yaml")
	if err := os.WriteFile(cfgPath, []byte("resourceDir: media\nworkers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, _, _ := testEnv()
	flags := quietFlags()
	flags.config = cfgPath

	if err := runConvert(context.Background(), []string{mhtPath, outPath}, flags, env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "media", "photo.png")); err != nil {
		t.Errorf("resource not in configured directory: %v", err)
	}
}

func TestRunConvertFlagOverridesConfig(t *testing.T) {
	t.Parallel()

	mhtPath := fixtureMHT(t)
	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "chat.html")

	cfgPath := filepath.Join(t.TempDir(), "conv.yaml")
	if err := os.WriteFile(cfgPath, []byte("resourceDir: media\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, _, _ := testEnv()
	flags := quietFlags()
	flags.config = cfgPath
	flags.dir = "assets"

	if err := runConvert(context.Background(), []string{mhtPath, outPath}, flags, env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "assets", "photo.png")); err != nil {
		t.Errorf("flag did not override config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "media")); !os.IsNotExist(err) {
		t.Error("configured directory was still created")
	}
}

func TestRunConvertErrors(t *testing.T) {
	t.Parallel()

	mhtPath := fixtureMHT(t)
	outPath := filepath.Join(t.TempDir(), "chat.html")

	tests := []struct {
		name    string
		args    []string
		flags   *cliFlags
		wantErr error
	}{
		{
			name:    "no args",
			args:    nil,
			flags:   quietFlags(),
			wantErr: ErrInvalidArgs,
		},
		{
			name:    "one arg",
			args:    []string{mhtPath},
			flags:   quietFlags(),
			wantErr: ErrInvalidArgs,
		},
		{
			name:    "three args",
			args:    []string{mhtPath, outPath, "extra"},
			flags:   quietFlags(),
			wantErr: ErrInvalidArgs,
		},
		{
			name:    "missing input file",
			args:    []string{filepath.Join(t.TempDir(), "absent.mht"), outPath},
			flags:   quietFlags(),
			wantErr: ErrReadArchive,
		},
		{
			name: "negative workers",
			args: []string{mhtPath, outPath},
			flags: func() *cliFlags {
				f := quietFlags()
				f.work = -1
				return f
			}(),
			wantErr: ErrInvalidWorkerCount,
		},
		{
			name: "workers above cap",
			args: []string{mhtPath, outPath},
			flags: func() *cliFlags {
				f := quietFlags()
				f.work = MaxWorkers + 1
				return f
			}(),
			wantErr: ErrInvalidWorkerCount,
		},
		{
			name: "missing config",
			args: []string{mhtPath, outPath},
			flags: func() *cliFlags {
				f := quietFlags()
				f.config = filepath.Join(t.TempDir(), "absent.yaml")
				return f
			}(),
			wantErr: config.ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv()
			err := runConvert(context.Background(), tt.args, tt.flags, env)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("runConvert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - flag/config precedence
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags cliFlags
		cfg   config.Config
		want  config.Config
	}{
		{
			name: "flags win over config",
			flags: cliFlags{
				dir: "assets", work: 8, placeholder: "[gone]", selector: "p.msg",
			},
			cfg:  config.Config{ResourceDir: "media", Workers: 2, Placeholder: "x", RecordSelector: "div"},
			want: config.Config{ResourceDir: "assets", Workers: 8, Placeholder: "[gone]", RecordSelector: "p.msg"},
		},
		{
			name: "unset flags keep config",
			cfg:  config.Config{ResourceDir: "media", Workers: 2},
			want: config.Config{ResourceDir: "media", Workers: 2},
		},
		{
			name: "both unset stays zero",
			want: config.Config{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			mergeFlags(&tt.flags, &cfg)
			if cfg != tt.want {
				t.Errorf("merged = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestServiceOptionsFromConfig(t *testing.T) {
	t.Parallel()

	// Only set fields become options; unset ones fall through to the
	// library defaults.
	if got := serviceOptions(&config.Config{}, 2); len(got) != 1 {
		t.Errorf("len(options) = %d, want 1 for zero config", len(got))
	}
	full := &config.Config{Placeholder: "[x]", RecordSelector: "div"}
	if got := serviceOptions(full, 2); len(got) != 3 {
		t.Errorf("len(options) = %d, want 3 for full config", len(got))
	}
}
