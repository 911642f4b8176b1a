package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xwui-dev/xwui/internal/config"
	"github.com/xwui-dev/xwui/internal/errors"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderDefaultPage(t *testing.T) {
	out, _, err := execute(t, "render", "-c", t.TempDir())
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, want := range []string{"<title>XWUI App (home)</title>", "<h1 class=\"xwui-title\">Hello</h1>", "xwui-event-dispatcher"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderToFileWithConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "xwui.yaml"), []byte("title: Site\nstorage:\n  backend: bolt\nlog:\n  level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "user.html")

	_, stderr, err := execute(t, "render", "-c", dir, "/users/3?tab=posts", "-o", out)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(stderr, "Wrote "+out) {
		t.Errorf("stderr = %q", stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<td>posts</td>") || !strings.Contains(string(data), "<title>Site (user)</title>") {
		t.Errorf("file = %s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, config.DefaultBoltPath)); err != nil {
		t.Errorf("bolt storage not opened: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := execute(t, "render", "-c", dir, "/missing"); !errors.HasCode(err, "X003") {
		t.Errorf("unmatched path error = %v", err)
	}
	if _, _, err := execute(t, "render", "-c", dir, "relative"); !errors.HasCode(err, "X400") {
		t.Errorf("relative path error = %v", err)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := execute(t, "init", "-c", dir); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFile(filepath.Join(dir, "xwui.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	if _, _, err := execute(t, "init", "-c", dir); !errors.HasCode(err, "X400") {
		t.Errorf("second init error = %v", err)
	}
	if _, _, err := execute(t, "init", "-c", dir, "--force", "--format", "json"); err != nil {
		t.Errorf("forced json init: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}

func TestServe(t *testing.T) {
	cfg := config.New()
	cfg.Log.Level = "error"
	s, err := newSite(cfg, "http://localhost/", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	defer s.close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, s, nil) }()

	base := "http://" + ln.Addr().String()
	resp, err := http.Get(base + "/about")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<h1 class=\"xwui-title\">About</h1>") {
		t.Errorf("GET /about = %d %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
