package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// freePort picks an available TCP port on localhost.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary build in -short mode")
	}
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/cmd/qchemd/blackbox_test.go
	root := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	bin := filepath.Join(t.TempDir(), "qchemd")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/qchemd")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}
	return bin
}

func startServer(t *testing.T, bin, workDir string) string {
	t.Helper()
	port := freePort(t)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	cmd := exec.Command(bin, "serve",
		"--addr", fmt.Sprintf("127.0.0.1:%d", port),
		"--work-dir", workDir,
		"--python", filepath.Join(workDir, "no-such-python"),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { _ = cmd.Process.Kill(); _ = cmd.Wait() })

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return base
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, r)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackboxFlow(t *testing.T) {
	bin := buildBinary(t)
	workDir := t.TempDir()
	for _, n := range []string{"h2.hdf5", "lih.h5", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(workDir, n), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
	base := startServer(t, bin, workDir)

	resp, body := do(t, http.MethodGet, base+"/drivers", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/drivers %d %s", resp.StatusCode, body)
	}
	var drivers struct {
		Drivers []struct {
			Name string `json:"name"`
		} `json:"drivers"`
	}
	if err := json.Unmarshal(body, &drivers); err != nil {
		t.Fatalf("/drivers json: %v body=%s", err, body)
	}
	if len(drivers.Drivers) != 2 {
		t.Fatalf("expected 2 drivers, got %s", body)
	}

	resp, body = do(t, http.MethodGet, base+"/molecules", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/molecules %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "h2.hdf5") || !strings.Contains(string(body), "lih.h5") || strings.Contains(string(body), "notes.txt") {
		t.Fatalf("/molecules unexpected body %s", body)
	}

	resp, body = do(t, http.MethodGet, base+"/drivers/pyquante/schema", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "6-31g**") {
		t.Fatalf("/schema %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodGet, base+"/metrics", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "qchemd_http_requests_total") {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
}

func TestBlackboxRunErrors(t *testing.T) {
	bin := buildBinary(t)
	base := startServer(t, bin, t.TempDir())

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"missing hdf5 file", "/drivers/hdf5/run", `{"options":{"hdf5_input":"absent.hdf5"}}`, http.StatusNotFound},
		{"input outside work dir", "/drivers/hdf5/run", `{"options":{"hdf5_input":"../outside.hdf5"}}`, http.StatusBadRequest},
		{"unknown driver", "/drivers/gaussian/run", `{}`, http.StatusNotFound},
		{"bad basis", "/drivers/pyquante/run", `{"options":{"basis":"cc-pvdz"}}`, http.StatusBadRequest},
		{"missing interpreter", "/drivers/pyquante/run", `{}`, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, base+tc.path, tc.body)
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, resp.StatusCode, body)
			}
		})
	}
}
