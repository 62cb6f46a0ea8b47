package updater

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// --- version helpers ---

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"v1.2.3", "1.2.3"},
		{"1.2.3", "1.2.3"},
		{"", ""},
		{"v", ""},
		{"vv1.0.0", "v1.0.0"}, // only one leading v
	}
	for _, tt := range tests {
		if got := normalizeVersion(tt.input); got != tt.want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer patch", "0.2.0", "0.2.1", true},
		{"newer minor", "0.2.0", "0.3.0", true},
		{"newer major", "0.2.0", "1.0.0", true},
		{"same version", "0.2.0", "0.2.0", false},
		{"older version", "0.3.0", "0.2.0", false},
		{"empty current", "", "0.2.0", false},
		{"empty latest", "0.2.0", "", false},
		{"dev current", "dev", "0.2.0", false},
		{"two part current", "0.2", "0.3.0", true},
		{"two part latest", "0.2.0", "0.3", true},
		{"minor beyond nine", "0.9.0", "0.10.0", true},
		{"prerelease suffix", "1.0.0", "1.0.1rc1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNewer(tt.current, tt.latest); got != tt.want {
				t.Errorf("isNewer(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
			}
		})
	}
}

func TestLeadingInt(t *testing.T) {
	tests := map[string]int{"0": 0, "42": 42, "": 0, "abc": 0, "3rc1": 3}
	for in, want := range tests {
		if got := leadingInt(in); got != want {
			t.Errorf("leadingInt(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestBuildAssetName(t *testing.T) {
	ext := "tar.gz"
	if runtime.GOOS == "windows" {
		ext = "zip"
	}
	want := "computor_0.3.0_" + runtime.GOOS + "_" + runtime.GOARCH + "." + ext
	if got := buildAssetName("0.3.0"); got != want {
		t.Errorf("buildAssetName = %q, want %q", got, want)
	}
}

// --- fixtures ---

func tarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o755, Size: int64(len(content)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatalf("tar header: %v", err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatalf("tar body: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func zipArchive(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// releaseServer serves a release at / and the given archive at /download/<asset>.
func releaseServer(t *testing.T, tag string, archive []byte) *httptest.Server {
	t.Helper()
	asset := buildAssetName(normalizeVersion(tag))
	mux := http.NewServeMux()
	mux.HandleFunc("/download/"+asset, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ReleaseInfo{
			TagName: tag,
			HTMLURL: "https://github.com/HendryAvila/computor/releases/tag/" + tag,
			Assets: []Asset{{
				Name:               asset,
				BrowserDownloadURL: "http://" + r.Host + "/download/" + asset,
			}},
		})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func statusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// withTestServer points the updater at ts until the test finishes.
func withTestServer(t *testing.T, ts *httptest.Server) {
	t.Helper()
	origEndpoint, origClient := releaseEndpoint, httpClient
	releaseEndpoint = ts.URL
	httpClient = ts.Client()
	t.Cleanup(func() {
		releaseEndpoint = origEndpoint
		httpClient = origClient
	})
}

// withExecutable makes SelfUpdate replace a temp file instead of the test binary.
func withExecutable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), binaryName)
	if err := os.WriteFile(path, []byte("old binary"), 0o755); err != nil {
		t.Fatalf("creating fake binary: %v", err)
	}
	orig := executablePath
	executablePath = func() (string, error) { return path, nil }
	t.Cleanup(func() { executablePath = orig })
	return path
}

// --- CheckVersion ---

func TestCheckVersion_UpdateAvailable(t *testing.T) {
	withTestServer(t, releaseServer(t, "v0.3.0", nil))

	result := CheckVersion(context.Background(), "v0.2.0")
	if !result.UpdateAvailable {
		t.Error("expected UpdateAvailable")
	}
	if result.LatestVersion != "0.3.0" || result.CurrentVersion != "0.2.0" {
		t.Errorf("versions = %q/%q", result.CurrentVersion, result.LatestVersion)
	}
	if result.ReleaseURL != "https://github.com/HendryAvila/computor/releases/tag/v0.3.0" {
		t.Errorf("ReleaseURL = %q", result.ReleaseURL)
	}
}

func TestCheckVersion_NoUpdate(t *testing.T) {
	withTestServer(t, releaseServer(t, "v0.2.0", nil))
	if CheckVersion(context.Background(), "v0.2.0").UpdateAvailable {
		t.Error("same version reported as update")
	}
	if CheckVersion(context.Background(), "dev").UpdateAvailable {
		t.Error("dev builds must never report updates")
	}
}

func TestCheckVersion_Failures(t *testing.T) {
	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closed.Close()

	for name, ts := range map[string]*httptest.Server{
		"network error": closed,
		"forbidden":     statusServer(t, http.StatusForbidden),
	} {
		t.Run(name, func(t *testing.T) {
			withTestServer(t, ts)
			result := CheckVersion(context.Background(), "v0.2.0")
			if result.UpdateAvailable || result.CurrentVersion != "0.2.0" {
				t.Errorf("result = %+v", result)
			}
		})
	}
}

func TestCheckVersion_CancelledContext(t *testing.T) {
	withTestServer(t, releaseServer(t, "v9.0.0", nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if CheckVersion(ctx, "v0.1.0").UpdateAvailable {
		t.Error("cancelled check should not report an update")
	}
}

// --- SelfUpdate ---

func TestSelfUpdate_ReplacesExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("release archives are zip on Windows; covered by extraction tests")
	}
	newBinary := []byte("#!/bin/sh\necho updated\n")
	withTestServer(t, releaseServer(t, "v0.3.0", tarGz(t, "computor_0.3.0/computor", newBinary)))
	path := withExecutable(t)

	version, err := SelfUpdate(context.Background(), "v0.2.0")
	if err != nil {
		t.Fatalf("SelfUpdate: %v", err)
	}
	if version != "0.3.0" {
		t.Errorf("version = %q", version)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading replaced binary: %v", err)
	}
	if !bytes.Equal(got, newBinary) {
		t.Errorf("binary = %q, want %q", got, newBinary)
	}
	if _, err := os.Stat(path + ".new"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestSelfUpdate_UpToDate(t *testing.T) {
	withTestServer(t, releaseServer(t, "v0.2.0", nil))
	_, err := SelfUpdate(context.Background(), "v0.2.0")
	if !errors.Is(err, ErrUpToDate) {
		t.Fatalf("err = %v, want ErrUpToDate", err)
	}
}

func TestSelfUpdate_APIError(t *testing.T) {
	withTestServer(t, statusServer(t, http.StatusInternalServerError))
	if _, err := SelfUpdate(context.Background(), "v0.2.0"); err == nil {
		t.Fatal("expected error on API failure")
	}
}

func TestSelfUpdate_NoMatchingAsset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(ReleaseInfo{
			TagName: "v0.3.0",
			Assets:  []Asset{{Name: "computor_0.3.0_plan9_sparc.tar.gz", BrowserDownloadURL: "https://example.com/nope"}},
		})
	}))
	t.Cleanup(ts.Close)
	withTestServer(t, ts)
	path := withExecutable(t)

	if _, err := SelfUpdate(context.Background(), "v0.2.0"); err == nil {
		t.Fatal("expected error when no asset matches")
	}
	if got, _ := os.ReadFile(path); string(got) != "old binary" {
		t.Error("executable changed despite failure")
	}
}

// --- extraction ---

func TestExtractBinary(t *testing.T) {
	content := []byte("binary data")
	tests := []struct {
		name    string
		archive []byte
		asset   string
		wantErr bool
	}{
		{"tar.gz", tarGz(t, "computor", content), "computor_1.0.0_linux_amd64.tar.gz", false},
		{"tar.gz nested", tarGz(t, "dist/computor", content), "computor_1.0.0_linux_amd64.tar.gz", false},
		{"zip", zipArchive(t, "computor.exe", content), "computor_1.0.0_windows_amd64.zip", false},
		{"tar.gz missing binary", tarGz(t, "README.md", content), "computor_1.0.0_linux_amd64.tar.gz", true},
		{"zip missing binary", zipArchive(t, "LICENSE", content), "computor_1.0.0_windows_amd64.zip", true},
		{"not gzip", []byte("not gzip data"), "computor_1.0.0_linux_amd64.tar.gz", true},
		{"not zip", []byte("not zip data"), "computor_1.0.0_windows_amd64.zip", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := extractBinary(tt.archive, tt.asset)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("extractBinary: %v", err)
			}
			if !bytes.Equal(data, content) {
				t.Errorf("extracted = %q, want %q", data, content)
			}
		})
	}
}

func TestReplaceExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("rename-over semantics differ on Windows")
	}
	path := filepath.Join(t.TempDir(), "computor")
	if err := os.WriteFile(path, []byte("old"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := replaceExecutable(path, []byte("new")); err != nil {
		t.Fatalf("replaceExecutable: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("mode = %v, want executable", info.Mode())
	}
	if got, _ := os.ReadFile(path); string(got) != "new" {
		t.Errorf("content = %q", got)
	}
}
