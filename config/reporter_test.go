package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	stored := filepath.Join(dir, "stylo.log")
	if err := os.WriteFile(stored, []byte("log line\n"), 0644); err != nil {
		t.Fatal(err)
	}
	r.Store("final.log", stored)
	r.Store("missing.log", filepath.Join(dir, "missing.log"))
	r.StoreData("scope-default.css", []byte(".btn {}\n"))
	r.StoreData("scope-default.css", []byte(".btn {}\n.late {}\n"))

	if r.Name() != conf.Destination {
		t.Errorf("Name() = %q, want %q", r.Name(), conf.Destination)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readArchive(t, conf.Destination)
	if files["final.log"] != "log line\n" {
		t.Errorf("final.log = %q", files["final.log"])
	}
	if _, ok := files["missing.log"]; ok {
		t.Error("absent file archived")
	}
	if files["scope-default.css"] != ".btn {}\n" {
		t.Errorf("scope-default.css = %q", files["scope-default.css"])
	}
	if files["scope-default.css-2"] != ".btn {}\n.late {}\n" {
		t.Errorf("scope-default.css-2 = %q", files["scope-default.css-2"])
	}
	if !strings.Contains(files["MANIFEST"], "final.log") {
		t.Errorf("MANIFEST missing entries:\n%s", files["MANIFEST"])
	}
}

func TestReportStoreConflict(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("a", "/tmp/one")
	r.Store("a", "/tmp/one")
	defer func() {
		if recover() == nil {
			t.Error("Store() with different path should panic")
		}
	}()
	r.Store("a", "/tmp/two")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
	if r.Name() != "" {
		t.Error("nil report has a name")
	}
}

func TestPrepareManifest_NaturalOrder(t *testing.T) {
	entries := map[string]entry{
		"layers.txt-10": {data: []byte("c")},
		"layers.txt-2":  {data: []byte("b")},
		"layers.txt":    {data: []byte("a")},
	}
	names, _ := prepareManifest(entries)
	want := []string{"layers.txt", "layers.txt-2", "layers.txt-10"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("prepareManifest() order = %v, want %v", names, want)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
