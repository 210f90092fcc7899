package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReport_Finalize(t *testing.T) {
	tmpDir := t.TempDir()

	stored := filepath.Join(tmpDir, "stage.html")
	if err := os.WriteFile(stored, []byte("<div>x</div>"), 0644); err != nil {
		t.Fatalf("failed to write stored file: %v", err)
	}

	conf := &ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	r.Store("markup.html", stored)
	r.StoreData("stylesheet.css", []byte(".hl { color: teal; }"))
	r.StoreData("stylesheet.css", []byte(":root { --a: 1; }")) // versioned, not overwritten
	r.Store("missing.log", filepath.Join(tmpDir, "no-such-file"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("report is not a readable archive: %v", err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}

	if !names["MANIFEST"] {
		t.Error("archive is missing MANIFEST")
	}
	if !names["markup.html"] {
		t.Error("archive is missing stored file entry")
	}
	if !names["stylesheet.css"] {
		t.Error("archive is missing stored data entry")
	}
	if names["missing.log"] {
		t.Error("absent files should be silently skipped")
	}

	versioned := 0
	for n := range names {
		if strings.HasPrefix(n, "stylesheet.css") {
			versioned++
		}
	}
	if versioned != 2 {
		t.Errorf("expected 2 versioned stylesheet entries, got %d", versioned)
	}

	for _, f := range zr.File {
		if f.Name != "markup.html" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open archive entry: %v", err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if string(data) != "<div>x</div>" {
			t.Errorf("archive content = %q, want original file content", string(data))
		}
	}
}

func TestReport_NilSafe(t *testing.T) {
	var r *Report

	// all operations on a nil report are no-ops
	r.Store("a", "b")
	r.StoreData("c", []byte("d"))
	if n := r.Name(); n != "" {
		t.Errorf("Name() on nil report = %q, want empty", n)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() on nil report error = %v", err)
	}
}

func TestReport_StoreSamePathTwice(t *testing.T) {
	tmpDir := t.TempDir()
	conf := &ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer r.Close()

	// same name with same path is allowed
	r.Store("final.log", "/tmp/some.log")
	r.Store("final.log", "/tmp/some.log")

	defer func() {
		if recover() == nil {
			t.Error("expected panic when overwriting entry with different path")
		}
	}()
	r.Store("final.log", "/tmp/other.log")
}
