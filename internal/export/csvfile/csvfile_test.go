package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"attendkiosk/internal/export"
)

func TestPublish_WritesRowsInOrder(t *testing.T) {
	dir := t.TempDir()
	sink := New(dir)

	rows := []export.Row{
		{Name: "Ben", Email: "b@x.com", TimeIn: "2024-01-01T08:00:00Z"},
		{Name: "Ann", Email: "a@x.com", TimeIn: "2024-01-01T09:00:00Z"},
	}
	if err := sink.Publish(context.Background(), "2024-01-01", rows); err != nil {
		t.Fatalf("publish: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "2024-01-01.csv"))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0][0] != "Ben" || records[1][0] != "Ann" {
		t.Errorf("unexpected order: %v", records)
	}
	if records[1][1] != "a@x.com" || records[1][2] != "2024-01-01T09:00:00Z" {
		t.Errorf("unexpected columns: %v", records[1])
	}
}

func TestPublish_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	sink := New(dir)

	err := sink.Publish(context.Background(), "2024-01-01", []export.Row{
		{Name: "Ann", Email: "a@x.com", TimeIn: "2024-01-01T09:00:00Z"},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2024-01-01.csv")); err != nil {
		t.Errorf("expected export file: %v", err)
	}
}

func TestPublish_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	sink := New(dir)

	if err := sink.Publish(context.Background(), "2024-01-01", nil); err != nil {
		t.Fatalf("publish: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestPublish_CancelledContext(t *testing.T) {
	sink := New(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sink.Publish(ctx, "2024-01-01", nil); err == nil {
		t.Error("expected error for cancelled context")
	}
}
