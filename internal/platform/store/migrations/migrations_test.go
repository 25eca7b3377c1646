package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"memorial/internal/platform/testkit"

	"github.com/pressly/goose/v3"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 migrations, got %v", names)
	}
	for _, n := range names {
		b, err := FS.ReadFile(n)
		if err != nil {
			t.Fatal(err)
		}
		body := string(b)
		testkit.MustContain(t, body, "-- +goose Up")
		testkit.MustContain(t, body, "-- +goose Down")
	}

	wishes, _ := FS.ReadFile("00001_wishes.sql")
	testkit.MustContain(t, string(wishes), "pg_notify('wishes_insert'")
	testkit.MustContain(t, string(wishes), "wish_text")
	candles, _ := FS.ReadFile("00002_candles.sql")
	testkit.MustContain(t, string(candles), "pg_notify('candles_insert'")
}

func TestUpDB_UsesRootOfEmbeddedFS(t *testing.T) {
	testkit.Serial(t)

	var gotDir string
	testkit.Swap(t, &upContext, func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	})
	if err := UpDB(context.Background(), nil); err != nil {
		t.Fatalf("UpDB: %v", err)
	}
	if gotDir != "." {
		t.Fatalf("dir = %q", gotDir)
	}
}

func TestUpDB_PropagatesError(t *testing.T) {
	testkit.Serial(t)

	testkit.Swap(t, &upContext, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	})
	err := UpDB(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected boom, got %v", err)
	}
}
