package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nikosa/p2pflow/pkg/credentials"
)

func TestFileFetcherPrefersCanonicalName(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "alpha_statement_20200101-20200131.csv", "x")
	writeStatement(t, dir, "alpha_older_export.csv", "y")

	f := &FileFetcher{Dir: dir}
	path, err := f.Run(context.Background(), testDescriptor("Alpha"), credentials.Credentials{}, testRange(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(path); got != "alpha_statement_20200101-20200131.csv" {
		t.Errorf("picked %s", got)
	}
}

func TestFileFetcherPrefixFallback(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "Alpha-2020.csv", "x")
	writeStatement(t, dir, "bravo_statement.csv", "y")

	f := &FileFetcher{Dir: dir}
	path, err := f.Run(context.Background(), testDescriptor("Alpha"), credentials.Credentials{}, testRange(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(path); got != "Alpha-2020.csv" {
		t.Errorf("picked %s", got)
	}
}

func TestFileFetcherAmbiguous(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "alpha-1.csv", "x")
	writeStatement(t, dir, "alpha-2.csv", "y")

	f := &FileFetcher{Dir: dir}
	if _, err := f.Run(context.Background(), testDescriptor("Alpha"), credentials.Credentials{}, testRange(t)); err == nil {
		t.Error("Run succeeded with two candidate statements")
	}
}

func TestFileFetcherNoMatch(t *testing.T) {
	f := &FileFetcher{Dir: t.TempDir()}
	if _, err := f.Run(context.Background(), testDescriptor("Alpha"), credentials.Credentials{}, testRange(t)); err == nil {
		t.Error("Run succeeded with an empty statement directory")
	}
}
