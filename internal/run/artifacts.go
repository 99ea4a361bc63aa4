package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Artifact is one output file. Write receives the open file.
type Artifact struct {
	Name  string
	Path  string
	Write func(f *os.File) error
}

// WriteArtifacts writes every artifact concurrently and returns the first
// error. Each file is complete or absent: it is written next to its final
// path and renamed into place.
func WriteArtifacts(ctx context.Context, artifacts []Artifact) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, a := range artifacts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := writeFile(a); err != nil {
				return fmt.Errorf("run: write %s: %w", a.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func writeFile(a Artifact) error {
	if err := os.MkdirAll(filepath.Dir(a.Path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(a.Path), "."+filepath.Base(a.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := a.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), a.Path)
}
