package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/storebox/internal/client/api"
)

// readFileFn is a test seam for os.ReadFile.
var readFileFn = os.ReadFile

// List fetches the user's files, optionally narrowed to categories, and
// prints them one per line.
func (a *App) List(ctx context.Context) error {
	typeFilter, err := getSimpleText(a.reader, "Filter by type (image, document, video, audio, other; comma separated, empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	opts := api.ListOptions{}
	if typeFilter != "" {
		opts.Types = splitList(typeFilter)
	}

	files, err := a.api.ListFiles(ctx, opts)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if len(files) == 0 {
		printlnFn("No files.")
		return nil
	}
	for _, f := range files {
		printlnFn(fmt.Sprintf("%s  %-10s %10s  %s", f.ID, f.Type, humanSize(f.Size), f.Name))
	}
	return nil
}

// Upload reads a local file and sends it to the server.
func (a *App) Upload(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter file path", os.Stdout)
	if err != nil {
		return err
	}

	data, err := readFileFn(path)
	if err != nil {
		log.Printf("error reading file: %s", err.Error())
		return err
	}

	f, err := a.api.UploadFile(ctx, filepath.Base(path), data)
	if err != nil {
		log.Printf("Upload unsuccessful: %s", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Uploaded %s (%s, %s), id %s", f.Name, f.Type, humanSize(f.Size), f.ID))
	return nil
}

// Rename asks for a file ID and a new name and applies the change. The
// server keeps the file's extension.
func (a *App) Rename(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter file id", os.Stdout)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter new name (without extension)", os.Stdout)
	if err != nil {
		return err
	}

	f, err := a.api.RenameFile(ctx, id, name)
	if err != nil {
		log.Printf("Rename unsuccessful: %s", err.Error())
		return err
	}

	printlnFn("Renamed to " + f.Name)
	return nil
}

// Share asks for a file ID and a list of emails and replaces the file's
// share list with it. An empty list makes the file private again.
func (a *App) Share(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter file id", os.Stdout)
	if err != nil {
		return err
	}
	emails, err := getSimpleText(a.reader, "Share with (comma separated emails, empty for nobody)", os.Stdout)
	if err != nil {
		return err
	}

	f, err := a.api.UpdateSharing(ctx, id, splitList(emails))
	if err != nil {
		log.Printf("Share update unsuccessful: %s", err.Error())
		return err
	}

	if len(f.SharedWith) == 0 {
		printlnFn("File is now private.")
	} else {
		printlnFn("Shared with: " + strings.Join(f.SharedWith, ", "))
	}
	return nil
}

// Delete asks for a file ID and removes the file.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter file id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.DeleteFile(ctx, id); err != nil {
		log.Printf("Delete unsuccessful: %s", err.Error())
		return err
	}

	printlnFn("Deleted.")
	return nil
}

// Usage prints the per-category storage summary.
func (a *App) Usage(ctx context.Context) error {
	s, err := a.api.UsageSummary(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("images:    %10s  last upload %s", humanSize(s.Image.Size), formatDate(s.Image.LatestDate)))
	printlnFn(fmt.Sprintf("documents: %10s  last upload %s", humanSize(s.Document.Size), formatDate(s.Document.LatestDate)))
	printlnFn(fmt.Sprintf("videos:    %10s  last upload %s", humanSize(s.Video.Size), formatDate(s.Video.LatestDate)))
	printlnFn(fmt.Sprintf("audio:     %10s  last upload %s", humanSize(s.Audio.Size), formatDate(s.Audio.LatestDate)))
	printlnFn(fmt.Sprintf("other:     %10s  last upload %s", humanSize(s.Other.Size), formatDate(s.Other.LatestDate)))
	printlnFn(fmt.Sprintf("used %s of %s", humanSize(s.Used), humanSize(s.All)))
	return nil
}
