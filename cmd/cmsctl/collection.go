package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bilgisen/visacms/internal/admin"
	"github.com/bilgisen/visacms/internal/client"
	"github.com/bilgisen/visacms/internal/models"
)

var errUsage = errors.New("usage")

// fields binds the editable fields of one record kind to command line flags
type fields[R admin.Record] interface {
	register(fs *flag.FlagSet)
	// apply overlays the flags that were set on base
	apply(ctx context.Context, base R, set map[string]bool) (R, error)
	// withSlug sets the key requested on add
	withSlug(rec R, slug string) R
	columns() []string
	row(rec R) []string
	// detail renders one record for reading in a terminal
	detail(rec R) (string, error)
}

func runCollection[R admin.Record](ctx context.Context, ctrl *admin.Controller[R], f fields[R], out printer, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "missing action: list, show, add, update or delete")
		return errUsage
	}
	action, args := args[0], args[1:]

	fs := flag.NewFlagSet(action, flag.ContinueOnError)
	slug := fs.String("slug", "", "key of the record")
	if action == "add" || action == "update" {
		f.register(fs)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}

	switch action {
	case "list":
		return printEntries[R](out, ctrl.Entries(), f)

	case "show":
		if *slug == "" {
			fmt.Fprintln(os.Stderr, "-slug is required")
			return errUsage
		}
		for _, e := range ctrl.Entries() {
			if e.Record.RecordKey() != *slug {
				continue
			}
			if out.json {
				return writeJSON(out.w, e.Record)
			}
			text, err := f.detail(e.Record)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out.w, text)
			return err
		}
		return fmt.Errorf("%s: %w", *slug, models.ErrNotFound)

	case "add":
		var zero R
		draft, err := f.apply(ctx, zero, set)
		if err != nil {
			return err
		}
		if *slug != "" {
			draft = f.withSlug(draft, *slug)
		}
		ctrl.SetDraft(draft)
		saved, err := ctrl.Submit(ctx)
		printNotices(ctrl.Notices())
		if err != nil {
			return err
		}
		return printRecord[R](out, saved, f)

	case "update":
		if *slug == "" {
			fmt.Fprintln(os.Stderr, "-slug is required")
			return errUsage
		}
		if err := ctrl.SelectForEdit(*slug); err != nil {
			return fmt.Errorf("%s: %w", *slug, err)
		}
		draft, err := f.apply(ctx, ctrl.Form().Draft, set)
		if err != nil {
			return err
		}
		ctrl.SetDraft(draft)
		saved, err := ctrl.Submit(ctx)
		printNotices(ctrl.Notices())
		if err != nil {
			return err
		}
		return printRecord[R](out, saved, f)

	case "delete":
		if *slug == "" {
			fmt.Fprintln(os.Stderr, "-slug is required")
			return errUsage
		}
		err := ctrl.Delete(ctx, *slug)
		printNotices(ctrl.Notices())
		return err
	}

	fmt.Fprintf(os.Stderr, "unknown action %q\n", action)
	return errUsage
}

func printNotices(notices []admin.Notice) {
	for _, n := range notices {
		fmt.Fprintln(os.Stderr, n.Message)
	}
}

// readText returns the value of a flag, or the file contents when the value starts with @
func readText(v string) (string, error) {
	if !strings.HasPrefix(v, "@") {
		return v, nil
	}
	data, err := os.ReadFile(v[1:])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", v[1:], err)
	}
	return string(data), nil
}

func uploadFile(ctx context.Context, api *client.Client, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return api.Upload(ctx, filepath.Base(path), f)
}

// stdinConfirmer asks on the terminal; anything but y or yes declines
type stdinConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (s stdinConfirmer) Confirm(ctx context.Context, prompt string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
