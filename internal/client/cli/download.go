package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/filex"
)

// resolveLink turns a relative attachment link into an absolute URL on the
// API host.
func resolveLink(base, link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid attachment link %q: %w", link, err)
	}
	if ref.IsAbs() {
		return link, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(ref).String(), nil
}

// Download saves a prototype attachment. Without a target path the file is
// written to the export directory under its server-side name.
func (a *App) Download(ctx context.Context, args []string) error {
	const use = "download <id> report|source [path]"
	if len(args) < 2 || len(args) > 3 {
		return usage(use)
	}
	id, err := parseID(args[:1], use)
	if err != nil {
		return err
	}

	rec, ok := a.rowByID(id)
	if !ok {
		if rec, err = a.gateway.GetPrototype(ctx, id); err != nil {
			return err
		}
	}

	link, err := attachmentLink(rec, args[1])
	if err != nil {
		return err
	}
	full, err := resolveLink(a.config.APIBaseURL, link)
	if err != nil {
		return err
	}

	data, err := a.download(ctx, full)
	if err != nil {
		return err
	}

	target := ""
	if len(args) == 3 {
		target = args[2]
	} else {
		u, _ := url.Parse(full)
		target = filepath.Join(a.config.ExportDir, path.Base(u.Path))
	}
	if _, err := filex.EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}
	if err := filex.WriteFile(target, data); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(data), target)
	return nil
}

func attachmentLink(p models.Prototype, which string) (string, error) {
	var link string
	switch which {
	case "report":
		link = p.Attachment.ReportURL
	case "source":
		link = p.Attachment.SourceCodeURL
	default:
		return "", usage("download <id> report|source [path]")
	}
	if link == "" {
		return "", errors.New("prototype has no " + which + " attachment")
	}
	return link, nil
}
