// Package report renders duplicate groups for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"dupfind/internal/config"
	"dupfind/internal/finder"
	"dupfind/internal/verify"
)

type serializedGroup struct {
	Size      int64    `json:"size"`
	SizeHuman string   `json:"size_human"`
	Files     []string `json:"files"`
}

type serializedReport struct {
	Generator string            `json:"generator"`
	Created   time.Time         `json:"created"`
	Groups    []serializedGroup `json:"groups"`
}

// Write renders groups in the given format, keeping their order.
func Write(w io.Writer, groups []verify.Group, format string) error {
	switch format {
	case config.FormatText, "":
		return writeText(w, groups)
	case config.FormatJSON:
		return writeJSON(w, groups, time.Now())
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeText(w io.Writer, groups []verify.Group) error {
	var sb strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&sb, "duplicates of size %d\n", g.Size)
		for _, f := range g.Files {
			sb.WriteString(f.Path)
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeJSON(w io.Writer, groups []verify.Group, created time.Time) error {
	serialized := serializedReport{
		Generator: "dupfind",
		Created:   created,
		Groups:    make([]serializedGroup, 0, len(groups)),
	}
	for _, g := range groups {
		files := make([]string, 0, len(g.Files))
		for _, f := range g.Files {
			files = append(files, f.Path)
		}
		serialized.Groups = append(serialized.Groups, serializedGroup{
			Size:      g.Size,
			SizeHuman: humanize.IBytes(uint64(g.Size)),
			Files:     files,
		})
	}

	data, err := json.MarshalIndent(serialized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Reclaimable returns the bytes freed by keeping one member of every group.
func Reclaimable(groups []verify.Group) int64 {
	var total int64
	for _, g := range groups {
		if len(g.Files) > 1 {
			total += g.Size * int64(len(g.Files)-1)
		}
	}
	return total
}

// Summary is a one-line description of a scan.
func Summary(r *finder.Result) string {
	dupes := 0
	for _, g := range r.Groups {
		dupes += len(g.Files)
	}
	s := fmt.Sprintf("%s files scanned, %d duplicate groups (%s files), %s reclaimable",
		humanize.Comma(int64(r.Files)),
		len(r.Groups),
		humanize.Comma(int64(dupes)),
		humanize.IBytes(uint64(Reclaimable(r.Groups))))
	if r.Collapsed > 0 {
		s += fmt.Sprintf(", %d hard links collapsed", r.Collapsed)
	}
	if len(r.WalkErrors) > 0 {
		s += fmt.Sprintf(", %d entries skipped due to errors", len(r.WalkErrors))
	}
	return s
}
