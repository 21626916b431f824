// Package finder wires traversal, the size catalog and the verifier into
// one scan.
package finder

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"dupfind/internal/catalog"
	"dupfind/internal/config"
	"dupfind/internal/progress"
	"dupfind/internal/verify"
	"dupfind/internal/walker"
)

// ErrNoRoots is returned when Run is given no directories.
var ErrNoRoots = errors.New("no directories to scan")

// Result is the outcome of one scan.
type Result struct {
	// Groups is ordered largest size first.
	Groups     []verify.Group
	Files      int
	Sizes      int
	Collapsed  int
	WalkErrors []error
	Stats      verify.Stats
}

type Finder struct {
	cfg      *config.Config
	log      zerolog.Logger
	matcher  *walker.Matcher
	progress io.Writer
	opts     []verify.Option
}

// New builds a Finder from cfg. Extra verifier options are applied after
// those derived from cfg.
func New(cfg *config.Config, log zerolog.Logger, opts ...verify.Option) *Finder {
	return &Finder{
		cfg:     cfg,
		log:     log,
		matcher: walker.NewMatcher(cfg.Exclude),
		opts:    opts,
	}
}

// SetProgressOutput enables the bucket progress bar on w.
func (f *Finder) SetProgressOutput(w io.Writer) {
	f.progress = w
}

// Run scans every root into one catalog and verifies it bucket by bucket.
func (f *Finder) Run(roots []string) (*Result, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	cat := catalog.New()
	result := &Result{}

	for _, root := range roots {
		f.log.Info().Str("root", root).Msg("scanning directory")
		walkResult, err := walker.Walk(root, f.matcher, func(rec catalog.FileRecord) {
			if !cat.Insert(rec) {
				f.log.Debug().Str("path", rec.Path).Msg("hard link collapsed")
			}
		})
		// An unreadable root is skipped; the other roots are still scanned.
		if err != nil {
			err = fmt.Errorf("%s: %w", root, err)
			f.log.Warn().Err(err).Msg("skipped root")
			result.WalkErrors = append(result.WalkErrors, err)
			continue
		}

		for _, werr := range walkResult.Errors {
			f.log.Warn().Err(werr).Msg("skipped entry")
		}
		result.WalkErrors = append(result.WalkErrors, walkResult.Errors...)
	}

	result.Files = cat.Files()
	result.Sizes = cat.Len()
	result.Collapsed = cat.Collapsed()
	f.log.Info().
		Int("files", result.Files).
		Int("sizes", result.Sizes).
		Int("collapsed", result.Collapsed).
		Msg("scan complete, checking for duplicates")

	opts := append([]verify.Option{
		verify.WithChunkSize(f.cfg.ChunkSize),
		verify.WithLogger(f.log),
	}, f.opts...)
	v := verify.New(opts...)

	var bar *progress.Bar
	if f.progress != nil {
		bar = progress.New(f.progress, int64(result.Sizes))
	}

	// Buckets arrive smallest first; reversing at the end puts the largest
	// size at the head, with later groups of one size ahead of earlier ones.
	var groups []verify.Group
	err := cat.Drain(func(b catalog.Bucket) error {
		found, err := v.Verify(b)
		if err != nil {
			return fmt.Errorf("verifying files of size %d: %w", b.Size, err)
		}
		groups = append(groups, found...)
		bar.Step(b.Size)
		return nil
	})
	if err != nil {
		return nil, err
	}
	bar.Finish()

	for l, r := 0, len(groups)-1; l < r; l, r = l+1, r-1 {
		groups[l], groups[r] = groups[r], groups[l]
	}
	result.Groups = groups
	result.Stats = v.Stats()

	f.log.Info().
		Int("groups", len(groups)).
		Int("compared", result.Stats.PairsCompared).
		Int("inferred", result.Stats.PairsInferred).
		Int64("skipped_bytes", result.Stats.BytesSkipped).
		Msg("verification complete")

	return result, nil
}
