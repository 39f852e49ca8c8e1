package dict

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/yomikata/jmindex/internal/model"
)

// Stats summarizes one conversion for the build report.
type Stats struct {
	// Version is the source dictionary version string.
	Version string

	// DictDate is the JMdict creation date of the source.
	DictDate string

	// Entries is the number of headwords read from the source.
	Entries int

	// Buckets is the number of hiragana keys in the output.
	Buckets int

	// OutputBytes is the size of the plain artifact.
	OutputBytes int64

	// GzipBytes is the size of the compressed artifact, 0 when none was
	// requested.
	GzipBytes int64
}

// Indexer folds a source dictionary into the hiragana-keyed index.
type Indexer struct {
	// logger for structured logging.
	logger *slog.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithIndexerLogger sets a custom logger for the indexer.
func WithIndexerLogger(logger *slog.Logger) IndexerOption {
	return func(ix *Indexer) {
		ix.logger = logger
	}
}

// NewIndexer creates an Indexer.
func NewIndexer(opts ...IndexerOption) *Indexer {
	ix := &Indexer{}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.logger == nil {
		ix.logger = slog.Default()
	}
	return ix
}

// bucket accumulates set-deduplicated members for one hiragana key.
type bucket struct {
	katakana map[string]struct{}
	kanji    map[string]struct{}
}

// newBucket creates an empty bucket.
func newBucket() *bucket {
	return &bucket{
		katakana: make(map[string]struct{}),
		kanji:    make(map[string]struct{}),
	}
}

// Convert reads the source dictionary at sourcePath, builds the simplified
// index, and writes it to outputPath. When gzipCopy is true, a compressed
// copy of the same content is written to outputPath + ".gz". A write
// failure on either artifact fails the call, but an already-written plain
// artifact is not retracted.
func (ix *Indexer) Convert(sourcePath, outputPath string, gzipCopy bool) (*Stats, error) {
	src, err := ix.readSource(sourcePath)
	if err != nil {
		return nil, err
	}

	simplified := ix.build(src)

	data, err := json.Marshal(simplified)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize index: %w", err)
	}

	stats := &Stats{
		Version:     src.Version,
		DictDate:    src.DictDate,
		Entries:     len(src.Words),
		Buckets:     len(simplified.Words),
		OutputBytes: int64(len(data)),
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := os.WriteFile(outputPath, data, 0600); err != nil {
			return fmt.Errorf("failed to write index: %w", err)
		}
		return nil
	})
	if gzipCopy {
		g.Go(func() error {
			n, err := writeGzip(outputPath+".gz", data)
			if err != nil {
				return fmt.Errorf("failed to write compressed index: %w", err)
			}
			stats.GzipBytes = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ix.logger.Debug("conversion complete",
		"entries", stats.Entries,
		"buckets", stats.Buckets,
		"outputBytes", stats.OutputBytes,
		"gzipBytes", stats.GzipBytes,
	)
	return stats, nil
}

// readSource loads and validates the source dictionary document.
func (ix *Indexer) readSource(sourcePath string) (*model.SourceDictionary, error) {
	data, err := os.ReadFile(sourcePath) //nolint:gosec // Path comes from the extraction step
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, sourcePath)
		}
		return nil, fmt.Errorf("failed to read source dictionary: %w", err)
	}

	var src model.SourceDictionary
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDictionary, err)
	}
	if src.Version == "" || src.DictDate == "" || src.Words == nil {
		return nil, fmt.Errorf("%w: missing version, dictDate, or words", ErrMalformedDictionary)
	}

	return &src, nil
}

// build folds the source entries into the simplified index. Readings are
// NFC-normalized before bucketing so decomposed but visually identical
// readings share a bucket.
func (ix *Indexer) build(src *model.SourceDictionary) *model.SimplifiedDictionary {
	buckets := make(map[string]*bucket)

	for _, word := range src.Words {
		kanji := word.KanjiTexts()

		for _, reading := range word.Kana {
			hiragana := norm.NFC.String(reading.Text)
			if hiragana == "" {
				continue
			}

			b, ok := buckets[hiragana]
			if !ok {
				b = newBucket()
				buckets[hiragana] = b
			}

			b.katakana[HiraganaToKatakana(hiragana)] = struct{}{}
			for _, k := range kanji {
				b.kanji[k] = struct{}{}
			}
		}
	}

	words := make(map[string]*model.WordIndex, len(buckets))
	for hiragana, b := range buckets {
		words[hiragana] = &model.WordIndex{
			Katakana: sortedMembers(b.katakana),
			Kanji:    sortedMembers(b.kanji),
		}
	}

	return &model.SimplifiedDictionary{
		Version:  src.Version,
		DictDate: src.DictDate,
		Words:    words,
	}
}

// sortedMembers flattens a set to a sorted slice. Sorting keeps rebuilds
// byte-for-byte reproducible.
func sortedMembers(set map[string]struct{}) []string {
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}

// writeGzip compresses data to path and returns the compressed size.
func writeGzip(path string, data []byte) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Path is derived from outputPath
	if err != nil {
		return 0, err
	}

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		_ = gz.Close()      //nolint:errcheck // Best effort cleanup
		_ = f.Close()       //nolint:errcheck // Best effort cleanup
		_ = os.Remove(path) //nolint:errcheck // Best effort cleanup
		return 0, err
	}
	if err := gz.Close(); err != nil {
		_ = f.Close()       //nolint:errcheck // Best effort cleanup
		_ = os.Remove(path) //nolint:errcheck // Best effort cleanup
		return 0, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path) //nolint:errcheck // Best effort cleanup
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
