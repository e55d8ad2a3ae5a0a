package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"ohelect/internal"
	"ohelect/internal/identity"
)

// Extractor runs the raw format adapters. The roster must not be nil.
type Extractor struct {
	resolver *identity.Resolver
	logger   *zap.Logger
}

func NewExtractor(roster *identity.Roster, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{resolver: identity.NewResolver(roster), logger: logger}
}

func (e *Extractor) roster() *identity.Roster {
	return e.resolver.Roster()
}

// Extracted is one source's adapter output plus the file fingerprint.
type Extracted struct {
	internal.Extraction
	SHA256 string
}

// Extract reads and parses one manifest source. Unreadable files and
// unrecognised layouts come back as *internal.FormatError.
func (e *Extractor) Extract(src SourceEntry) (Extracted, error) {
	blob, err := os.ReadFile(src.Path)
	if err != nil {
		return Extracted{}, internal.NewFormatError(src.Path, "read", err)
	}
	out := Extracted{SHA256: fingerprint(blob)}

	records, err := ReadRecords(src.Path, blob)
	if err != nil {
		return out, internal.NewFormatError(src.Path, "records", err)
	}

	switch src.Format {
	case internal.FormatSOS:
		out.Extraction, err = e.extractSOS(src.Path, src.Year, records)
	case internal.FormatNameList:
		var names []NameEntry
		names, err = e.loadNameList(src.Names)
		if err == nil {
			out.Extraction, err = e.extractNameList(src.Path, names, records)
		}
	case internal.FormatOpenElections:
		out.Extraction, err = e.extractOpenElections(src.Path, records)
	case internal.FormatManual:
		out.Extraction, err = e.extractManual(src, records)
	default:
		err = internal.NewFormatError(src.Path, "format", fmt.Errorf("unsupported source format %q", src.Format))
	}
	return out, err
}

func (e *Extractor) loadNameList(path string) ([]NameEntry, error) {
	if path == "" {
		return nil, internal.NewFormatError("", "namelist source needs names", os.ErrNotExist)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, internal.NewFormatError(path, "read name list", err)
	}
	records, err := ReadRecords(path, blob)
	if err != nil {
		return nil, internal.NewFormatError(path, "name list records", err)
	}
	return ParseNameList(path, records)
}

// ReadConsolidated loads a consolidated year CSV written by convert.
func (e *Extractor) ReadConsolidated(path string) ([]internal.Row, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := parseCSVRecords(blob)
	if err != nil {
		return nil, internal.NewFormatError(path, "consolidated", err)
	}
	ext, err := e.extractOpenElections(path, records)
	if err != nil {
		return nil, err
	}
	return ext.Rows, nil
}

func fingerprint(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

func baseName(path string) string {
	return filepath.Base(path)
}

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
