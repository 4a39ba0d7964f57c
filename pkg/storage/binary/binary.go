// Package binary implements the self-describing binary snapshot
// format. A file is a two byte magic marker followed by a gob encoded
// flat record set. The format is written by the document codec when a
// chart cannot be rendered as text, and can be saved and loaded
// directly like any other strategy.
package binary

import (
	"bytes"
	"context"
	"encoding/gob"
	"os"

	"github.com/charmbracelet/log"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
	"github.com/g-zangara/OrganigrammaAziendale/pkg/storage"
)

// Magic marks a file as a binary chart snapshot. Sniffers check these
// two bytes before attempting a text parse.
var Magic = []byte{0xAC, 0xED}

// snapshot is the gob payload. The version field lets future readers
// reject snapshots they do not understand instead of misreading them.
type snapshot struct {
	Version int
	Records storage.RecordSet
}

const snapshotVersion = 1

func init() {
	storage.Register(storage.FormatBinary, func() storage.Strategy { return New() })
}

// Strategy is the binary snapshot codec.
type Strategy struct{}

// New returns a binary snapshot strategy.
func New() *Strategy { return &Strategy{} }

// Format returns [storage.FormatBinary].
func (*Strategy) Format() storage.Format { return storage.FormatBinary }

// Save writes the chart as a magic-prefixed gob snapshot.
func (*Strategy) Save(ctx context.Context, root *org.Unit, path string) error {
	var buf bytes.Buffer
	buf.Write(Magic)
	snap := snapshot{Version: snapshotVersion, Records: *storage.Collect(root)}
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeInternal, err, "encoding binary snapshot")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeIO, err, "writing %s", path)
	}
	log.FromContext(ctx).Debug("saved binary snapshot",
		"path", path, "units", len(snap.Records.Units))
	return nil
}

// Load reads a magic-prefixed gob snapshot and rebuilds the chart.
// Dangling references in the records are logged and skipped; a hard
// structural violation aborts the load.
func (*Strategy) Load(ctx context.Context, path string) (*org.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, orgerrors.Wrap(orgerrors.ErrCodeNotFound, err, "no chart at %s", path)
		}
		return nil, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "reading %s", path)
	}
	root, err := Decode(ctx, data)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// Decode parses snapshot bytes that have already been read, so that
// sniffing codecs can hand over data without a second file read.
func Decode(ctx context.Context, data []byte) (*org.Unit, error) {
	if !bytes.HasPrefix(data, Magic) {
		return nil, orgerrors.New(orgerrors.ErrCodeInvalidFormat,
			"data does not start with the binary snapshot marker")
	}
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data[len(Magic):])).Decode(&snap); err != nil {
		return nil, orgerrors.Wrap(orgerrors.ErrCodeInvalidFormat, err, "decoding binary snapshot")
	}
	if snap.Version != snapshotVersion {
		return nil, orgerrors.New(orgerrors.ErrCodeUnsupportedFormat,
			"binary snapshot version %d is not supported", snap.Version)
	}

	root, issues := storage.Link(&snap.Records)
	warnings, err := storage.Accept(root, issues)
	if err != nil {
		return nil, err
	}
	logger := log.FromContext(ctx)
	for _, w := range warnings {
		logger.Warn("recoverable chart defect", "err", w)
	}
	if root == nil {
		return nil, orgerrors.New(orgerrors.ErrCodeInvalidFormat, "binary snapshot contains no units")
	}
	return root, nil
}
