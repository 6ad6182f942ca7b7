package booster

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/YuminosukeSato/goxgb/pkg/errors"
	"github.com/YuminosukeSato/goxgb/pkg/log"
)

// WriteSnapshot writes the raw model compressed with zstd. The raw bytes are
// opaque; only ReadSnapshot consumes the output.
func (b *Booster) WriteSnapshot(w io.Writer) error {
	raw, err := b.SaveRaw()
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errors.Wrap(err, "snapshot encoder")
	}
	if _, err := enc.Write(raw); err != nil {
		_ = enc.Close()
		return errors.Wrap(err, "write snapshot")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "flush snapshot")
	}

	b.logger.Debug("Snapshot written", log.SnapshotBytesKey, len(raw))
	return nil
}

// ReadSnapshot loads a model written by WriteSnapshot.
func (b *Booster) ReadSnapshot(r io.Reader) error {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return errors.Wrap(err, "snapshot decoder")
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return errors.Wrap(err, "read snapshot")
	}
	if err := b.LoadRaw(raw); err != nil {
		return err
	}

	b.logger.Debug("Snapshot loaded", log.SnapshotBytesKey, len(raw))
	return nil
}
