package prefs

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/codec"
	"github.com/kairosolo/kprefs/internal/domain"
	"github.com/kairosolo/kprefs/internal/store"
)

// Export writes the namespace to path as an unencrypted document: YAML
// when path ends in .yaml or .yml, JSON otherwise.
//
// Exporting a profile that does not exist fails with
// domain.ErrProfileNotFound and writes nothing.
func (n *Namespace) Export(path string) error {
	if !n.IsGlobal() && !n.s.profiles.Exists(n.Name()) {
		n.s.log.Error("cannot export missing profile", zap.String("profile", n.Name()))
		return fmt.Errorf("export %q: %w", n.Name(), domain.ErrProfileNotFound)
	}
	data, err := codec.Export(n.read(), codec.FormatFor(path))
	if err != nil {
		n.s.log.Error("export failed", zap.String("namespace", n.Name()), zap.Error(err))
		return fmt.Errorf("export %s: %w", n.Name(), err)
	}
	if err := store.WriteFileAtomic(path, data); err != nil {
		n.s.log.Error("export failed", zap.String("namespace", n.Name()), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: export %s: %w", domain.ErrIO, n.Name(), err)
	}
	n.s.log.Debug("namespace exported", zap.String("namespace", n.Name()), zap.String("path", path))
	return nil
}

// Import reads a document written by Export into the namespace. Without
// merge the namespace is replaced by the document; with merge only the
// keys present in the document are overwritten. Entries that fail to
// decode are imported with their type default and logged.
func (n *Namespace) Import(path string, merge bool) error {
	if err := n.s.guard(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		n.s.log.Error("import failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("import %s: %w", path, err)
	}
	incoming, warnings, err := codec.Import(data, codec.FormatFor(path), n.s.now())
	if err != nil {
		n.s.log.Error("import failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("import %s: %w", path, err)
	}
	for _, w := range warnings {
		n.s.log.Warn("imported entry reset to default", zap.String("path", path), zap.Error(w))
	}

	err = n.mutate(func(rec domain.Record) bool {
		before := rec.Clone()
		if !merge {
			clear(rec)
		}
		for k, v := range incoming {
			rec[k] = v
		}
		return !rec.Equal(before)
	})
	if err == nil {
		n.s.log.Debug("namespace imported",
			zap.String("namespace", n.Name()), zap.String("path", path),
			zap.Int("keys", len(incoming)), zap.Bool("merge", merge))
	}
	return err
}
