package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"

	"github.com/jhoicas/inventory-system/internal/domain/repository"
)

var _ repository.KVStore = (*File)(nil)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// File guarda cada clave como <dir>/<key>.json sobre un afero.Fs.
// La escritura va a un archivo temporal y luego se renombra, así un corte a mitad
// de escritura nunca deja un blob truncado.
type File struct {
	fs  afero.Fs
	dir string
}

// NewFile construye el almacén sobre fs y crea dir si no existe.
func NewFile(fs afero.Fs, dir string) (*File, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: crear directorio %q: %w", dir, err)
	}
	return &File{fs: fs, dir: dir}, nil
}

// NewOSFile almacén sobre el sistema de archivos real.
func NewOSFile(dir string) (*File, error) {
	return NewFile(afero.NewOsFs(), dir)
}

func (f *File) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("kvstore: clave inválida %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Load lee el archivo de key; un archivo inexistente es "ausente".
func (f *File) Load(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	p, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := afero.ReadFile(f.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kvstore: leer %q: %w", p, err)
	}
	return string(data), true, nil
}

// Save escribe el blob de key de forma atómica (temp + rename).
func (f *File) Save(ctx context.Context, key, blob string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := f.path(key)
	if err != nil {
		return err
	}
	tmp, err := afero.TempFile(f.fs, f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("kvstore: archivo temporal: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(blob); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("kvstore: escribir %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("kvstore: cerrar %q: %w", tmpName, err)
	}
	if err := f.fs.Rename(tmpName, p); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("kvstore: renombrar a %q: %w", p, err)
	}
	return nil
}
