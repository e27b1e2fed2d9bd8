package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.TokenStore = (*FileStore)(nil)

// FileStore guarda el token en un archivo con permisos 0600.
type FileStore struct {
	path string
}

// NewFileStore construye el store sobre path; el directorio se crea al guardar.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// Load devuelve "" si el archivo no existe.
func (s *FileStore) Load(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore: leer %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save escribe el token de forma atómica (archivo temporal + rename).
func (s *FileStore) Save(_ context.Context, token string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("tokenstore: crear %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("tokenstore: archivo temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: permisos: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tokenstore: cerrar: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("tokenstore: reemplazar %s: %w", s.path, err)
	}
	return nil
}

// Clear borra el archivo; no es error si no existía.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tokenstore: borrar %s: %w", s.path, err)
	}
	return nil
}
