package pdf

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// SignaturePolicy decide qué hacer cuando la imagen de la firma no está disponible.
type SignaturePolicy string

const (
	// SignatureAbort falla con domain.ErrSignatureMissing si la firma pedida no existe.
	SignatureAbort SignaturePolicy = "abort"
	// SignatureBlank deja el recuadro de la firma vacío.
	SignatureBlank SignaturePolicy = "blank"
	// SignatureDefault usa la firma por defecto del emisor; si tampoco existe, falla.
	SignatureDefault SignaturePolicy = "default"
)

// ParseSignaturePolicy acepta abort, blank o default (sin distinguir mayúsculas). Vacío es default.
func ParseSignaturePolicy(s string) (SignaturePolicy, error) {
	switch p := SignaturePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return SignatureDefault, nil
	case SignatureAbort, SignatureBlank, SignatureDefault:
		return p, nil
	default:
		return "", fmt.Errorf("%w: política de firma %q (abort, blank o default)", domain.ErrInvalidInput, s)
	}
}

// signatureImage es la imagen ya leída junto con su formato.
type signatureImage struct {
	path  string
	bytes []byte
	ext   extension.Type
}

var imageExtensions = map[string]extension.Type{
	".png":  extension.Png,
	".jpg":  extension.Jpg,
	".jpeg": extension.Jpeg,
}

// loadSignature lee la imagen de path con read. Un archivo inexistente o de formato no soportado
// se informa como domain.ErrSignatureMissing; otros errores de E/S se propagan tal cual.
func loadSignature(path string, read func(string) ([]byte, error)) (*signatureImage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: sin ruta de firma", domain.ErrSignatureMissing)
	}
	ext, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s no es png ni jpg", domain.ErrSignatureMissing, path)
	}
	b, err := read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSignatureMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("pdf: leer firma %s: %w", path, err)
	}
	return &signatureImage{path: path, bytes: b, ext: ext}, nil
}

// readInDir lee archivos dentro de dir sin salir de él, tampoco a través de enlaces simbólicos.
// Sin dir no hay firmas por factura.
func readInDir(dir string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if dir == "" {
			return nil, fs.ErrNotExist
		}
		root, err := os.OpenRoot(dir)
		if err != nil {
			return nil, err
		}
		defer root.Close()
		f, err := root.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
}

// resolveSignature aplica la política. Con SignatureBlank y sin imagen devuelve (nil, nil).
// La firma pedida por la factura se busca solo dentro de dir; la del emisor (fallback) viene
// de la configuración y se lee tal cual.
func resolveSignature(policy SignaturePolicy, dir, requested, fallback string) (*signatureImage, error) {
	read := readInDir(dir)
	if requested == fallback {
		read = os.ReadFile
	} else if requested != "" && !filepath.IsLocal(requested) {
		return nil, fmt.Errorf("%w: firma %q fuera del directorio de firmas", domain.ErrInvalidInput, requested)
	}

	img, err := loadSignature(requested, read)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, domain.ErrSignatureMissing) {
		return nil, err
	}
	switch policy {
	case SignatureBlank:
		return nil, nil
	case SignatureDefault:
		if fallback != "" && fallback != requested {
			return loadSignature(fallback, os.ReadFile)
		}
		return nil, err
	default:
		return nil, err
	}
}
