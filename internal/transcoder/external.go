package transcoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ExternalEngine shells out to a headless office suite binary
// (LibreOffice/soffice) to perform the conversion, the same pattern the
// teacher pipeline used for its pdftotext fallback.
type ExternalEngine struct {
	// BinaryPath is the resolved path to the soffice/libreoffice
	// executable. ResolveExternalEngine picks this from config or a
	// default search list before the engine is used.
	BinaryPath string
}

func (e *ExternalEngine) Name() string { return "external-office-suite" }

func (e *ExternalEngine) Convert(ctx context.Context, inputPath, outputPath string) error {
	if e.BinaryPath == "" {
		return ErrEngineUnavailable
	}

	targetExt := filepath.Ext(outputPath)
	outDir := filepath.Dir(outputPath)

	cmd := exec.CommandContext(ctx, e.BinaryPath,
		"--headless", "--convert-to", targetExt[1:], "--outdir", outDir, inputPath,
	)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("soffice convert: %w", err)
	}

	produced := filepath.Join(outDir, stemOf(inputPath)+targetExt)
	if produced == outputPath {
		return nil
	}
	return os.Rename(produced, outputPath)
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// ResolveExternalEngine picks the office suite binary from an explicit
// configured path, falling back to a list of common install locations.
// It returns an engine with an empty BinaryPath (always unavailable)
// when none can be found, rather than failing construction.
func ResolveExternalEngine(configuredPath string, fallbackPaths []string) *ExternalEngine {
	if configuredPath != "" {
		if _, err := os.Stat(configuredPath); err == nil {
			return &ExternalEngine{BinaryPath: configuredPath}
		}
	}
	for _, p := range fallbackPaths {
		if _, err := os.Stat(p); err == nil {
			return &ExternalEngine{BinaryPath: p}
		}
	}
	if p, err := exec.LookPath("soffice"); err == nil {
		return &ExternalEngine{BinaryPath: p}
	}
	return &ExternalEngine{}
}
