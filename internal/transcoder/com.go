package transcoder

import (
	"context"
	"runtime"
)

// COMEngine is the engine-chain slot for platform document-automation
// COM servers (Microsoft Word/Excel/PowerPoint). No Go COM-automation
// library appears anywhere in the reference corpus this module was
// built from, so Convert performs no COM automation: it returns
// ErrEngineUnavailable on every platform, Windows included, and the
// chain moves on to the next engine.
type COMEngine struct{}

func (e *COMEngine) Name() string { return "com-bridge" }

func (e *COMEngine) Convert(ctx context.Context, inputPath, outputPath string) error {
	if runtime.GOOS != "windows" {
		return ErrEngineUnavailable
	}
	return ErrEngineUnavailable
}
