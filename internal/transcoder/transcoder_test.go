package transcoder

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeEngine struct {
	name    string
	err     error
	content string
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Convert(ctx context.Context, inputPath, outputPath string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte(f.content), fs.FileMode(0o644))
}

func TestTranscoder_FallsThroughChainUntilSuccess(t *testing.T) {
	dir := t.TempDir()
	in := dir + "/input.txt"
	require.NoError(t, os.WriteFile(in, []byte("source"), 0o644))

	tr := New([]Engine{
		&fakeEngine{name: "first", err: ErrEngineUnavailable},
		&fakeEngine{name: "second", content: "converted"},
	}, 5*time.Second, dir, discardLogger())

	out, err := tr.Transcode(context.Background(), in, ".docx")
	require.NoError(t, err)
	defer os.Remove(out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "converted", string(data))
}

func TestTranscoder_AllEnginesFailReturnsTranscodeFailedError(t *testing.T) {
	dir := t.TempDir()
	in := dir + "/input.txt"
	require.NoError(t, os.WriteFile(in, []byte("source"), 0o644))

	tr := New([]Engine{
		&fakeEngine{name: "first", err: ErrEngineUnavailable},
		&fakeEngine{name: "second", err: context.DeadlineExceeded},
	}, 5*time.Second, dir, discardLogger())

	_, err := tr.Transcode(context.Background(), in, ".docx")
	require.Error(t, err)
}

func TestCOMEngine_UnavailableOffWindows(t *testing.T) {
	eng := &COMEngine{}
	err := eng.Convert(context.Background(), "in.docx", "out.pdf")
	require.ErrorIs(t, err, ErrEngineUnavailable)
}
