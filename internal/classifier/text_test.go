package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestClassifyPlainText_TxtWithoutImageRefIsTextOnly(t *testing.T) {
	path := writeTemp(t, "notes.txt", "Quarterly summary with no attachments mentioned.")
	res, err := Classify(path)
	require.NoError(t, err)
	require.True(t, res.IsTextOnly)
}

func TestClassifyPlainText_TxtWithImageRefIsRichMedia(t *testing.T) {
	path := writeTemp(t, "notes.txt", "See the attached diagram.png for details.")
	res, err := Classify(path)
	require.NoError(t, err)
	require.False(t, res.IsTextOnly)
}

func TestClassifyPlainText_MarkdownWithoutImageIsTextOnly(t *testing.T) {
	path := writeTemp(t, "readme.md", "# Title\n\nJust prose, no figures.\n")
	res, err := Classify(path)
	require.NoError(t, err)
	require.True(t, res.IsTextOnly)
}

func TestClassifyPlainText_MarkdownWithImageIsRichMedia(t *testing.T) {
	path := writeTemp(t, "readme.md", "# Title\n\n![architecture](diagram.png)\n")
	res, err := Classify(path)
	require.NoError(t, err)
	require.False(t, res.IsTextOnly)
}

func TestClassify_UnsupportedExtensionIsRichMediaNotError(t *testing.T) {
	path := writeTemp(t, "archive.zip", "not really a zip")
	res, err := Classify(path)
	require.NoError(t, err)
	require.False(t, res.IsTextOnly)
	require.Equal(t, "unsupported format", res.Reason)
}

func TestClassify_LegacyDocRequiresTranscodeFirst(t *testing.T) {
	path := writeTemp(t, "legacy.doc", "binary placeholder")
	_, err := Classify(path)
	require.Error(t, err)
	var needsTranscode *UnsupportedWithoutTranscodeError
	require.ErrorAs(t, err, &needsTranscode)
}

func TestClassify_SpreadsheetsAndSlidesAreAlwaysRichMedia(t *testing.T) {
	for _, name := range []string{"book.xlsx", "book.xls", "deck.pptx", "deck.ppt"} {
		path := writeTemp(t, name, "placeholder")
		res, err := Classify(path)
		require.NoError(t, err)
		require.False(t, res.IsTextOnly, "%s should be rich-media", name)
	}
}
