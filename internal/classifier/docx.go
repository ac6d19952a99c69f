package classifier

import (
	"fmt"

	"github.com/mdowning/batchkb/internal/docxutil"
)

// classifyDocx is pure-text only when the document has zero tables,
// zero embedded images/graphics, and at least one non-empty paragraph
// (an otherwise-empty docx carries nothing worth preserving as text).
func classifyDocx(path string) (Result, error) {
	st, err := docxutil.Inspect(path)
	if err != nil {
		return Result{}, fmt.Errorf("classifier: %w", err)
	}

	if st.Tables > 0 {
		return Result{IsTextOnly: false, Reason: fmt.Sprintf("docx contains %d table(s)", st.Tables)}, nil
	}
	if st.Drawings > 0 {
		return Result{IsTextOnly: false, Reason: fmt.Sprintf("docx contains %d image/graphic object(s)", st.Drawings)}, nil
	}
	if st.NonEmptyParas == 0 {
		return Result{IsTextOnly: false, Reason: "docx has no non-empty paragraphs"}, nil
	}
	return Result{IsTextOnly: true, Reason: "docx has no tables or graphics and at least one paragraph"}, nil
}
