package classifier

import (
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// maxVectorPrimitivesPerPage is the per-page count of rectangle drawing
// primitives at or above which a page is treated as carrying a ruled
// table or other vector drawing.
const maxVectorPrimitivesPerPage = 11

// classifyPDF is pure-text only when no page carries a raster image
// XObject and no page reaches the vector-primitive threshold.
func classifyPDF(path string) (Result, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("classifier: open %s: %w", path, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		if pageHasRasterImage(page) {
			return Result{IsTextOnly: false, Reason: fmt.Sprintf("page %d contains a raster image", i)}, nil
		}

		n := countVectorPrimitives(page)
		if n >= maxVectorPrimitivesPerPage {
			return Result{IsTextOnly: false, Reason: fmt.Sprintf("page %d has %d vector drawing primitives", i, n)}, nil
		}
	}
	return Result{IsTextOnly: true, Reason: "no page contains raster images or complex vector drawings"}, nil
}

// pageHasRasterImage walks the page's Resources/XObject dictionary
// looking for an entry whose Subtype is Image.
func pageHasRasterImage(page pdflib.Page) bool {
	res := page.V.Key("Resources")
	if res.IsNull() {
		return false
	}
	xobjects := res.Key("XObject")
	if xobjects.IsNull() {
		return false
	}
	for _, key := range xobjects.Keys() {
		obj := xobjects.Key(key)
		if obj.Key("Subtype").Name() == "Image" {
			return true
		}
	}
	return false
}

// countVectorPrimitives counts the rectangles (the "re" operator) that
// ledongthuc/pdf reports for the page's content stream, a proxy for
// vector-graphic complexity. Line-drawing operators are not counted.
func countVectorPrimitives(page pdflib.Page) int {
	content := page.Content()
	return len(content.Rect)
}
