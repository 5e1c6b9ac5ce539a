// Package extract pulls text out of uploaded files: OCR over images, plain
// text out of PDFs, raw reads for text files. Like the scraper, extraction
// failures degrade to empty output rather than erroring out the ingestion.
package extract

import (
	"bytes"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"

	"synapse/types"
)

// handwrittenThreshold is the minimum OCR text length that marks an image
// as carrying written content rather than being purely visual.
const handwrittenThreshold = 20

// OCR runs text recognition over an image file. Returns "" when the binary
// is missing or recognition fails; an empty result just means the image is
// treated as purely visual.
func OCR(path string) string {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return ""
	}
	cmd := exec.Command("tesseract", path, "stdout")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		log.Printf("extract: ocr failed for %s: %v", path, err)
		return ""
	}
	return strings.TrimSpace(out.String())
}

// ClassifyImage decides the source type from the OCR output: images with
// meaningful recognized text are handwritten notes, the rest are plain
// images.
func ClassifyImage(ocrText string) types.SourceType {
	if len(strings.TrimSpace(ocrText)) > handwrittenThreshold {
		return types.SourceHandwritten
	}
	return types.SourceImage
}

// PDFText extracts plain text and the page count from a PDF file. A PDF
// that cannot be parsed yields empty text and zero pages.
func PDFText(path string) (string, int) {
	f, r, err := pdf.Open(path)
	if err != nil {
		log.Printf("extract: pdf open failed for %s: %v", path, err)
		return "", 0
	}
	defer f.Close()

	pages := r.NumPage()
	reader, err := r.GetPlainText()
	if err != nil {
		log.Printf("extract: pdf text failed for %s: %v", path, err)
		return "", pages
	}
	var b bytes.Buffer
	if _, err := io.Copy(&b, reader); err != nil {
		return "", pages
	}
	return strings.TrimSpace(b.String()), pages
}

// TextFile reads a plain-text upload.
func TextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("extract: read failed for %s: %v", path, err)
		return ""
	}
	return strings.TrimSpace(string(data))
}
