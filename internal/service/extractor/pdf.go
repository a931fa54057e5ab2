package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF walks every page in order and concatenates the text, separated
// by a space. Pages that fail extraction contribute nothing; only an
// unreadable document as a whole is an error.
func extractPDF(content []byte) (text string, err error) {
	// Библиотека паникует на некоторых битых файлах; превращаем это в
	// обычную ошибку извлечения.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf extraction panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString(" ")
		}
	}

	return sb.String(), nil
}
