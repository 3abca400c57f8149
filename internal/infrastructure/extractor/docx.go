package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

// extractDocx reads the main document part of an OOXML word file. Legacy
// binary .doc files are not a zip container and fail here with a clear
// extraction error.
func extractDocx(raw []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open docx",
			fmt.Errorf("not an OOXML container: %w", err))
	}

	var docPart *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docPart = f
			break
		}
	}
	if docPart == nil {
		return "", domain.WrapError(domain.ErrExtraction, "open docx",
			fmt.Errorf("word/document.xml missing"))
	}

	rc, err := docPart.Open()
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open docx part", err)
	}
	defer rc.Close()

	return docxPartText(rc)
}

// docxPartText walks the XML token stream, keeping character data from w:t
// runs and inserting line breaks at paragraph ends.
func docxPartText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", domain.WrapError(domain.ErrExtraction, "parse docx xml", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
