package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
)

// extractPDFText concatenates per-page text in page order. Extraction is
// best-effort: literal and hex strings drawn by the text-show operators
// (Tj, TJ, ', ") are decoded from each page's content stream; text using
// exotic font encodings may come out mangled rather than failing the file.
func extractPDFText(data []byte) (string, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedFile, err)
	}
	var b strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil || r == nil {
			continue
		}
		stream, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		pageText := decodeContentText(stream)
		if pageText != "" {
			b.WriteString(pageText)
			b.WriteString("\n")
		}
	}
	return strings.ToValidUTF8(strings.TrimSpace(b.String()), ""), nil
}

// decodeContentText scans a page content stream for text-show operators
// and collects their string operands.
func decodeContentText(stream []byte) string {
	var out strings.Builder
	var pending []string
	i := 0
	for i < len(stream) {
		c := stream[i]
		switch {
		case c == '(':
			s, next := readLiteralString(stream, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(stream) && stream[i+1] != '<':
			s, next := readHexString(stream, i)
			pending = append(pending, s)
			i = next
		case c == '<': // dictionary open
			i += 2
		case isOperatorChar(c):
			start := i
			for i < len(stream) && isOperatorChar(stream[i]) {
				i++
			}
			pending = applyOperator(&out, string(stream[start:i]), pending)
		case c == '\'' || c == '"':
			pending = applyOperator(&out, string(c), pending)
			i++
		default:
			i++
		}
	}
	return out.String()
}

// applyOperator emits pending strings for text-show operators and drops
// them for anything else, since other operators consume their own operands.
func applyOperator(out *strings.Builder, op string, pending []string) []string {
	switch op {
	case "Tj", "TJ", "'", "\"":
		for _, s := range pending {
			out.WriteString(s)
		}
	case "Td", "TD", "T*", "ET":
		out.WriteString("\n")
	}
	return pending[:0]
}

func isOperatorChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '*'
}

// readLiteralString reads a PDF literal string starting at the opening
// paren, handling escapes and balanced nested parens. It returns the
// decoded string and the index past the closing paren.
func readLiteralString(stream []byte, start int) (string, int) {
	var b strings.Builder
	depth := 1
	i := start + 1
	for i < len(stream) && depth > 0 {
		c := stream[i]
		switch c {
		case '\\':
			if i+1 >= len(stream) {
				i++
				continue
			}
			i++
			switch e := stream[i]; e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
				// non-text control, skip
			case '(', ')', '\\':
				b.WriteByte(e)
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for n := 0; n < 2 && i+1 < len(stream) && stream[i+1] >= '0' && stream[i+1] <= '7'; n++ {
						i++
						val = val*8 + int(stream[i]-'0')
					}
					b.WriteByte(byte(val))
				} else {
					b.WriteByte(e)
				}
			}
			i++
		case '(':
			depth++
			b.WriteByte(c)
			i++
		case ')':
			depth--
			if depth > 0 {
				b.WriteByte(c)
			}
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i
}

// readHexString reads a PDF hex string starting at '<', returning the
// decoded bytes and the index past the closing '>'.
func readHexString(stream []byte, start int) (string, int) {
	var digits []byte
	i := start + 1
	for i < len(stream) && stream[i] != '>' {
		c := stream[i]
		if isHexDigit(c) {
			digits = append(digits, c)
		}
		i++
	}
	if i < len(stream) {
		i++ // consume '>'
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	var b strings.Builder
	for j := 0; j+1 < len(digits); j += 2 {
		b.WriteByte(hexVal(digits[j])<<4 | hexVal(digits[j+1]))
	}
	return b.String(), i
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
