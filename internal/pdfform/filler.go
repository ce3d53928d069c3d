// Package pdfform overlays text on the first page of a PDF template.
package pdfform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dkooll/mcpbridge/pkg/form"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrRenderFailure    = errors.New("render failure")
	ErrWriteFailure     = errors.New("write failure")
)

const (
	DefaultFontFamily = "Helvetica"
	DefaultFontSize   = 12

	mediaBox    = "/MediaBox"
	utf8Family  = "overlay"
	firstPageNo = 1
)

type Options struct {
	FontFamily string
	FontSize   float64
	// FontFile is an optional UTF-8 TrueType font. Core fonts only cover
	// cp1252, so payloads outside Latin-1 need one.
	FontFile string
	Compress bool
}

func DefaultOptions() Options {
	return Options{
		FontFamily: DefaultFontFamily,
		FontSize:   DefaultFontSize,
		Compress:   true,
	}
}

type Filler struct {
	opts   Options
	logger *zap.Logger
}

func NewFiller(opts Options, logger *zap.Logger) *Filler {
	if opts.FontFamily == "" {
		opts.FontFamily = DefaultFontFamily
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filler{opts: opts, logger: logger}
}

// Fill writes a single page document to outputPath: page 1 of the template
// with every field drawn on top, baseline at (x, y) from the bottom-left.
// Further template pages are dropped. An existing output is overwritten.
func (f *Filler) Fill(templatePath string, fields []form.Field, outputPath string) (string, error) {
	for _, field := range fields {
		if err := field.Validate(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRenderFailure, err)
		}
		if f.opts.FontFile == "" {
			if err := checkCoreFont(field); err != nil {
				return "", fmt.Errorf("%w: %v", ErrRenderFailure, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create output directory: %v", ErrWriteFailure, err)
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	}

	pdf, err := f.render(data, fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	f.logger.Info("pdf filled",
		zap.String("template", templatePath),
		zap.String("output", outputPath),
		zap.Int("fields", len(fields)),
	)
	return outputPath, nil
}

// Info summarises a PDF on disk.
type Info struct {
	Pages  int
	Width  float64
	Height float64
}

// Inspect reads the page count and the first page's media box of path.
func Inspect(path string) (info Info, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read %s: %v", path, r)
		}
	}()

	pdf := fpdf.New("P", "pt", "A4", "")
	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(data))
	imp.ImportPageFromStream(pdf, &rs, firstPageNo, mediaBox)

	sizes := imp.GetPageSizes()
	info.Pages = len(sizes)
	if box, ok := sizes[firstPageNo][mediaBox]; ok {
		info.Width, info.Height = box["w"], box["h"]
	}
	return info, nil
}

// checkCoreFont rejects text the cp1252 core fonts cannot draw; the
// translator would otherwise replace each such rune with a dot.
func checkCoreFont(field form.Field) error {
	for _, r := range field.Text {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return fmt.Errorf("field %s: %q is outside cp1252, configure a UTF-8 font_file", field.Name, r)
		}
	}
	return nil
}

// render converts gofpdi panics on malformed input into errors.
func (f *Filler) render(template []byte, fields []form.Field) (pdf *fpdf.Fpdf, err error) {
	defer func() {
		if r := recover(); r != nil {
			pdf = nil
			err = fmt.Errorf("failed to import template: %v", r)
		}
	}()

	fontDir := ""
	if f.opts.FontFile != "" {
		fontDir = filepath.Dir(f.opts.FontFile)
	}
	pdf = fpdf.New("P", "pt", "A4", fontDir)
	pdf.SetCompression(f.opts.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(template))
	tpl := imp.ImportPageFromStream(pdf, &rs, firstPageNo, mediaBox)

	box, ok := imp.GetPageSizes()[firstPageNo][mediaBox]
	if !ok {
		return nil, fmt.Errorf("template has no %s on page %d", mediaBox, firstPageNo)
	}
	width, height := box["w"], box["h"]
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid page size %.2fx%.2f", width, height)
	}

	pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
	imp.UseImportedTemplate(pdf, tpl, 0, 0, width, height)

	translate := func(s string) string { return s }
	if f.opts.FontFile != "" {
		pdf.AddUTF8Font(utf8Family, "", filepath.Base(f.opts.FontFile))
		pdf.SetFont(utf8Family, "", f.opts.FontSize)
	} else {
		pdf.SetFont(f.opts.FontFamily, "", f.opts.FontSize)
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	for _, field := range fields {
		pdf.Text(float64(field.X), height-float64(field.Y), translate(field.Text))
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	return pdf, nil
}
