// Package pdf renders skin prediction reports. Layout is a single
// deterministic top-to-bottom pass: a builder advances a cursor through
// fixed sections and commits the paginated result to a writer, so the same
// inputs under the same clock always produce the same bytes.
package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageLeft     = 40.0
	pageRight    = 550.0
	titleSize    = 20.0
	sectionSize  = 14.0
	metaSize     = 10.0
	footnoteSize = 9.0

	imageWidth  = 100.0
	imageHeight = 100.0
	imageGap    = 10.0
	maxImages   = 3

	disclaimer = "**This information is not accurate. If serious, kindly visit a doctor.**"
)

// ReportData holds everything rendered into one report.
type ReportData struct {
	PatientName string
	DiseaseName string
	Description string
	Prevention  []string
	Treatment   []string
	Diet        []string
	Images      []string
	BodyPart    string
	Symptoms    []string
}

// Options controls rendering behavior.
type Options struct {
	// Clock supplies the report timestamp and the document creation date.
	// Defaults to time.Now; tests freeze it for byte-stable output.
	Clock func() time.Time
	// ImageRoot is the directory stored image paths are resolved against.
	ImageRoot string
	// Compress enables PDF stream compression. Left off, output streams stay
	// plain text, which the tests rely on.
	Compress bool
}

// Builder accumulates report sections against the document cursor.
type Builder struct {
	doc   *fpdf.Fpdf
	clock func() time.Time
	root  string
}

// NewBuilder returns a Builder with an empty Letter page ready for layout.
func NewBuilder(opts Options) *Builder {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCompression(opts.Compress)
	doc.SetCreationDate(clock())
	doc.SetModificationDate(clock())
	doc.SetMargins(pageLeft, pageLeft, pageLeft)
	doc.SetAutoPageBreak(true, pageLeft)
	doc.AddPage()
	return &Builder{doc: doc, clock: clock, root: opts.ImageRoot}
}

// AttachmentFilename derives the download filename for a disease name,
// replacing whitespace runs with underscores.
func AttachmentFilename(diseaseName string) string {
	return strings.Join(strings.Fields(diseaseName), "_") + "_Report.pdf"
}

// Render lays out the full report and writes it to w.
func (b *Builder) Render(data ReportData, w io.Writer) error {
	b.titleBlock()
	b.patientBlock(data.PatientName)
	b.reportTitle()
	b.diseaseSections(data)
	b.symptomBlock(data.BodyPart, data.Symptoms)
	b.imageGallery(data.Images)
	b.disclaimerLine()

	if err := b.doc.Error(); err != nil {
		return fmt.Errorf("report layout failed: %w", err)
	}
	return b.doc.Output(w)
}

func (b *Builder) rule() {
	y := b.doc.GetY()
	b.doc.SetLineWidth(0.5)
	b.doc.Line(pageLeft, y, pageRight, y)
	b.doc.SetY(y + 6)
}

func (b *Builder) titleBlock() {
	b.doc.SetFont("Helvetica", "B", titleSize)
	b.doc.SetTextColor(0, 0, 0)
	b.doc.CellFormat(0, titleSize+4, "DERMIFY", "", 1, "C", false, 0, "")
	b.rule()
}

func (b *Builder) patientBlock(patientName string) {
	b.doc.SetFont("Times", "", metaSize)
	b.doc.CellFormat(0, metaSize+3, fmt.Sprintf("Patient Name: %s", patientName), "", 1, "L", false, 0, "")
	b.doc.CellFormat(0, metaSize+3, "Role: Patient", "", 1, "L", false, 0, "")
	stamp := b.clock().Format("2006-01-02 15:04:05")
	b.doc.CellFormat(0, metaSize+3, fmt.Sprintf("Date/Time: %s", stamp), "", 1, "R", false, 0, "")
	b.rule()
}

func (b *Builder) reportTitle() {
	b.doc.SetFont("Times", "BU", sectionSize)
	b.doc.CellFormat(0, sectionSize+4, "Skin Prediction Report", "", 1, "C", false, 0, "")
	b.doc.Ln(4)
}

func (b *Builder) diseaseSections(data ReportData) {
	b.doc.SetFont("Times", "", sectionSize)
	b.doc.CellFormat(0, sectionSize+3, fmt.Sprintf("Disease Name: %s", data.DiseaseName), "", 1, "L", false, 0, "")
	b.doc.Ln(3)

	b.sectionLabel("Description:")
	b.doc.SetFont("Times", "", sectionSize)
	b.doc.MultiCell(0, sectionSize+2, data.Description, "", "L", false)
	b.doc.Ln(3)

	b.numberedSection("Prevention:", data.Prevention)
	b.numberedSection("Treatment:", data.Treatment)
	if len(data.Diet) > 0 {
		b.numberedSection("Recommended Diet:", data.Diet)
	}
}

func (b *Builder) sectionLabel(label string) {
	b.doc.SetFont("Times", "U", sectionSize)
	b.doc.CellFormat(0, sectionSize+3, label, "", 1, "L", false, 0, "")
}

// numberedSection renders a label followed by a 1-based numbered list in
// store order. Empty lists still render the bare label, matching the base
// prevention/treatment sections which are required but may be empty.
func (b *Builder) numberedSection(label string, items []string) {
	b.sectionLabel(label)
	b.doc.SetFont("Times", "", sectionSize)
	for i, item := range items {
		b.doc.MultiCell(0, sectionSize+2, fmt.Sprintf("%d. %s", i+1, item), "", "L", false)
	}
	b.doc.Ln(3)
}

func (b *Builder) symptomBlock(bodyPart string, symptoms []string) {
	if bodyPart == "" && len(symptoms) == 0 {
		return
	}
	b.sectionLabel("Reported Symptoms:")
	b.doc.SetFont("Times", "", sectionSize)
	if bodyPart != "" {
		b.doc.CellFormat(0, sectionSize+2, fmt.Sprintf("Body Part: %s", bodyPart), "", 1, "L", false, 0, "")
	}
	for i, s := range symptoms {
		b.doc.CellFormat(0, sectionSize+2, fmt.Sprintf("%d. %s", i+1, s), "", 1, "L", false, 0, "")
	}
	b.doc.Ln(3)
}

// imageGallery places up to maxImages entries left-to-right on a fixed
// grid, wrapping when the next slot would cross the right margin. A path
// that does not resolve to a readable file gets a placeholder in its slot
// instead of aborting the document.
func (b *Builder) imageGallery(images []string) {
	if len(images) == 0 {
		return
	}
	b.sectionLabel("Sample Images:")
	b.doc.Ln(2)

	x := pageLeft
	y := b.doc.GetY()
	count := len(images)
	if count > maxImages {
		count = maxImages
	}
	for i := 0; i < count; i++ {
		if x+imageWidth > pageRight {
			x = pageLeft
			y += imageHeight + imageGap
		}
		path := filepath.Join(b.root, images[i])
		if fileReadable(path) {
			b.doc.ImageOptions(path, x, y, imageWidth, imageHeight, false, fpdf.ImageOptions{}, 0, "")
		} else {
			b.doc.SetFont("Times", "", footnoteSize)
			b.doc.Text(x, y+footnoteSize, fmt.Sprintf("Image %d not found.", i+1))
		}
		x += imageWidth + imageGap
	}
	b.doc.SetY(y + imageHeight + imageGap)
}

func (b *Builder) disclaimerLine() {
	b.doc.Ln(4)
	b.doc.SetFont("Helvetica", "I", footnoteSize)
	b.doc.SetTextColor(0, 128, 0)
	b.doc.CellFormat(0, footnoteSize+3, disclaimer, "", 1, "C", false, 0, "")
	b.doc.SetTextColor(0, 0, 0)
}

func fileReadable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
