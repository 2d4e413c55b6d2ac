package renderers

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

const (
	pdfFormat      = "pdf"
	pdfPageWidth   = 190.0
	pdfMarginLeft  = 10.0
	pdfMarginTop   = 10.0
	pdfMarginRight = 10.0
	pdfLineHeight  = 5.0
)

// methodColors are the badge fills per HTTP method. Unknown methods are gray.
var methodColors = map[string][3]int{
	"GET":     {97, 175, 254},
	"POST":    {73, 204, 144},
	"PUT":     {252, 161, 48},
	"PATCH":   {80, 227, 194},
	"DELETE":  {249, 62, 62},
	"HEAD":    {144, 97, 249},
	"OPTIONS": {108, 117, 125},
}

// PDFRenderer documents a collection as a PDF.
type PDFRenderer struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	tocItems []tocItem
}

type tocItem struct {
	title  string
	level  int
	linkID int
}

// NewPDFRenderer creates a new PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Format returns the output format name.
func (c *PDFRenderer) Format() string {
	return pdfFormat
}

// Render writes a title page, a table of contents and one section per folder.
func (c *PDFRenderer) Render(collection *domain.PostmanCollection, output io.Writer) error {
	c.pdf = gofpdf.New("P", "mm", "A4", "")
	c.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	c.pdf.SetDrawColor(180, 180, 180)
	c.tr = c.pdf.UnicodeTranslatorFromDescriptor("")
	c.tocItems = nil

	sections := collectSections(collection)

	// First pass: links for every TOC entry
	c.collectTOC(collection, sections)

	c.addTitlePage(collection)
	c.addTableOfContents()
	c.addContent(collection, sections)

	if err := c.pdf.Output(output); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

func (c *PDFRenderer) collectTOC(collection *domain.PostmanCollection, sections []section) {
	c.addTOCItem("Overview", 1)

	if len(collection.Variable) > 0 {
		c.addTOCItem("Variables", 1)
	}

	c.addTOCItem("Requests", 1)

	for _, s := range sections {
		c.addTOCItem(s.title, 2)

		for _, ep := range s.endpoints {
			c.addTOCItem(fmt.Sprintf("%s %s", formatMethod(ep.req.Method), ep.name), 3)
		}
	}
}

func (c *PDFRenderer) addTOCItem(title string, level int) {
	c.tocItems = append(c.tocItems, tocItem{title: title, level: level, linkID: c.pdf.AddLink()})
}

func (c *PDFRenderer) addTitlePage(collection *domain.PostmanCollection) {
	c.pdf.AddPage()

	// Title
	c.pdf.SetFont("Arial", "B", 28)
	c.pdf.Ln(40)
	c.pdf.MultiCell(pdfPageWidth, 15, c.tr(collection.Info.Name), "", "C", false)
	c.pdf.Ln(5)

	// Schema
	c.pdf.SetFont("Arial", "", 14)
	c.pdf.SetTextColor(100, 100, 100)
	c.pdf.CellFormat(pdfPageWidth, 8, "Postman Collection v2.1.0", "", 1, "C", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.Ln(20)

	if collection.Info.Description != "" {
		c.pdf.SetFont("Arial", "", 11)
		c.pdf.MultiCell(pdfPageWidth, 6, c.tr(plainText(collection.Info.Description)), "", "C", false)
	}

	c.pdf.Ln(30)

	c.pdf.SetFont("Arial", "", 10)
	c.pdf.SetTextColor(128, 128, 128)
	c.pdf.CellFormat(pdfPageWidth, 6, "API Collection Document", "", 1, "C", false, 0, "")
	c.pdf.CellFormat(pdfPageWidth, 6, c.tr(collection.Info.PostmanID), "", 1, "C", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *PDFRenderer) addTableOfContents() {
	c.pdf.AddPage()

	c.pdf.SetFont("Arial", "B", 20)
	c.pdf.CellFormat(pdfPageWidth, 10, "Table of Contents", "", 1, "", false, 0, "")
	c.pdf.Ln(8)

	for _, item := range c.tocItems {
		indent := float64(item.level-1) * 8

		switch item.level {
		case 1:
			c.pdf.SetFont("Arial", "B", 12)
		case 2:
			c.pdf.SetFont("Arial", "B", 10)
		default:
			c.pdf.SetFont("Arial", "", 9)
		}

		c.pdf.SetX(pdfMarginLeft + indent)
		c.pdf.CellFormat(pdfPageWidth-indent, pdfLineHeight, c.tr(truncate(item.title, 60)), "", 1, "", false, item.linkID, "")
	}
}

func (c *PDFRenderer) addContent(collection *domain.PostmanCollection, sections []section) {
	tocIndex := 0

	// Overview
	c.pdf.AddPage()
	c.setLinkDest(tocIndex)
	tocIndex++

	c.addSectionHeader("Overview")

	if collection.Info.Description != "" {
		c.pdf.SetFont("Arial", "", 10)
		c.pdf.MultiCell(pdfPageWidth, 5, c.tr(plainText(collection.Info.Description)), "", "", false)
		c.pdf.Ln(4)
	}

	c.addSubHeader("Authentication")
	c.pdf.SetFont("Arial", "", 9)
	c.pdf.MultiCell(pdfPageWidth, 4, c.tr(describeAuth(collection.Auth)), "", "", false)
	c.pdf.Ln(2)

	if len(collection.Event) > 0 {
		c.addSubHeader("Collection Scripts")
		c.addScripts(collection.Event)
	}

	// Variables
	if len(collection.Variable) > 0 {
		c.checkPageBreak(40)
		c.setLinkDest(tocIndex)
		tocIndex++

		c.addSectionHeader("Variables")
		c.addVariableTable(collection.Variable)
	}

	// Requests header
	c.pdf.AddPage()
	c.setLinkDest(tocIndex)
	tocIndex++

	c.addSectionHeader("Requests")
	c.pdf.Ln(4)

	for _, s := range sections {
		c.pdf.AddPage()
		c.setLinkDest(tocIndex)
		tocIndex++

		// Section header
		c.pdf.SetFont("Arial", "B", 14)
		c.pdf.SetFillColor(240, 240, 240)
		c.pdf.CellFormat(pdfPageWidth, 8, c.tr(s.title), "", 1, "", true, 0, "")
		c.pdf.Ln(4)

		if s.description != "" {
			c.pdf.SetFont("Arial", "", 10)
			c.pdf.MultiCell(pdfPageWidth, 5, c.tr(plainText(s.description)), "", "", false)
			c.pdf.Ln(4)
		}

		if s.auth != nil {
			c.pdf.SetFont("Arial", "I", 9)
			c.pdf.CellFormat(pdfPageWidth, 5, c.tr("Authentication: "+describeAuth(s.auth)), "", 1, "", false, 0, "")
			c.pdf.Ln(2)
		}

		c.addEndpointsSummary(s.endpoints, tocIndex)
		c.pdf.Ln(6)

		for _, ep := range s.endpoints {
			c.checkPageBreak(50)
			c.setLinkDest(tocIndex)
			tocIndex++

			c.addEndpoint(ep)
		}

		c.pdf.Ln(4)
	}
}

func (c *PDFRenderer) setLinkDest(tocIndex int) {
	if tocIndex < len(c.tocItems) {
		c.pdf.SetLink(c.tocItems[tocIndex].linkID, -1, -1)
	}
}

func (c *PDFRenderer) addSectionHeader(title string) {
	c.pdf.SetFont("Arial", "B", 18)
	c.pdf.CellFormat(pdfPageWidth, 10, c.tr(title), "", 1, "", false, 0, "")
	c.pdf.Ln(4)
}

func (c *PDFRenderer) addSubHeader(title string) {
	c.pdf.SetFont("Arial", "B", 10)
	c.pdf.SetTextColor(60, 60, 60)
	c.pdf.CellFormat(pdfPageWidth, 6, c.tr(title), "", 1, "", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)
}

func (c *PDFRenderer) addEndpoint(ep endpoint) {
	req := ep.req

	c.drawMethodBadge(formatMethod(req.Method), ep.name)

	c.pdf.SetFont("Courier", "", 9)
	c.pdf.SetTextColor(0, 102, 204)
	c.pdf.MultiCell(pdfPageWidth, 4, c.tr(req.URL.Raw), "", "", false)
	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.Ln(1)

	if req.Description != "" {
		c.pdf.SetFont("Arial", "", 9)
		c.pdf.MultiCell(pdfPageWidth, 4, c.tr(plainText(req.Description)), "", "", false)
	}

	c.pdf.Ln(2)

	if req.Auth != nil {
		c.pdf.SetFont("Arial", "I", 9)
		c.pdf.CellFormat(pdfPageWidth, 5, c.tr("Authentication: "+describeAuth(req.Auth)), "", 1, "", false, 0, "")
	}

	if len(req.Header) > 0 {
		c.addSubHeader("Headers")

		rows := make([]pdfRow, 0, len(req.Header))
		for _, h := range req.Header {
			rows = append(rows, pdfRow{cells: []string{h.Key, h.Value, enabledLabel(!h.Disabled)}})
		}

		c.drawTable(headerTable, rows)
	}

	if len(req.URL.Variable) > 0 {
		c.addSubHeader("Path Variables")

		rows := make([]pdfRow, 0, len(req.URL.Variable))
		for _, v := range req.URL.Variable {
			rows = append(rows, pdfRow{cells: []string{v.Key, v.Value, plainText(v.Description)}})
		}

		c.drawTable(pathVariableTable, rows)
	}

	if len(req.URL.Query) > 0 {
		c.addSubHeader("Query Parameters")

		rows := make([]pdfRow, 0, len(req.URL.Query))
		for _, q := range req.URL.Query {
			rows = append(rows, pdfRow{cells: []string{q.Key, q.Value, enabledLabel(!q.Disabled), plainText(q.Description)}})
		}

		c.drawTable(queryTable, rows)
	}

	if req.Body != nil {
		label, content := describeBody(req.Body)
		c.addSubHeader("Body")
		c.addExample(label, content)
	}

	c.drawSeparator()
}

func (c *PDFRenderer) drawMethodBadge(method, name string) {
	c.pdf.SetFont("Arial", "B", 11)

	r, g, b := methodColor(method)
	c.pdf.SetFillColor(r, g, b)
	c.pdf.SetTextColor(255, 255, 255)

	badgeWidth := float64(len(method)*3) + 8
	c.pdf.CellFormat(badgeWidth, 7, method, "", 0, "C", true, 0, "")

	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.CellFormat(pdfPageWidth-badgeWidth, 7, c.tr(" "+name), "", 1, "", false, 0, "")
	c.pdf.Ln(2)
}

func (c *PDFRenderer) drawSeparator() {
	c.pdf.Ln(2)

	y := c.pdf.GetY()
	c.pdf.SetDrawColor(220, 220, 220)
	c.pdf.Line(pdfMarginLeft, y, pdfMarginLeft+pdfPageWidth, y)
	c.pdf.SetDrawColor(180, 180, 180)

	c.pdf.Ln(6)
}

func (c *PDFRenderer) addVariableTable(vars []domain.PostmanVariable) {
	rows := make([]pdfRow, 0, len(vars))
	for _, v := range vars {
		rows = append(rows, pdfRow{cells: []string{v.Key, v.Value, v.Type, plainText(v.Description)}})
	}

	c.drawTable(variableTable, rows)
}

func (c *PDFRenderer) addScripts(events []domain.PostmanEvent) {
	for _, e := range events {
		c.addExample(e.Listen, strings.Join(e.Script.Exec, "\n"))
	}
}

// pdfTable describes the columns of a bordered table.
type pdfTable struct {
	headers []string
	widths  []float64
	aligns  []string
	size    float64
}

// pdfRow is one table row. A non-zero link makes the whole row clickable.
type pdfRow struct {
	cells []string
	link  int
}

var (
	headerTable = pdfTable{
		headers: []string{"Name", "Value", "Enabled"},
		widths:  []float64{60, 110, 20},
		size:    8,
	}
	pathVariableTable = pdfTable{
		headers: []string{"Name", "Value", "Description"},
		widths:  []float64{50, 60, 80},
		size:    8,
	}
	queryTable = pdfTable{
		headers: []string{"Name", "Value", "Enabled", "Description"},
		widths:  []float64{45, 55, 20, 70},
		size:    8,
	}
	variableTable = pdfTable{
		headers: []string{"Name", "Value", "Type", "Description"},
		widths:  []float64{45, 70, 20, 55},
		size:    8,
	}
	summaryTable = pdfTable{
		headers: []string{"Name", "URL", "Method"},
		widths:  []float64{70, 100, 20},
		aligns:  []string{"L", "L", "C"},
		size:    9,
	}
)

func (c *PDFRenderer) drawTable(table pdfTable, rows []pdfRow) {
	c.pdf.SetFont("Arial", "B", table.size)
	c.pdf.SetFillColor(245, 245, 245)

	for i, header := range table.headers {
		c.pdf.CellFormat(table.widths[i], 6, header, "1", 0, "", true, 0, "")
	}
	c.pdf.Ln(-1)

	c.pdf.SetFont("Arial", "", table.size)
	for _, row := range rows {
		c.drawRow(table, row)
	}
	c.pdf.Ln(3)
}

func (c *PDFRenderer) drawRow(table pdfTable, row pdfRow) {
	cells := make([]string, len(row.cells))
	lines := 1

	for i, cell := range row.cells {
		cells[i] = c.tr(cell)

		if n := len(c.pdf.SplitLines([]byte(cells[i]), table.widths[i])); n > lines {
			lines = n
		}
	}

	height := float64(lines) * pdfLineHeight
	c.checkPageBreak(height)

	x, y := c.pdf.GetX(), c.pdf.GetY()

	if row.link > 0 {
		c.pdf.SetTextColor(0, 102, 204)
	}

	for i, cell := range cells {
		align := ""
		if i < len(table.aligns) {
			align = table.aligns[i]
		}

		c.pdf.SetXY(x, y)
		c.pdf.MultiCell(table.widths[i], pdfLineHeight, cell, "0", align, false)
		c.pdf.Rect(x, y, table.widths[i], height, "D")

		if row.link > 0 {
			c.pdf.Link(x, y, table.widths[i], height, row.link)
		}

		x += table.widths[i]
	}

	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.SetXY(pdfMarginLeft, y+height)
}

func (c *PDFRenderer) checkPageBreak(height float64) {
	_, pageHeight := c.pdf.GetPageSize()
	_, _, _, bottom := c.pdf.GetMargins()

	if c.pdf.GetY()+height > pageHeight-bottom-10 {
		c.pdf.AddPage()
	}
}

// addEndpointsSummary lists a section's requests, each row linking to the
// request's TOC destination starting at firstLink.
func (c *PDFRenderer) addEndpointsSummary(endpoints []endpoint, firstLink int) {
	if len(endpoints) == 0 {
		return
	}

	c.pdf.SetFont("Arial", "B", 11)
	c.pdf.CellFormat(pdfPageWidth, 6, "Requests in this section", "", 1, "", false, 0, "")
	c.pdf.Ln(2)

	rows := make([]pdfRow, 0, len(endpoints))
	for i, ep := range endpoints {
		row := pdfRow{cells: []string{truncate(ep.name, 60), ep.req.URL.Raw, formatMethod(ep.req.Method)}}
		if idx := firstLink + i; idx < len(c.tocItems) {
			row.link = c.tocItems[idx].linkID
		}

		rows = append(rows, row)
	}

	c.drawTable(summaryTable, rows)
}

func (c *PDFRenderer) addExample(title, content string) {
	c.checkPageBreak(30)

	c.pdf.SetFont("Arial", "I", 9)
	c.pdf.SetTextColor(60, 60, 60)
	c.pdf.CellFormat(pdfPageWidth, 6, c.tr(title+":"), "", 1, "", false, 0, "")
	c.pdf.SetTextColor(0, 0, 0)

	c.pdf.SetFont("Courier", "", 8)
	c.pdf.SetFillColor(250, 250, 250)
	c.checkPageBreak(float64(strings.Count(content, "\n")+1)*4 + 2)

	c.pdf.MultiCell(pdfPageWidth, 4, c.tr(content), "1", "", true)
	c.pdf.Ln(4)
}

func methodColor(method string) (r, g, b int) {
	if rgb, ok := methodColors[method]; ok {
		return rgb[0], rgb[1], rgb[2]
	}

	return 128, 128, 128
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "Yes"
	}

	return "No"
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit-3]) + "..."
}
