package document

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

// A5 portrait, in points.
const (
	pageWidth  = 420.0
	pageHeight = 594.0

	margin      = 20.0
	textX       = 30.0
	lineSpacing = 14.0
	qrSize      = 140.0
	qrPixels    = 256
	qrImageName = "label-qr"
)

// LabelRenderer draws shipping labels as single-page PDFs.
type LabelRenderer struct{}

func NewLabelRenderer() *LabelRenderer {
	return &LabelRenderer{}
}

func (LabelRenderer) RenderLabel(label domain.ShippingLabel) ([]byte, error) {
	qr, err := RenderScannableCode(label.ScanPayload())
	if err != nil {
		return nil, err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetDrawColor(51, 51, 51)
	pdf.SetLineWidth(1)
	pdf.Rect(margin, margin, pageWidth-2*margin, pageHeight-2*margin, "D")

	pdf.SetTextColor(26, 26, 26)
	pdf.SetFont("Helvetica", "", 18)
	pdf.Text(textX, 60, "Shipping Label")

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(textX, 90, fmt.Sprintf("Order ID: %d", label.OrderID))
	pdf.Text(textX, 110, tr("Tracking: "+label.TrackingNumber))
	pdf.Text(textX, 140, "Ship To:")
	pdf.Text(textX, 160, tr(label.RecipientName))

	pdf.SetFont("Helvetica", "", 11)
	for i, line := range label.AddressLines {
		pdf.Text(textX, 176+float64(i)*lineSpacing, tr(line))
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(qrImageName, opts, bytes.NewReader(qr))
	pdf.ImageOptions(qrImageName, pageWidth-qrSize-40, pageHeight-60-qrSize, qrSize, qrSize, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render label pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderScannableCode encodes payload as a PNG QR code.
func RenderScannableCode(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
