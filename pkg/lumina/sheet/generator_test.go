package sheet

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ukaji3/lumina-go/pkg/lumina/fetch"
	"github.com/ukaji3/lumina-go/pkg/lumina/inspect"
	"github.com/ukaji3/lumina-go/pkg/lumina/models"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	data := pngBytes(t, 360, 160)
	mux := http.NewServeMux()
	mux.HandleFunc("/product.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	})
	mux.HandleFunc("/not-an-image.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>nope</html>"))
	})
	mux.HandleFunc("/missing.png", http.NotFound)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	f := fetch.New(fetch.Options{Timeout: 2 * time.Second, AllowPrivateHosts: true}, nil)
	t.Cleanup(f.Close)
	opts.Now = func() time.Time { return testNow }
	return New(f, opts, nil)
}

func readBack(t *testing.T, data []byte, sheetName string) models.SheetData {
	t.Helper()
	wb, err := inspect.Bytes("test.xlsx", data)
	if err != nil {
		t.Fatalf("inspect.Bytes failed: %v", err)
	}
	sd, ok := wb.Sheets[sheetName]
	if !ok {
		t.Fatalf("sheet %q not found", sheetName)
	}
	return sd
}

func TestGenerateSpecSheet(t *testing.T) {
	g := newTestGenerator(t, Options{})

	res, err := g.Generate(context.Background(), kleoRecord())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Fallback {
		t.Fatal("Expected the spec sheet, got the fallback document")
	}
	for role, status := range res.Images {
		if status != ImageAbsent {
			t.Errorf("image %s = %s, expected absent", role, status)
		}
	}

	sd := readBack(t, res.Bytes, DefaultSheetName)

	if v := inspect.CellValue(sd, 8, 7); v != "3 set" {
		t.Errorf("H7 = %v, expected '3 set'", v)
	}
	if v := inspect.CellValue(sd, 4, 7); v != "Kleo X58" {
		t.Errorf("D7 = %v, expected 'Kleo X58'", v)
	}
	if v := inspect.CellValue(sd, 1, 1); v != "Project: Riverside Lobby" {
		t.Errorf("A1 = %v", v)
	}

	merges := make(map[string]bool)
	for _, m := range sd.Merges {
		merges[m] = true
	}
	for _, m := range SpecMerges {
		if !merges[m.String()] {
			t.Errorf("merge %s missing from workbook", m)
		}
	}

	if len(sd.Pictures) != 0 {
		t.Errorf("Expected no pictures, got %d", len(sd.Pictures))
	}
	if len(sd.PrintAreas) != 1 {
		t.Fatalf("Expected 1 print area, got %d", len(sd.PrintAreas))
	}
	if pa := sd.PrintAreas[0]; pa.R1 != 1 || pa.C1 != 1 || pa.R2 != 14 || pa.C2 != 9 {
		t.Errorf("print area = %+v, expected A1:I14", pa)
	}
}

func TestGenerateImages(t *testing.T) {
	srv := newImageServer(t)
	g := newTestGenerator(t, Options{})

	rec := models.NewProductRecord(map[string]any{
		"product_name":     "Kleo X58",
		"product_image":    srv.URL + "/product.png",
		"photometry_image": srv.URL + "/missing.png",
		"dimension_image":  srv.URL + "/not-an-image.png",
	})

	res, err := g.Generate(context.Background(), rec)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	expected := map[fetch.Role]ImageStatus{
		fetch.RoleProduct:    ImageEmbedded,
		fetch.RolePhotometry: ImagePlaceholder,
		fetch.RoleDimension:  ImagePlaceholder,
	}
	for role, status := range expected {
		if res.Images[role] != status {
			t.Errorf("image %s = %s, expected %s", role, res.Images[role], status)
		}
	}

	sd := readBack(t, res.Bytes, DefaultSheetName)

	if len(sd.Pictures) != 1 {
		t.Fatalf("Expected 1 picture, got %d", len(sd.Pictures))
	}
	pic := sd.Pictures[0]
	if pic.Cell != "C8" || pic.Extension != ".png" {
		t.Errorf("picture at %s (%s), expected C8 (.png)", pic.Cell, pic.Extension)
	}
	if pic.OffsetX != 20 || pic.OffsetY != 6 {
		t.Errorf("picture offset = +%d+%d, expected +20+6", pic.OffsetX, pic.OffsetY)
	}

	if v := inspect.CellValue(sd, 6, 8); v != "Photometry image unavailable" {
		t.Errorf("F8 = %v, expected photometry placeholder", v)
	}
	if n := inspect.CellNote(sd, 6, 8); !strings.Contains(n, srv.URL+"/missing.png") {
		t.Errorf("F8 note = %q, expected it to name the source URL", n)
	}
	if v := inspect.CellValue(sd, 3, 14); v != "Dimension image unavailable" {
		t.Errorf("C14 = %v, expected dimension placeholder", v)
	}
	if v := inspect.CellValue(sd, 3, 8); v != nil && v != "" {
		t.Errorf("C8 = %v, expected the embedded image to leave it empty", v)
	}
}

func TestGenerateWithoutFetcher(t *testing.T) {
	g := New(nil, Options{}, nil)

	rec := models.NewProductRecord(map[string]any{"product_image": "https://img.example.com/a.jpg"})
	res, err := g.Generate(context.Background(), rec)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Images[fetch.RoleProduct] != ImagePlaceholder {
		t.Errorf("product image = %s, expected placeholder", res.Images[fetch.RoleProduct])
	}
}

func TestGenerateFallback(t *testing.T) {
	g := newTestGenerator(t, Options{SheetName: "Spec:Sheet"})

	res, err := g.Generate(context.Background(), kleoRecord())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !res.Fallback {
		t.Fatal("Expected the fallback document")
	}

	sd := readBack(t, res.Bytes, DefaultFallbackSheetName)
	if v := inspect.CellValue(sd, 1, 1); v != "Field" {
		t.Errorf("A1 = %v, expected 'Field'", v)
	}
	if v := inspect.CellValue(sd, 2, 2); v != "Kleo X58" {
		t.Errorf("B2 = %v, expected 'Kleo X58'", v)
	}
	if len(sd.Pictures) != 0 {
		t.Errorf("fallback document should carry no pictures")
	}
}

func TestGenerateTotalFailure(t *testing.T) {
	g := newTestGenerator(t, Options{SheetName: "Spec:Sheet", FallbackSheetName: "Product/Data"})

	res, err := g.Generate(context.Background(), kleoRecord())
	if !errors.Is(err, ErrTotalFailure) {
		t.Fatalf("Expected ErrTotalFailure, got %v", err)
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("Expected a GenerationError in the chain, got %v", err)
	}
	if res != nil {
		t.Error("total failure must not return a partial result")
	}
}

func TestImageExtension(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://img.example.com/a.JPG", ".jpg"},
		{"https://img.example.com/a.jpeg?w=200", ".jpeg"},
		{"https://img.example.com/a.gif#top", ".gif"},
		{"https://img.example.com/image", ".png"},
		{"https://img.example.com/a.webp", ".png"},
	}

	for _, tt := range tests {
		if got := ImageExtension(tt.url); got != tt.expected {
			t.Errorf("ImageExtension(%q) = %q, expected %q", tt.url, got, tt.expected)
		}
	}
}
