package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/spine/pkg/geometry"
	"github.com/taigrr/spine/pkg/math3d"
	"github.com/taigrr/spine/pkg/models"
	"github.com/taigrr/spine/pkg/regions"
	"github.com/taigrr/spine/pkg/scene"
	"github.com/taigrr/spine/pkg/spine"
)

func testParts() []Part {
	bone := &models.Material{Name: "bone", Color: color.RGBA{230, 220, 200, 255}, Opacity: 1, Roughness: 0.6}
	disc := &models.Material{Name: "disc", Color: color.RGBA{120, 160, 220, 255}, Opacity: 0.5, Transparent: true}
	return []Part{
		{Name: "lumbar/L1/body", Region: regions.Lumbar, Mesh: geometry.Cylinder("body", 1, 1, 1, 8), Material: bone},
		{Name: "lumbar/L2/body", Region: regions.Lumbar, Mesh: geometry.Cylinder("body", 1, 1, 1, 8), Material: bone.Clone()},
		{Name: "lumbar/disc", Region: regions.Lumbar, Mesh: geometry.Cylinder("annulus", 1, 1, 0.3, 8), Material: disc},
	}
}

func TestCollect(t *testing.T) {
	m := spine.Assemble()
	parts := Collect(m.Root)
	if len(parts) == 0 {
		t.Fatal("no parts collected")
	}

	var lumbarBody bool
	for _, p := range parts {
		if strings.Contains(p.Name, "hit-") {
			t.Errorf("indicator %q exported", p.Name)
		}
		if p.Name == "lumbar/L3/body" {
			lumbarBody = true
			if p.Region != regions.Lumbar {
				t.Errorf("L3 body region = %q", p.Region)
			}
		}
	}
	if !lumbarBody {
		t.Error(`missing part "lumbar/L3/body"`)
	}
}

func TestCollectBakesWorldTransform(t *testing.T) {
	root := scene.NewGroup("root")
	group := scene.NewGroup("g")
	group.Position = math3d.V3(0, 10, 0)
	mesh := geometry.Cylinder("c", 1, 1, 2, 8)
	child := scene.NewMesh("c", mesh, &models.Material{Opacity: 1})
	root.Add(group.Add(child))

	parts := Collect(root)
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	parts[0].Mesh.CalculateBounds()
	if got := parts[0].Mesh.Center().Y; got < 9.99 || got > 10.01 {
		t.Errorf("baked center Y = %v, want 10", got)
	}
	if mesh.Center().Y != 0 {
		t.Error("source mesh was modified")
	}
	if parts[0].Name != "g/c" {
		t.Errorf("name = %q, want g/c", parts[0].Name)
	}
}

func TestWriteGLB(t *testing.T) {
	parts := testParts()
	var buf bytes.Buffer
	if err := WriteGLTF(&buf, parts, true); err != nil {
		t.Fatalf("WriteGLTF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Fatal("missing GLB magic")
	}

	var doc gltf.Document
	if err := gltf.NewDecoder(&buf).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Nodes) != len(parts) {
		t.Errorf("nodes = %d, want %d", len(doc.Nodes), len(parts))
	}
	if len(doc.Meshes) != len(parts) {
		t.Errorf("meshes = %d, want %d", len(doc.Meshes), len(parts))
	}
	if len(doc.Materials) != 2 {
		t.Errorf("materials = %d, want 2 (identical bone deduped)", len(doc.Materials))
	}
	if doc.Nodes[0].Name != "lumbar/L1/body" {
		t.Errorf("node name = %q", doc.Nodes[0].Name)
	}
	if got := doc.Materials[1].AlphaMode; got != gltf.AlphaBlend {
		t.Errorf("disc alpha mode = %v, want blend", got)
	}
}

func TestWriteGLTFEmbedsBuffer(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGLTF(&buf, testParts(), false); err != nil {
		t.Fatalf("WriteGLTF: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("data:application/octet-stream;base64,")) {
		t.Error("buffer not embedded as data URI")
	}
}

func TestWriteSTL(t *testing.T) {
	parts := testParts()
	var buf bytes.Buffer
	if err := WriteSTL(&buf, parts); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	want := stlHeaderSize + 4 + stlFacetSize*TriangleCount(parts)
	if buf.Len() != want {
		t.Errorf("size = %d, want %d", buf.Len(), want)
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"spine.glb", FormatGLB, false},
		{"out/spine.GLTF", FormatGLTF, false},
		{"spine.stl", FormatSTL, false},
		{"shot.png", FormatPNG, false},
		{"shot.webp", FormatWebP, false},
		{"spine.obj", 0, true},
		{"spine", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("err = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatFor(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
			}
		})
	}
}

func TestSaveModelRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spine.glb")
	if err := SaveModel(path, testParts()); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("gltf.Open: %v", err)
	}
	if len(doc.Meshes) != 3 {
		t.Errorf("meshes = %d, want 3", len(doc.Meshes))
	}
}

func TestSaveWrongKind(t *testing.T) {
	dir := t.TempDir()
	if err := SaveModel(filepath.Join(dir, "a.png"), testParts()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("SaveModel png: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := SaveImage(filepath.Join(dir, "a.stl"), img); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("SaveImage stl: %v", err)
	}
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestDownsample(t *testing.T) {
	red := color.RGBA{200, 10, 10, 255}
	out := Downsample(solid(8, 6, red), 4, 3)
	if b := out.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("bounds = %v", b)
	}
	got := out.RGBAAt(2, 1)
	if absDiff(got.R, red.R) > 1 || absDiff(got.G, red.G) > 1 || got.A < 254 {
		t.Errorf("pixel = %v, want %v", got, red)
	}

	same := solid(4, 4, red)
	if Downsample(same, 4, 4) != same {
		t.Error("same-size downsample should return the input")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestEncodeImage(t *testing.T) {
	img := solid(4, 4, color.RGBA{10, 20, 30, 255})

	var pngBuf bytes.Buffer
	if err := EncodeImage(&pngBuf, img, FormatPNG); err != nil {
		t.Fatalf("png: %v", err)
	}
	decoded, err := png.Decode(&pngBuf)
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if decoded.Bounds().Dx() != 4 {
		t.Errorf("png width = %d", decoded.Bounds().Dx())
	}

	var webpBuf bytes.Buffer
	if err := EncodeImage(&webpBuf, img, FormatWebP); err != nil {
		t.Fatalf("webp: %v", err)
	}
	b := webpBuf.Bytes()
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Error("missing RIFF/WEBP header")
	}

	if err := EncodeImage(&webpBuf, img, FormatSTL); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("stl image err = %v", err)
	}
}

func BenchmarkWriteGLB(b *testing.B) {
	parts := Collect(spine.Assemble().Root)
	var buf bytes.Buffer
	for b.Loop() {
		buf.Reset()
		if err := WriteGLTF(&buf, parts, true); err != nil {
			b.Fatal(err)
		}
	}
}
