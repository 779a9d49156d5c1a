package gr

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	glpkg "github.com/tinyrange/gr/internal/gl"
	"github.com/tinyrange/gr/internal/gl/gltest"
)

func texParams(fake *gltest.Fake) map[uint32]int32 {
	out := make(map[uint32]int32)
	for _, c := range fake.Named("glTexParameteri") {
		out[c.Args[1].(uint32)] = c.Args[2].(int32)
	}
	return out
}

func TestNewTextureDefaults(t *testing.T) {
	ctx, fake := newTestContext(t)
	tex := ctx.NewTexture()

	if tex.IsValid() {
		t.Fatalf("texture created before first upload")
	}
	if tex.Format() != FormatRGB || tex.IsCubemap() || tex.Target() != glpkg.Texture2D {
		t.Fatalf("unexpected defaults: %s flags=%b", tex.Format(), tex.Flags())
	}

	if err := tex.UpdateBuffer(2, 2, make([]byte, 12)); err != nil {
		t.Fatalf("UpdateBuffer: %v", err)
	}
	if !tex.IsValid() {
		t.Fatalf("texture not created by upload")
	}

	img, _ := fake.Last("glTexImage2D")
	if img.Args[0] != uint32(glpkg.Texture2D) || img.Args[2] != int32(glpkg.RGB) || img.Args[8] != true {
		t.Fatalf("unexpected upload %v", img)
	}
	params := texParams(fake)
	for _, pname := range []uint32{glpkg.TextureWrapS, glpkg.TextureWrapT, glpkg.TextureWrapR} {
		if params[pname] != glpkg.Repeat {
			t.Fatalf("wrap 0x%X = 0x%X, want REPEAT", pname, params[pname])
		}
	}
	if params[glpkg.TextureMinFilter] != glpkg.Linear || params[glpkg.TextureMagFilter] != glpkg.Linear {
		t.Fatalf("unexpected filters %v", params)
	}
	if fake.Count("glGenerateMipmap") != 0 {
		t.Fatalf("mipmaps generated without TextureMipmaps")
	}
	if w, h := tex.Size(); w != 2 || h != 2 {
		t.Fatalf("Size() = %dx%d", w, h)
	}
}

func TestTextureCubemapFace(t *testing.T) {
	ctx, fake := newTestContext(t)
	tex := ctx.NewTexture()
	tex.SetTarget(TextureCubemap)
	tex.SetFormat(FormatRGBA)

	faces := []struct {
		flag   TextureFlags
		target uint32
	}{
		{FacePositiveX, glpkg.TextureCubeMapPositiveX},
		{FaceNegativeY, glpkg.TextureCubeMapNegativeY},
		{FaceNegativeZ, glpkg.TextureCubeMapNegativeZ},
	}
	for _, f := range faces {
		tex.SetFace(f.flag)
		if err := tex.UpdateBuffer(4, 4, nil); err != nil {
			t.Fatalf("UpdateBuffer: %v", err)
		}
		img, _ := fake.Last("glTexImage2D")
		if img.Args[0] != f.target {
			t.Fatalf("face %b uploaded to 0x%X, want 0x%X", f.flag, img.Args[0], f.target)
		}
		if img.Args[8] != false {
			t.Fatalf("nil pixels passed as data")
		}
	}

	bind := fake.Named("glBindTexture")[0]
	if bind.Args[0] != uint32(glpkg.TextureCubeMap) {
		t.Fatalf("cube map bound to 0x%X", bind.Args[0])
	}
	if fake.Count("glGenTextures") != 1 {
		t.Fatalf("texture regenerated on re-upload")
	}
}

func TestSetTargetPrefers2D(t *testing.T) {
	ctx, _ := newTestContext(t)
	tex := ctx.NewTexture()
	tex.SetTarget(Texture2D | TextureCubemap)
	if tex.IsCubemap() {
		t.Fatalf("2D should win when both kinds are given")
	}
}

func TestTextureFilters(t *testing.T) {
	tests := []struct {
		name     string
		flags    TextureFlags
		mipmaps  bool
		min, mag int32
	}{
		{"linear", FilterLinear, false, glpkg.Linear, glpkg.Linear},
		{"nearest", FilterNearest, false, glpkg.Nearest, glpkg.Nearest},
		{"trilinear", FilterTrilinear, true, glpkg.LinearMipmapLinear, glpkg.Linear},
		{"bilinear", FilterBilinear, true, glpkg.LinearMipmapNearest, glpkg.Linear},
		{"trilinear without mipmaps", FilterTrilinear, false, glpkg.Linear, glpkg.Linear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, fake := newTestContext(t)
			tex := ctx.NewTexture()
			tex.SetFiltering(tt.flags)
			tex.SetClamping(ClampEdge)
			if tt.mipmaps {
				tex.EnableMipmaps()
			}
			if err := tex.UpdateBuffer(1, 1, nil); err != nil {
				t.Fatalf("UpdateBuffer: %v", err)
			}
			params := texParams(fake)
			if params[glpkg.TextureMinFilter] != tt.min || params[glpkg.TextureMagFilter] != tt.mag {
				t.Fatalf("min=0x%X mag=0x%X, want 0x%X 0x%X",
					params[glpkg.TextureMinFilter], params[glpkg.TextureMagFilter], tt.min, tt.mag)
			}
			if params[glpkg.TextureWrapS] != glpkg.ClampToEdge {
				t.Fatalf("wrap = 0x%X, want CLAMP_TO_EDGE", params[glpkg.TextureWrapS])
			}
			if got := fake.Count("glGenerateMipmap"); (got == 1) != tt.mipmaps {
				t.Fatalf("glGenerateMipmap called %d times", got)
			}
		})
	}
}

func TestTexturePixelSize(t *testing.T) {
	ctx, fake := newTestContext(t)
	tex := ctx.NewTexture()
	tex.SetFormat(FormatRGBA)

	if err := tex.UpdateBuffer(2, 2, make([]byte, 15)); !errors.Is(err, ErrPixelSize) {
		t.Fatalf("expected ErrPixelSize, got %v", err)
	}
	if err := tex.UpdateBuffer(0, 2, nil); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if fake.Count("glGenTextures") != 0 {
		t.Fatalf("texture created for a rejected upload")
	}

	tex.SetFormat(TextureFormat(42))
	var lookupErr *LookupError
	if err := tex.UpdateBuffer(1, 1, nil); !errors.As(err, &lookupErr) {
		t.Fatalf("expected *LookupError, got %v", err)
	}
}

func TestTextureUpdateImage(t *testing.T) {
	ctx, fake := newTestContext(t)
	tex := ctx.NewTexture()

	src := image.NewGray(image.Rect(10, 10, 13, 12))
	src.SetGray(10, 10, color.Gray{Y: 200})
	if err := tex.UpdateImage(src); err != nil {
		t.Fatalf("UpdateImage: %v", err)
	}
	if tex.Format() != FormatRGBA {
		t.Fatalf("format = %s, want RGBA", tex.Format())
	}
	img, _ := fake.Last("glTexImage2D")
	if img.Args[3] != int32(3) || img.Args[4] != int32(2) || img.Args[6] != uint32(glpkg.RGBA) {
		t.Fatalf("unexpected upload %v", img)
	}
}

func TestTextureBind(t *testing.T) {
	ctx, fake := newTestContext(t)
	tex := ctx.NewTexture()
	if err := tex.UpdateBuffer(1, 1, nil); err != nil {
		t.Fatalf("UpdateBuffer: %v", err)
	}

	if err := tex.Bind(3); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if ctx.Bound(KindTexture) != tex.ID() || ctx.ActiveUnit() != 3 {
		t.Fatalf("slot=%d unit=%d", ctx.Bound(KindTexture), ctx.ActiveUnit())
	}
	unit, _ := fake.Last("glActiveTexture")
	if unit.Args[0] != uint32(glpkg.Texture0+3) {
		t.Fatalf("active texture 0x%X", unit.Args[0])
	}

	// Unbinding selects the texture's own unit again.
	other := ctx.NewTexture()
	other.UpdateBuffer(1, 1, nil)
	if err := other.Bind(0); err != nil {
		t.Fatalf("Bind(0): %v", err)
	}
	if err := tex.Unbind(); err != nil {
		t.Fatalf("Unbind: %v", err)
	}
	unit, _ = fake.Last("glActiveTexture")
	if ctx.ActiveUnit() != 3 || unit.Args[0] != uint32(glpkg.Texture0+3) {
		t.Fatalf("unit=%d, driver unit 0x%X", ctx.ActiveUnit(), unit.Args[0])
	}
	if ctx.Bound(KindTexture) != 0 {
		t.Fatalf("slot holds %d after unbinding the active unit", ctx.Bound(KindTexture))
	}

	if err := tex.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if ctx.Bound(KindTexture) != 0 || tex.IsValid() {
		t.Fatalf("destroyed texture still bound or valid")
	}
	if err := tex.Destroy(); err != nil {
		t.Fatalf("second Destroy: %v", err)
	}
}

func TestTextureUploadKeepsBinding(t *testing.T) {
	ctx, fake := newTestContext(t)
	bound := ctx.NewTexture()
	if err := bound.UpdateBuffer(1, 1, nil); err != nil {
		t.Fatalf("UpdateBuffer: %v", err)
	}
	if err := bound.Bind(0); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	tex := ctx.NewTexture()
	if err := tex.UpdateBuffer(2, 2, nil); err != nil {
		t.Fatalf("UpdateBuffer: %v", err)
	}
	last, _ := fake.Last("glBindTexture")
	if ctx.Bound(KindTexture) != bound.ID() || last.Args[1] != uint32(bound.ID()) {
		t.Fatalf("slot=%d, last %v, want %d on both", ctx.Bound(KindTexture), last, bound.ID())
	}

	// A cube map upload leaves the 2D binding alone.
	cube := ctx.NewTexture()
	cube.SetTarget(TextureCubemap)
	if err := cube.UpdateBuffer(2, 2, nil); err != nil {
		t.Fatalf("UpdateBuffer(cube): %v", err)
	}
	last, _ = fake.Last("glBindTexture")
	if last.Args[0] != uint32(glpkg.TextureCubeMap) || last.Args[1] != uint32(0) {
		t.Fatalf("expected cube map target unbound, got %v", last)
	}
	if ctx.Bound(KindTexture) != bound.ID() {
		t.Fatalf("slot=%d, want %d", ctx.Bound(KindTexture), bound.ID())
	}
}

func TestTextureSizeLimits(t *testing.T) {
	ctx, fake := newTestContext(t)
	tex := ctx.NewTexture()
	huge := math.MaxInt32
	huge++
	for _, size := range [][2]int{{0, 1}, {1, -1}, {huge, 1}} {
		if err := tex.UpdateBuffer(size[0], size[1], nil); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("%dx%d: expected ErrInvalidSize, got %v", size[0], size[1], err)
		}
	}
	if len(fake.Calls) != 0 {
		t.Fatalf("invalid sizes reached the driver: %v", fake.Calls)
	}
}
