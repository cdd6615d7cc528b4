package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/bitmap/bmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	xbmp "golang.org/x/image/bmp"
)

func TestConvert(t *testing.T) {
	dir := t.TempDir()

	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{0xff, 0, 0, 0xff})
	src.Set(2, 1, color.NRGBA{0, 0, 0xff, 0xff})

	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, src))
	in := filepath.Join(dir, "in.png")
	require.NoError(t, ioutil.WriteFile(in, b.Bytes(), 0644))

	out := filepath.Join(dir, "out.bmp")
	require.NoError(t, convert(in, out))

	m, err := bmp.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0xff, 0, 0, 0, 0, 0, 0}, m.Row(0))
	assert.Equal(t, color.RGBA{0, 0, 0xff, 0xff}, m.At(2, 1))
}

func TestConvertPalettedBitmap(t *testing.T) {
	dir := t.TempDir()

	src := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	src.SetColorIndex(1, 1, 1)

	b := new(bytes.Buffer)
	require.NoError(t, xbmp.Encode(b, src))
	in := filepath.Join(dir, "in.bmp")
	require.NoError(t, ioutil.WriteFile(in, b.Bytes(), 0644))

	// The 8-bit original is rejected, the converted copy is not
	_, err := bmp.Load(in)
	assert.Error(t, err)

	out := filepath.Join(dir, "out.bmp")
	require.NoError(t, convert(in, out))

	i, err := readInfo(out)
	require.NoError(t, err)
	assert.Equal(t, 2, i.Width)
	assert.Equal(t, 2, i.Padding)
	assert.Equal(t, uint16(24), i.InfoHeader.BitCount)
	assert.Equal(t, uint32(bmp.HeaderSize+16), i.Header.Size)
}

func run(t *testing.T, args ...string) (string, int, error) {
	t.Helper()

	code := 0
	exiter, errWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(c int) { code = c }
	cli.ErrWriter = ioutil.Discard
	defer func() {
		cli.OsExiter, cli.ErrWriter = exiter, errWriter
	}()

	out := new(bytes.Buffer)
	app := newApp()
	app.Writer = out
	err := app.Run(append([]string{"bitmap"}, args...))

	return out.String(), code, err
}

func writeFixture(t *testing.T, file string, width, height int) []byte {
	t.Helper()

	m, err := bmp.NewImage(width, height, bmp.BGR)
	require.NoError(t, err)
	for i := range m.Pix() {
		m.Pix()[i] = byte(i)
	}
	require.NoError(t, m.Save(file))

	b, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	return b
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.bmp")
	want := writeFixture(t, good, 3, 2)

	bad := filepath.Join(dir, "bad.bmp")
	require.NoError(t, ioutil.WriteFile(bad, []byte("not a bitmap"), 0644))

	tables := []struct {
		name   string
		args   []string
		code   int
		output string
	}{
		{"copy", []string{"copy", good, filepath.Join(dir, "copy.bmp")}, 0, ""},
		{"copy rejected", []string{"copy", bad, filepath.Join(dir, "never.bmp")}, 1, ""},
		{"copy missing", []string{"copy", filepath.Join(dir, "missing.bmp"), filepath.Join(dir, "never.bmp")}, 1, ""},
		{"info", []string{"info", good}, 0, "Padding: \t3 bytes"},
		{"info rejected", []string{"info", bad}, 1, ""},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			out, code, err := run(t, table.args...)
			assert.Equal(t, table.code, code)
			if table.code != 0 {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, table.output)
		})
	}

	got, err := ioutil.ReadFile(filepath.Join(dir, "copy.bmp"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(filepath.Join(dir, "never.bmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestInfoJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "in.bmp")
	writeFixture(t, file, 5, 4)

	out, code, err := run(t, "info", "--json", file)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	var i info
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(out), &i))
	assert.Equal(t, file, i.File)
	assert.Equal(t, 5, i.Width)
	assert.Equal(t, 4, i.Height)
	assert.Equal(t, 15, i.RowStride)
	assert.Equal(t, 1, i.Padding)
	assert.Equal(t, uint16(bmp.Signature), i.Header.Type)
	assert.Equal(t, uint32(bmp.HeaderSize+4*16), i.Header.Size)
	assert.Equal(t, uint32(bmp.InfoHeaderSize), i.InfoHeader.Size)
}

func TestCatalogCommands(t *testing.T) {
	dir := t.TempDir()
	global := []string{
		"--db", filepath.Join(dir, "test.db"),
		"--config", filepath.Join(dir, "missing.yaml"),
	}

	images := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(filepath.Join(images, "sub"), 0755))
	want := writeFixture(t, filepath.Join(images, "a.bmp"), 2, 2)
	writeFixture(t, filepath.Join(images, "sub", "b.bmp"), 4, 1)
	bad := filepath.Join(images, "bad.bmp")
	require.NoError(t, ioutil.WriteFile(bad, []byte("BM"), 0644))

	_, code, err := run(t, append(global, "import", filepath.Join(images, "a.bmp"))...)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	_, code, err = run(t, append(global, "import", bad)...)
	assert.Error(t, err)
	assert.Equal(t, 1, code)

	out, _, err := run(t, append(global, "list")...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], " a.bmp"))
	sha := strings.Fields(lines[0])[0]

	exported := filepath.Join(dir, "exported.bmp")
	_, code, err = run(t, append(global, "export", sha, exported)...)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	got, err := ioutil.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, code, err = run(t, append(global, "export", strings.Repeat("0", 40), exported)...)
	assert.Error(t, err)
	assert.Equal(t, 1, code)

	// The broken file is skipped rather than failing the scan
	_, code, err = run(t, append(global, "scan", images)...)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	out, _, err = run(t, append(global, "list")...)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
	assert.Contains(t, out, "b.bmp")
}
