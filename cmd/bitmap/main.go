package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/bodgit/bitmap"
	"github.com/bodgit/bitmap/bmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
)

const defaultConfig = "bitmap.yaml"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLibrary(c *cli.Context) (*bitmap.Library, error) {
	config, err := bitmap.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		config.DB = c.String("db")
	}

	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	return bitmap.New(config, logger)
}

type info struct {
	File          string         `json:"file"`
	Header        bmp.FileHeader `json:"fileHeader"`
	InfoHeader    bmp.InfoHeader `json:"infoHeader"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	RowStride     int            `json:"rowStride"`
	Padding       int            `json:"padding"`
	BigEndianHost bool           `json:"bigEndianHost"`
}

func readInfo(file string) (*info, error) {
	// Load validates the whole file, DecodeConfig recovers the raw headers
	m, err := bmp.Load(file)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	config, err := bmp.DecodeConfig(f)
	if err != nil {
		return nil, err
	}

	return &info{
		File:          file,
		Header:        config.File,
		InfoHeader:    config.Info,
		Width:         m.Width(),
		Height:        m.Height(),
		RowStride:     m.RowStride(),
		Padding:       m.Padding(),
		BigEndianHost: bmp.BigEndian(),
	}, nil
}

func printInfo(w io.Writer, i *info) {
	fmt.Fprintf(w, "Filename: \t%v\n", i.File)
	fmt.Fprintf(w, "Filesize: \t%v bytes\n", i.Header.Size)
	fmt.Fprintf(w, "Width: \t\t%v px\n", i.Width)
	fmt.Fprintf(w, "Height: \t%v px\n", i.Height)
	fmt.Fprintf(w, "BitCount: \t%v bits\n", i.InfoHeader.BitCount)
	fmt.Fprintf(w, "PixelOffset: \t%v bytes\n", i.Header.OffBits)
	fmt.Fprintf(w, "ImageSize: \t%v bytes\n", i.InfoHeader.SizeImage)
	fmt.Fprintf(w, "Stride: \t%v bytes\n", i.RowStride)
	fmt.Fprintf(w, "Padding: \t%v bytes\n", i.Padding)
}

func convert(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	return bmp.FromImage(m, bmp.BGR).Save(dst)
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "bitmap"
	app.Usage = "24-bit BMP image utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"BITMAP_CONFIG"},
			Value:   defaultConfig,
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"BITMAP_DB"},
			Value:   bitmap.DefaultDB,
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "copy",
			Usage:     "Load a bitmap and write it back out",
			ArgsUsage: "SOURCE TARGET",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := bmp.Load(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := m.Save(c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "info",
			Usage:     "Show the headers and geometry of a bitmap",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "json",
					Usage: "print as JSON",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				i, err := readInfo(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if !c.Bool("json") {
					printInfo(c.App.Writer, i)
					return nil
				}

				b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(i, "", "  ")
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Fprintln(c.App.Writer, string(b))

				return nil
			},
		},
		{
			Name:        "convert",
			Usage:       "Convert an image to a 24-bit bitmap",
			Description: "Reads PNG, JPEG, GIF or BMP of any bit depth",
			ArgsUsage:   "SOURCE TARGET",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := convert(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "import",
			Usage:     "Import bitmaps into the database",
			ArgsUsage: "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := newLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				for _, file := range c.Args().Slice() {
					if _, err := l.Import(file); err != nil {
						return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
					}
				}

				return nil
			},
		},
		{
			Name:      "export",
			Usage:     "Write a bitmap from the database to a file",
			ArgsUsage: "SHA1 FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := newLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				if err := l.Export(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List bitmaps in the database",
			Action: func(c *cli.Context) error {
				l, err := newLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				entries, err := l.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, e := range entries {
					fmt.Fprintf(c.App.Writer, "%s %5dx%-5d %s\n", e.SHA1, e.Width, e.Height, e.Name)
				}

				return nil
			},
		},
		{
			Name:      "scan",
			Usage:     "Scan filesystem and import every bitmap found",
			ArgsUsage: "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := newLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				if err := l.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
