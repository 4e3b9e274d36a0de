// Command goboy is a minimal headless host: it loads a ROM (and
// optional boot ROM/save RAM), runs a fixed number of machine cycles,
// writes the final frame to a PNG and dumps save RAM on exit. The
// desktop window, debug views and browser bridge other hosts in this
// ecosystem ship are out of scope here (see DESIGN.md).
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/thelolagemann/gomeboy/internal/gameboy"
	"github.com/thelolagemann/gomeboy/internal/ppu"
	"github.com/thelolagemann/gomeboy/internal/types"
)

func main() {
	romPath := flag.String("rom", "", "path to the ROM image")
	bootPath := flag.String("boot", "", "path to an optional boot ROM image")
	savePath := flag.String("save", "", "path to load/persist battery RAM")
	model := flag.String("model", "auto", "auto, dmg or cgb")
	cycles := flag.Uint64("cycles", 4194304*5, "number of machine cycles to run before snapshotting the frame")
	framePNG := flag.String("frame-out", "frame.png", "where to write the final framebuffer")
	flag.Parse()

	log := logrus.NewEntry(logrus.New())

	if *romPath == "" {
		log.Fatal("missing -rom")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.WithError(err).Fatal("reading rom")
	}

	var opts []gameboy.Option
	opts = append(opts, gameboy.WithLogger(log))

	switch *model {
	case "dmg":
		opts = append(opts, gameboy.WithModel(types.ModelDMG))
	case "cgb":
		opts = append(opts, gameboy.WithModel(types.ModelCGB))
	}

	if *bootPath != "" {
		boot, err := os.ReadFile(*bootPath)
		if err != nil {
			log.WithError(err).Fatal("reading boot rom")
		}
		opts = append(opts, gameboy.WithBootROM(boot))
	}

	if *savePath != "" {
		if data, err := os.ReadFile(*savePath); err == nil {
			opts = append(opts, gameboy.WithSaveRAM(data))
		}
	}

	gb, err := gameboy.New(rom, opts...)
	if err != nil {
		log.WithError(err).Fatal("building machine")
	}

	for i := uint64(0); i < *cycles; i++ {
		gb.Tick()
	}

	if err := writeFramePNG(*framePNG, gb.Framebuffer()); err != nil {
		log.WithError(err).Fatal("writing frame")
	}

	if *savePath != "" {
		if data := gb.DumpSaveRAM(); data != nil {
			if err := os.WriteFile(*savePath, data, 0o644); err != nil {
				log.WithError(err).Fatal("writing save ram")
			}
		}
	}
}

func writeFramePNG(path string, frame *[ppu.ScreenHeight][ppu.ScreenWidth][3]uint8) error {
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			px := frame[y][x]
			img.Set(x, y, color.RGBA{R: px[0], G: px[1], B: px[2], A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
