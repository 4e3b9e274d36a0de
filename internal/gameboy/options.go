package gameboy

import (
	"github.com/sirupsen/logrus"

	"github.com/thelolagemann/gomeboy/internal/serial"
	"github.com/thelolagemann/gomeboy/internal/types"
)

// config accumulates the builder options before any subsystem is
// constructed: a post-construction option could only tweak an
// already-built machine, but model and boot ROM both decide how the
// CPU/PPU/bus are constructed in the first place.
type config struct {
	model      types.Model
	bootROM    []byte
	saveRAM    []byte
	sampleRate int
	log        *logrus.Entry
	serialTap  serial.Tap
}

func defaultConfig() config {
	discard := logrus.New()
	discard.SetOutput(discardWriter{})
	return config{
		model:      types.ModelAutomatic,
		sampleRate: 44100,
		log:        logrus.NewEntry(discard),
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Option configures the machine a Builder constructs.
type Option func(*config)

// WithModel forces DMG or CGB behaviour instead of selecting it from
// the cartridge header's GBC flag.
func WithModel(m types.Model) Option {
	return func(c *config) { c.model = m }
}

// WithBootROM supplies a boot ROM image (256 bytes for DMG, 2304 bytes
// for CGB) to run from 0x0000 instead of jumping straight to 0x0100
// with post-boot register values.
func WithBootROM(rom []byte) Option {
	return func(c *config) { c.bootROM = rom }
}

// WithSaveRAM preloads the cartridge's battery-backed RAM (and, for
// MBC3, its RTC registers) from a previous DumpSaveRAM.
func WithSaveRAM(data []byte) Option {
	return func(c *config) { c.saveRAM = data }
}

// WithSampleRate sets the output rate of the APU's resampler. Defaults
// to 44100Hz.
func WithSampleRate(hz int) Option {
	return func(c *config) { c.sampleRate = hz }
}

// WithLogger installs a logrus entry the core logs diagnostics to. The
// core is otherwise silent: nothing is logged by default.
func WithLogger(log *logrus.Entry) Option {
	return func(c *config) { c.log = log }
}

// WithSerialTap observes bytes shifted out over the (unconnected) link
// cable, letting a host or test harness read Blargg-style pass/fail
// text without implementing a link partner.
func WithSerialTap(tap func(byte)) Option {
	return func(c *config) { c.serialTap = tap }
}
