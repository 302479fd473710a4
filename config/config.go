// Package config loads the runtime's YAML configuration file the same way
// cmd/multiserver does: koanf layers a structs.Provider default over an
// optional on-disk file.Provider, and the result unmarshals into a plain
// Go struct.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "gopkg.in/yaml.v2"

	"github.com/tjkluska/fabmo/driver"
	"github.com/tjkluska/fabmo/sbp"
)

// DriverConfig describes how to reach the motion controller (§3 supplemented
// data, grounded on envsrv.ObjSetup's host/port/serial fields).
type DriverConfig struct {
	Addr     string `koanf:"addr"`
	Serial   bool   `koanf:"serial"`
	BaudRate int    `koanf:"baudrate"`
}

// Config is the top-level configuration record: interpreter settings plus
// how to reach the driver (§3 supplemented data).
type Config struct {
	Settings sbp.Settings `koanf:"settings"`
	Driver   DriverConfig `koanf:"driver"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Settings: sbp.DefaultSettings(),
		Driver: DriverConfig{
			Addr:     "/dev/ttyUSB0",
			Serial:   true,
			BaudRate: 115200,
		},
	}
}

// Load layers path (if it exists) over the compiled-in defaults, mirroring
// cmd/multiserver's setupconfig: a missing file is not an error, any other
// read/parse failure is.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such") {
			return Config{}, fmt.Errorf("loading config %s: %w", path, err)
		}
	}
	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes c to path as YAML, for the mkconf CLI command.
func Save(path string, c Config) error {
	b, err := yml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Write encodes c as YAML to w, for the conf CLI command.
func Write(w io.Writer, c Config) error {
	b, err := yml.Marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ToDriverConfig adapts the configuration's driver section into the shape
// driver.NewShopBot expects.
func (c Config) ToDriverConfig() driver.Config {
	return driver.Config{
		Addr:     c.Driver.Addr,
		Serial:   c.Driver.Serial,
		BaudRate: c.Driver.BaudRate,
	}
}
