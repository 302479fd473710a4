package sbp

// Settings is the runtime's mutable configuration record (§3). It is owned
// by the runtime instance — never a package-level singleton — so multiple
// engines (and tests) can coexist (§9 "Global sbp_settings singleton").
//
// Field names and yaml tags follow the envsrv.ObjSetup / multiserver.Config
// convention of plain lower-case yaml keys, so this struct can be embedded
// directly in the config package's on-disk Config.
type Settings struct {
	MoveXYSpeed float64 `yaml:"movexy_speed" koanf:"movexy_speed"`
	MoveZSpeed  float64 `yaml:"movez_speed" koanf:"movez_speed"`
	MoveASpeed  float64 `yaml:"movea_speed" koanf:"movea_speed"`
	MoveBSpeed  float64 `yaml:"moveb_speed" koanf:"moveb_speed"`
	MoveCSpeed  float64 `yaml:"movec_speed" koanf:"movec_speed"`

	JogXYSpeed float64 `yaml:"jogxy_speed" koanf:"jogxy_speed"`
	JogZSpeed  float64 `yaml:"jogz_speed" koanf:"jogz_speed"`
	JogASpeed  float64 `yaml:"joga_speed" koanf:"joga_speed"`
	JogBSpeed  float64 `yaml:"jogb_speed" koanf:"jogb_speed"`
	JogCSpeed  float64 `yaml:"jogc_speed" koanf:"jogc_speed"`

	CutterDia     float64 `yaml:"cutterdia" koanf:"cutterdia"`
	PocketOverlap float64 `yaml:"pocketoverlap" koanf:"pocketoverlap"`
	SafeZPullUp   float64 `yaml:"safezpullup" koanf:"safezpullup"`
	SafeAPullUp   float64 `yaml:"safeapullup" koanf:"safeapullup"`
	PlungeDir     float64 `yaml:"plungedir" koanf:"plungedir"`
}

// DefaultSettings returns a Settings record with the conservative defaults
// used when no config file overrides them, mirroring the defaulted-struct
// pattern of multiserver.Config{} passed to koanf's structs.Provider.
func DefaultSettings() Settings {
	return Settings{
		MoveXYSpeed: 3,
		MoveZSpeed:  1,
		MoveASpeed:  3,
		MoveBSpeed:  3,
		MoveCSpeed:  3,

		JogXYSpeed: 3,
		JogZSpeed:  1,
		JogASpeed:  3,
		JogBSpeed:  3,
		JogCSpeed:  3,

		CutterDia:     0.25,
		PocketOverlap: 50,
		SafeZPullUp:   1,
		SafeAPullUp:   1,
		PlungeDir:     -1,
	}
}
