package vidthumb

import (
	"github.com/caarlos0/env/v11"
)

// EnvDefaults are defaults read from the environment, command line flags take precedence
type EnvDefaults struct {
	Backend       string `env:"VIDTHUMB_BACKEND"        envDefault:"ffmpegthumbnailer"`
	ExtractorPath string `env:"VIDTHUMB_EXTRACTOR_PATH"`
	FfprobePath   string `env:"VIDTHUMB_FFPROBE_PATH"`
	Processes     int    `env:"VIDTHUMB_PROCESSES"      envDefault:"0"`
	Width         int    `env:"VIDTHUMB_WIDTH"          envDefault:"1024"`
	Columns       int    `env:"VIDTHUMB_X"              envDefault:"3"`
	Rows          int    `env:"VIDTHUMB_Y"              envDefault:"8"`
	Aspect        string `env:"VIDTHUMB_ASPECT"`
	JPEGQuality   int    `env:"VIDTHUMB_JPEG_QUALITY"   envDefault:"90"`
	TempDir       string `env:"VIDTHUMB_TMPDIR"`

	SkipVersionCheck bool `env:"VIDTHUMB_SKIP_VERSION_CHECK" envDefault:"false"`
}

// LoadEnvDefaults reads VIDTHUMB_* variables
func LoadEnvDefaults() (*EnvDefaults, error) {
	defaults := &EnvDefaults{}
	if err := env.Parse(defaults); err != nil {
		return nil, err
	}

	return defaults, nil
}
