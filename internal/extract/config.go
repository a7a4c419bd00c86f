package extract

import "time"

// Config parameterises the extraction instruction.
type Config struct {
	DefaultYear     int           `yaml:"default_year" validate:"gte=2000,lte=2100"`
	NightShiftStart string        `yaml:"night_shift_start" validate:"required"`
	NightShiftEnd   string        `yaml:"night_shift_end" validate:"required"`
	VisionTimeout   time.Duration `yaml:"vision_timeout" validate:"gt=0"`
}

func DefaultConfig() Config {
	return Config{
		DefaultYear:     2026,
		NightShiftStart: "19:00",
		NightShiftEnd:   "07:00",
		VisionTimeout:   60 * time.Second,
	}
}
