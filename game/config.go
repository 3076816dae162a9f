package game

import (
	"io"
	"os"

	"github.com/memmaker/sweepmove/engine/physics"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MovementSettings are the tuning constants of the player movement. The defaults are the
// values the movement feel was tuned with.
type MovementSettings struct {
	Speed         float32 `yaml:"speed"`
	Gravity       float32 `yaml:"gravity"`
	StopSpeed     float32 `yaml:"stop_speed"`
	Accelerate    float32 `yaml:"accelerate"`
	AirAccelerate float32 `yaml:"air_accelerate"`
	Friction      float32 `yaml:"friction"`
	JumpVelocity  float32 `yaml:"jump_velocity"`
	StepSize      float32 `yaml:"step_size"`
	Overclip      float32 `yaml:"overclip"`
	GroundProbe   float32 `yaml:"ground_probe"`
	MinWalkNormal float32 `yaml:"min_walk_normal"`
	JumpThreshold float32 `yaml:"jump_threshold"`
}

func DefaultMovementSettings() MovementSettings {
	return MovementSettings{
		Speed:         320,
		Gravity:       800,
		StopSpeed:     100,
		Accelerate:    10,
		AirAccelerate: 1,
		Friction:      6,
		JumpVelocity:  270,
		StepSize:      18,
		Overclip:      1.001,
		GroundProbe:   0.25,
		MinWalkNormal: 0.7,
		JumpThreshold: 10,
	}
}

func (m MovementSettings) Validate() error {
	if m.Overclip < 1 {
		return errors.Errorf("overclip must be at least 1, got %v", m.Overclip)
	}
	if m.GroundProbe <= 0 {
		return errors.Errorf("ground_probe must be positive, got %v", m.GroundProbe)
	}
	if m.StepSize < 0 {
		return errors.Errorf("step_size must not be negative, got %v", m.StepSize)
	}
	if m.MinWalkNormal < 0 || m.MinWalkNormal > 1 {
		return errors.Errorf("min_walk_normal must be within [0, 1], got %v", m.MinWalkNormal)
	}
	for name, value := range map[string]float32{
		"speed":          m.Speed,
		"gravity":        m.Gravity,
		"stop_speed":     m.StopSpeed,
		"accelerate":     m.Accelerate,
		"air_accelerate": m.AirAccelerate,
		"friction":       m.Friction,
		"jump_velocity":  m.JumpVelocity,
	} {
		if value < 0 {
			return errors.Errorf("%s must not be negative, got %v", name, value)
		}
	}
	return nil
}

type Config struct {
	Physics  physics.Settings `yaml:"physics"`
	Movement MovementSettings `yaml:"movement"`
}

func DefaultConfig() Config {
	return Config{
		Physics:  physics.DefaultSettings(),
		Movement: DefaultMovementSettings(),
	}
}

func (c Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return errors.Wrap(err, "physics")
	}
	if err := c.Movement.Validate(); err != nil {
		return errors.Wrap(err, "movement")
	}
	return nil
}

// LoadConfig decodes YAML on top of the defaults, so missing keys keep their default value.
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := config.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return config, nil
}

func LoadConfigFile(filename string) (Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Config{}, errors.Wrapf(err, "open config %s", filename)
	}
	defer file.Close()
	config, err := LoadConfig(file)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", filename)
	}
	return config, nil
}
