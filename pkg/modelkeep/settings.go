package modelkeep

import (
	"github.com/modelkeep/modelkeep/pkg/modelkeep/config"
)

// Config keys for checkpoint settings.
const (
	// KeyCheckpointPath names the root directory checkpoints are kept under.
	KeyCheckpointPath = "checkpoint_path"
	// KeySavingFrequency names the round interval between periodic saves.
	KeySavingFrequency = "saving_frequency"
)

// Settings are the two knobs the checkpoint lifecycle runs on.
type Settings struct {
	// Path is the checkpoint root. Empty disables checkpointing.
	Path string
	// Frequency is the round interval between periodic saves.
	// Zero or negative means a single save when the job finishes.
	Frequency int
}

// SettingsFromConfig extracts checkpoint settings from a job config.
// Missing keys take their zero values: checkpointing disabled, final
// save only. A key present with the wrong type is an error rather
// than a silent fallback to the zero value.
func SettingsFromConfig(cfg config.Config) (Settings, error) {
	var s Settings

	if cfg.Has(KeyCheckpointPath) {
		v, ok := cfg.Any(KeyCheckpointPath, nil).(string)
		if !ok {
			return Settings{}, &ConfigError{Option: KeyCheckpointPath, Err: ErrOptionType}
		}
		s.Path = v
	}

	if cfg.Has(KeySavingFrequency) {
		switch v := cfg.Any(KeySavingFrequency, nil).(type) {
		case int:
			s.Frequency = v
		case int64:
			s.Frequency = int(v)
		case float64:
			// JSON decodes all numbers as float64.
			if v != float64(int(v)) {
				return Settings{}, &ConfigError{Option: KeySavingFrequency, Err: ErrOptionType}
			}
			s.Frequency = int(v)
		default:
			return Settings{}, &ConfigError{Option: KeySavingFrequency, Err: ErrOptionType}
		}
	}

	return s, nil
}

// Validate reports the one inconsistent combination: periodic saving
// requested with nowhere to save.
func (s Settings) Validate() error {
	if s.Frequency > 0 && s.Path == "" {
		return &ConfigError{Option: KeyCheckpointPath, Err: ErrPathRequired}
	}
	return nil
}
