/*
Package config provides type-safe extraction of job settings from
map[string]any.

# Overview

Training jobs carry their settings as loosely typed maps parsed from
YAML or JSON. config wraps such a map and provides typed accessors
that handle missing keys and type mismatches by returning a default,
so call sites avoid verbose type assertions and nil checks.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "checkpoint_path":  "ckpt",
	    "saving_frequency": 5,
	    "rounds":           100,
	})

	path := cfg.String("checkpoint_path", "")   // "ckpt"
	freq := cfg.Int("saving_frequency", 0)      // 5
	rounds := cfg.Int("rounds", 10)             // 100
	missing := cfg.Bool("verbose", false)       // false

# Type Coercion

YAML and JSON decoders disagree on number types, so the numeric
accessors accept the forms that appear in practice:

  - Int from int, int64, or float64 without a fractional part
  - Float from float64, int, or int64
  - Duration from a time.ParseDuration string ("30s", "1h30m"),
    int/int64/float64 seconds, or a time.Duration

All accessors return the default value when the key is missing, the
value cannot be converted, or the conversion would lose precision.
Callers that must distinguish a missing key from a mistyped one use
Has and Any directly.

# File Loading

Load settings from YAML or JSON files:

	cfg, err := config.FromFile("job.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	// Or parse bytes directly
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation; modifying the original map externally leaves
behavior undefined.
*/
package config
