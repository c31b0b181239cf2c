package params

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MattPrit/nexgen/internal/config"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// EnvPrefix namespaces the override environment variables.
const EnvPrefix = "NEXGEN_"

// Keys accepted by --set and, uppercased with the EnvPrefix, from the
// environment.
const (
	KeyWavelength       = "wavelength"
	KeyTransmission     = "transmission"
	KeyBeamCenterX      = "beam_center_x"
	KeyBeamCenterY      = "beam_center_y"
	KeyDetectorDistance = "detector_distance"
	KeyExposureTime     = "exposure_time"
)

var knownKeys = []string{
	KeyWavelength,
	KeyTransmission,
	KeyBeamCenterX,
	KeyBeamCenterY,
	KeyDetectorDistance,
	KeyExposureTime,
}

// Override is one beam parameter replacing its config-file baseline.
type Override struct {
	Key   string
	Value float64
}

// String renders the override the way applications are logged.
func (o Override) String() string {
	return fmt.Sprintf("%s=%v", o.Key, o.Value)
}

// EnvName returns the environment variable carrying the given override key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// FromEnv collects overrides from the environment. Unset variables are
// skipped; a set variable that does not parse as a number is an error.
func FromEnv() ([]Override, error) {
	var out []Override
	for _, key := range knownKeys {
		raw, ok := os.LookupEnv(EnvName(key))
		if !ok || raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a number", nexgen.ErrInvalidConfig, EnvName(key), raw)
		}
		out = append(out, Override{Key: key, Value: value})
	}
	return out, nil
}

// FromPairs converts parsed --set values into overrides, rejecting keys
// that do not name an overridable parameter.
func FromPairs(pairs map[string]string) ([]Override, error) {
	var out []Override
	for _, key := range knownKeys {
		raw, ok := pairs[key]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: --set %s=%q is not a number", nexgen.ErrInvalidConfig, key, raw)
		}
		out = append(out, Override{Key: key, Value: value})
		delete(pairs, key)
	}
	for key := range pairs {
		return nil, fmt.Errorf("%w: unknown override key %q (known: %s)",
			nexgen.ErrInvalidConfig, key, strings.Join(knownKeys, ", "))
	}
	return out, nil
}

// Apply writes each override into the experiment and logs the replacement.
// Later entries win when the same key appears twice, so callers pass the
// environment batch before the command-line batch.
func Apply(exp *config.Experiment, overrides []Override, log nexgen.Logger) {
	for _, o := range overrides {
		switch o.Key {
		case KeyWavelength:
			exp.Beam.Wavelength = o.Value
		case KeyTransmission:
			exp.Attenuator.Transmission = o.Value
		case KeyBeamCenterX:
			exp.Detector.BeamCenter[0] = o.Value
		case KeyBeamCenterY:
			exp.Detector.BeamCenter[1] = o.Value
		case KeyDetectorDistance:
			exp.Detector.Distance = o.Value
		case KeyExposureTime:
			exp.Detector.ExposureTime = o.Value
		}
		log.Verbose("override applied: %s", o)
	}
}
