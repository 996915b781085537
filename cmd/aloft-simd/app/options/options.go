package options

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/aloft-io/aloft/internal/simd"
	"github.com/aloft-io/aloft/pkg/log"
	"github.com/aloft-io/aloft/pkg/options"
)

// SimdOptions is the full flag surface of aloft-simd.
type SimdOptions struct {
	MqttOptions *options.MqttOptions `json:"mqtt" mapstructure:"mqtt"`
	HttpOptions *options.HttpOptions `json:"http" mapstructure:"http"`
	S3Options   *options.S3Options   `json:"s3" mapstructure:"s3"`
	Log         *log.Options         `json:"log" mapstructure:"log"`

	LibraryDir   string `json:"library-dir" mapstructure:"library-dir"`
	MissionID    string `json:"mission" mapstructure:"mission"`
	VehicleID    string `json:"vehicle" mapstructure:"vehicle"`
	LocalLogDir  string `json:"local-log-dir" mapstructure:"local-log-dir"`
	NoiseSeed    int64  `json:"noise-seed" mapstructure:"noise-seed"`
	WatchLibrary bool   `json:"watch-library" mapstructure:"watch-library"`
}

func NewSimdOptions() *SimdOptions {
	return &SimdOptions{
		MqttOptions: options.NewMqttOptions(),
		HttpOptions: options.NewHttpOptions(),
		S3Options:   options.NewS3Options(),
		Log:         log.NewOptions(),

		LibraryDir:  "library",
		LocalLogDir: "flight-logs",
	}
}

func (o *SimdOptions) AddFlags(fs *pflag.FlagSet) {
	o.MqttOptions.AddFlags(fs)
	o.HttpOptions.AddFlags(fs)
	o.S3Options.AddFlags(fs)
	o.Log.AddFlags(fs)

	fs.StringVar(&o.LibraryDir, "library-dir", o.LibraryDir, "Root directory of the mission/vehicle library.")
	fs.StringVar(&o.MissionID, "mission", o.MissionID, "Mission id to execute.")
	fs.StringVar(&o.VehicleID, "vehicle", o.VehicleID, "Vehicle id to fly.")
	fs.StringVar(&o.LocalLogDir, "local-log-dir", o.LocalLogDir, "Directory for flight logs when no object store is configured.")
	fs.Int64Var(&o.NoiseSeed, "noise-seed", o.NoiseSeed, "Seed for simulated sensor noise. Same seed, same run.")
	fs.BoolVar(&o.WatchLibrary, "watch-library", o.WatchLibrary, "Reload definitions when library files change on disk.")
}

// Validate checks flag consistency before anything is wired.
func (o *SimdOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	if o.MissionID == "" {
		errs = append(errs, fmt.Errorf("--mission is required"))
	}
	if o.VehicleID == "" {
		errs = append(errs, fmt.Errorf("--vehicle is required"))
	}
	return errors.Join(errs...)
}

// Config assembles the daemon configuration from the validated options.
func (o *SimdOptions) Config() (*simd.Config, error) {
	return &simd.Config{
		MqttOptions:  o.MqttOptions,
		HttpOptions:  o.HttpOptions,
		S3Options:    o.S3Options,
		LibraryDir:   o.LibraryDir,
		MissionID:    o.MissionID,
		VehicleID:    o.VehicleID,
		LocalLogDir:  o.LocalLogDir,
		NoiseSeed:    o.NoiseSeed,
		WatchLibrary: o.WatchLibrary,
	}, nil
}
