package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const DefaultAppName = "imud"
const DefaultConfigName = "config"

const DefaultBusNumber = 1
const DefaultAccelRangeG = 4
const DefaultGyroRangeDPS = 2000
const DefaultSampleHz = 50.0
const DefaultListen = "0.0.0.0:18880"

var userHomeDir, _ = os.UserHomeDir()
var DefaultConfig = path.Join(userHomeDir, ".config/"+DefaultAppName+"/"+DefaultConfigName+".yaml")
var DefaultConfigSearchPath0 = path.Join(userHomeDir, ".config", DefaultAppName)

const DefaultConfigSearchPath1 = "/etc/" + DefaultAppName
const DefaultConfigSearchPath2 = "./"

type BusOpt struct {
	Number int `yaml:"number"`
}

type SensorOpt struct {
	AccelRangeG  int     `yaml:"accel_range_g"`
	GyroRangeDPS int     `yaml:"gyro_range_dps"`
	SampleHz     float64 `yaml:"sample_hz"`
}

type StreamOpt struct {
	Listen string `yaml:"listen"`
}

type IMUDOpt struct {
	Bus    BusOpt    `yaml:"bus"`
	Sensor SensorOpt `yaml:"sensor"`
	Stream StreamOpt `yaml:"stream"`
	Debug  bool      `yaml:"debug"`
}

type IMUDDesc struct {
	Opt   IMUDOpt
	Viper *viper.Viper
}

func NewIMUDOpt() IMUDOpt {
	return IMUDOpt{
		Bus: BusOpt{Number: DefaultBusNumber},
		Sensor: SensorOpt{
			AccelRangeG:  DefaultAccelRangeG,
			GyroRangeDPS: DefaultGyroRangeDPS,
			SampleHz:     DefaultSampleHz,
		},
		Stream: StreamOpt{Listen: DefaultListen},
		Debug:  false,
	}
}

func NewIMUDDesc() IMUDDesc {
	return IMUDDesc{Opt: NewIMUDOpt(), Viper: nil}
}

// Parse resolves the configuration by the usual order: the --config
// flag, the IMUD_CONFIG environment variable, then the default search
// paths. Flags and environment variables override file values.
func (d *IMUDDesc) Parse(cmd *cobra.Command) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(DefaultAppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = os.Getenv("IMUD_CONFIG")
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(DefaultConfigSearchPath0)
		v.AddConfigPath(DefaultConfigSearchPath1)
		v.AddConfigPath(DefaultConfigSearchPath2)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgPath == "" {
			log.Debugln("no config file found, using defaults")
		} else {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if v.IsSet("bus.number") {
		d.Opt.Bus.Number = v.GetInt("bus.number")
	}
	if v.IsSet("sensor.accel_range_g") {
		d.Opt.Sensor.AccelRangeG = v.GetInt("sensor.accel_range_g")
	}
	if v.IsSet("sensor.gyro_range_dps") {
		d.Opt.Sensor.GyroRangeDPS = v.GetInt("sensor.gyro_range_dps")
	}
	if v.IsSet("sensor.sample_hz") {
		d.Opt.Sensor.SampleHz = v.GetFloat64("sensor.sample_hz")
	}
	if v.IsSet("stream.listen") {
		d.Opt.Stream.Listen = v.GetString("stream.listen")
	}
	if v.IsSet("debug") {
		d.Opt.Debug = v.GetBool("debug")
	}

	if cmd.Flags().Changed("bus") {
		d.Opt.Bus.Number, _ = cmd.Flags().GetInt("bus")
	}
	if cmd.Flags().Changed("listen") {
		d.Opt.Stream.Listen, _ = cmd.Flags().GetString("listen")
	}
	if cmd.Flags().Changed("debug") {
		d.Opt.Debug, _ = cmd.Flags().GetBool("debug")
	}

	d.Viper = v
	return nil
}

// Dump renders the options as YAML, for `imud init`.
func (o IMUDOpt) Dump() ([]byte, error) {
	return yaml.Marshal(o)
}

// Write saves the options to the given path, creating directories as
// needed.
func (o IMUDOpt) Write(p string) error {
	buf, err := o.Dump()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, buf, 0o644)
}
