package cmd

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all" // Empty import needed to initialize embd library.
	_ "github.com/kidoman/embd/host/rpi" // Empty import needed to initialize embd library.
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/11o1/AXIOMICA-BMI160-BMM150/bmi160"
	"github.com/11o1/AXIOMICA-BMI160-BMM150/internal/config"
	"github.com/11o1/AXIOMICA-BMI160-BMM150/internal/stream"
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve runs discovery, then samples and streams continuously",
	Long: `serve brings up the sensor pair and streams averaged samples over
websocket at /stream. Configuration is resolved in order:
1. path given by --config
2. IMUD_CONFIG environment variable
3. $HOME/.config/imud/config.yaml, /etc/imud/config.yaml, current directory
File values are overridden by environment variables and flags.`,
	Example: "  imud serve --bus=1 --listen=0.0.0.0:18880",
	RunE:    ServeCmdRunE,
}

func init() {
	ServeCmd.Flags().String("config", "", "configuration file path")
	ServeCmd.Flags().IntP("bus", "b", config.DefaultBusNumber, "I2C bus number")
	ServeCmd.Flags().StringP("listen", "l", config.DefaultListen, "websocket listen address")
	ServeCmd.Flags().Bool("debug", false, "toggle debug logging")
}

func accelRangeCode(g int) byte {
	switch g {
	case 2:
		return bmi160.AccRange2G
	case 8:
		return bmi160.AccRange8G
	case 16:
		return bmi160.AccRange16G
	default:
		return bmi160.AccRange4G
	}
}

func gyroRangeCode(dps int) byte {
	switch dps {
	case 125:
		return bmi160.GyrRange125DPS
	case 250:
		return bmi160.GyrRange250DPS
	case 500:
		return bmi160.GyrRange500DPS
	case 1000:
		return bmi160.GyrRange1000DPS
	default:
		return bmi160.GyrRange2000DPS
	}
}

func ServeCmdRunE(cmd *cobra.Command, args []string) error {
	desc := config.NewIMUDDesc()
	if err := desc.Parse(cmd); err != nil {
		return err
	}
	opt := desc.Opt
	if opt.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := embd.InitI2C(); err != nil {
		return err
	}
	defer embd.CloseI2C()
	bus := embd.NewI2CBus(byte(opt.Bus.Number))

	cfg := bmi160.DefaultConfig()
	cfg.AccRange = accelRangeCode(opt.Sensor.AccelRangeG)
	cfg.GyrRange = gyroRangeCode(opt.Sensor.GyroRangeDPS)

	imu := bmi160.New(bus, cfg)
	if imu.Initialize() {
		log.Infof("sensor pair up, magnetometer attachment: %s", imu.AttachmentMode())
	} else {
		log.Warnln("magnetometer not found; serving accel/gyro only")
	}

	hub := stream.NewHub()
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", hub.Handler())
	go func() {
		log.Infof("streaming on ws://%s/stream", opt.Stream.Listen)
		if err := http.ListenAndServe(opt.Stream.Listen, mux); err != nil {
			log.Errorf("stream server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Poll twice per emission interval so the averaging window never
	// starves.
	poll := time.Duration(float64(time.Second) / (2 * imu.EffectiveFrequency(opt.Sensor.SampleHz)))
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var emitted int
	for {
		select {
		case <-stop:
			log.Infoln("shutting down")
			return nil
		case <-ticker.C:
			s, fresh := imu.ReadAveragedSample(opt.Sensor.SampleHz)
			if !fresh {
				continue
			}
			emitted++
			hub.Broadcast(imu.Convert(s))
			if imu.AttachmentMode() != bmi160.MagNone && s.Mag == ([3]int16{}) {
				log.Warnf("[%04d] magnetometer returns all zeros", emitted)
			}
			if emitted%100 == 1 {
				p := imu.Convert(s)
				log.Infof("[%04d] accel %.3f %.3f %.3f g | gyro %.2f %.2f %.2f °/s | mag %d %d %d",
					emitted, p.Accel[0], p.Accel[1], p.Accel[2],
					p.Gyro[0], p.Gyro[1], p.Gyro[2],
					s.Mag[0], s.Mag[1], s.Mag[2])
			}
		}
	}
}
