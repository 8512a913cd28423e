package cmd

import "github.com/spf13/cobra"

var RootCmd = &cobra.Command{
	Use:   "imud",
	Short: "daemon for a BMI160+BMM150 9-axis inertial sensor",
	Long:  "imud discovers and drives a BMI160 accelerometer/gyroscope with a BMM150 magnetometer, direct-wired or bridged, and streams samples to websocket clients.",
}

func init() {
	RootCmd.AddCommand(ServeCmd, ScanCmd, InitCmd)
}
