package cmd

import (
	"fmt"

	"github.com/kidoman/embd"
	"github.com/spf13/cobra"

	"github.com/11o1/AXIOMICA-BMI160-BMM150/bmi160"
	"github.com/11o1/AXIOMICA-BMI160-BMM150/internal/config"
)

var ScanCmd = &cobra.Command{
	Use:     "scan",
	Short:   "scan walks the I2C bus and reports responding devices",
	Long:    "scan probes every 7-bit address and prints the identity bytes found, flagging known BMI160/BMM150 ids. Useful for diagnosing unusual address straps before running serve.",
	Example: "  imud scan --bus=1",
	RunE:    ScanCmdRunE,
}

func init() {
	ScanCmd.Flags().IntP("bus", "b", config.DefaultBusNumber, "I2C bus number")
}

func ScanCmdRunE(cmd *cobra.Command, args []string) error {
	busNo, _ := cmd.Flags().GetInt("bus")

	if err := embd.InitI2C(); err != nil {
		return err
	}
	defer embd.CloseI2C()
	bus := embd.NewI2CBus(byte(busNo))

	found := 0
	for addr := byte(0x00); addr <= 0x7F; addr++ {
		id, err := bus.ReadByteFromReg(addr, bmi160.RegChipID)
		if err != nil {
			continue
		}
		found++
		label := ""
		switch {
		case id == bmi160.CoreChipID:
			label = " (BMI160 accel/gyro)"
		default:
			// A BMM150 keeps its identity at 0x40, not 0x00.
			if magID, err := bus.ReadByteFromReg(addr, bmi160.MagRegChipID); err == nil && magID == bmi160.MagChipID {
				label = " (BMM150 magnetometer)"
			}
		}
		fmt.Printf("  0x%02X -> id 0x%02X%s\n", addr, id, label)
	}
	fmt.Printf("%d device(s) responded on bus %d\n", found, busNo)
	return nil
}
