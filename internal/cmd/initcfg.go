package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/11o1/AXIOMICA-BMI160-BMM150/internal/config"
)

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "init writes a configuration template",
	Long: `init creates a configuration file with the default options.
With --print the template goes to stdout instead of a file.`,
	Example: "  imud init -o /etc/imud/config.yaml",
	RunE:    InitCmdRunE,
}

func init() {
	InitCmd.Flags().Bool("print", false, "print config to stdout")
	InitCmd.Flags().BoolP("yes", "y", false, "overwrite an existing file")
	InitCmd.Flags().StringP("output", "o", config.DefaultConfig, "output path")
}

func InitCmdRunE(cmd *cobra.Command, args []string) error {
	opt := config.NewIMUDOpt()

	if print, _ := cmd.Flags().GetBool("print"); print {
		buf, err := opt.Dump()
		if err != nil {
			return err
		}
		fmt.Print(string(buf))
		return nil
	}

	out, _ := cmd.Flags().GetString("output")
	overwrite, _ := cmd.Flags().GetBool("yes")
	if _, err := os.Stat(out); err == nil && !overwrite {
		return fmt.Errorf("%s exists, pass -y to overwrite", out)
	}
	if err := opt.Write(out); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
