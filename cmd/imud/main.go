package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/11o1/AXIOMICA-BMI160-BMM150/internal/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		log.Errorln(err)
		os.Exit(1)
	}
}
