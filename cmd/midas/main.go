package main

import (
	"os"

	"github.com/jaywantadh/midasclient/pkg/env"
	"github.com/jaywantadh/midasclient/pkg/logging"
)

func main() {
	env.LoadEnv()
	logging.InitLogger(env.GetEnv("MIDAS_DEBUG", "") != "")

	if err := newApp().Run(os.Args); err != nil {
		logging.Log.Fatal(err)
	}
}
