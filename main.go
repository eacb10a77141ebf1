package main

import (
	"fmt"
	"os"
)

const version = "0.9.0"

func main() {
	cfg := loadConfigOrDefault()
	cli := parseArgs(os.Args[1:], cfg)

	switch cli.mode {
	case convertMode:
		checkf(runConvert(&cli.Convert), "conversion failed")
	case infosMode:
		checkf(runInfos(&cli.Infos), "failed to read infos")
	case playMode:
		checkf(runPlay(&cli.Play), "playback failed")
	case versionMode:
		fmt.Println("chipdec", version)
	}
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
