// The widescan driver maps a large off-heap buffer, optionally fills it
// from a zstd file, and scans a window of it for a byte.
//
//	go build -o widescan ./main
package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	flagConfig   = flag.String("config", "", "YAML config file")
	flagElements = flag.Int("elements", 0, "buffer size in bytes")
	flagInput    = flag.String("input", "", "zstd-compressed input file")
	flagNeedle   = flag.Uint("needle", 0, "byte to search for")
	flagFormat   = flag.String("format", "", "report format: text or json")
	flagDigest   = flag.Bool("digest", false, "hash the scanned window with SHA3-256")
	flagVerbose  = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	log := logrus.New()

	var err error
	cfg := DefaultConfig()
	if *flagConfig != "" {
		if cfg, err = LoadConfig(*flagConfig); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "elements":
			cfg.Elements = *flagElements
		case "input":
			cfg.Input = *flagInput
		case "needle":
			if cfg.Needle, err = ParseNeedle(*flagNeedle); err != nil {
				flagErr = err
			}
		case "format":
			cfg.Format = *flagFormat
		case "digest":
			cfg.Digest = *flagDigest
		case "v":
			if *flagVerbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	if flagErr != nil {
		log.Fatal(flagErr)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	log.SetLevel(level)

	if cfg.Pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(cfg.Pprof, nil))
		}()
	}

	rep, err := Run(cfg, log)
	if err != nil {
		log.Fatalf("scan: %v", err)
	}
	if err := Write(os.Stdout, rep, cfg.Format, log); err != nil {
		log.Fatalf("write report: %v", err)
	}
}
