// rubberserver exposes the catalog over HTTP: item positions and details as
// JSON, plus the rendered chart as PNG, for embedding in other tools.
package main

import (
	"flag"
	"os"

	"github.com/aiminilabs0/pingponglab/src/applog"
	"github.com/aiminilabs0/pingponglab/src/catalog"
	"github.com/aiminilabs0/pingponglab/src/scale"
)

func main() {
	var catalogPath, scalesPath, listen, logLevel string
	flag.StringVar(&catalogPath, "catalog", "", "catalog source YAML")
	flag.StringVar(&scalesPath, "scales", "", "optional hardness scales YAML")
	flag.StringVar(&listen, "listen", ":8080", "listen address")
	flag.StringVar(&logLevel, "loglevel", "info", "log level (debug|info|warn|error)")
	flag.Parse()
	applog.SetLogLevel(logLevel)

	if catalogPath == "" {
		applog.Errorf("missing -catalog")
		os.Exit(2)
	}
	reg := scale.NewRegistry()
	if scalesPath != "" {
		if err := reg.LoadYAML(scalesPath); err != nil {
			applog.Errorf("load scales: %v", err)
			os.Exit(1)
		}
	}

	srv := newServer(reg)
	load := func() {
		src, err := catalog.LoadSourceYAML(catalogPath)
		if err != nil {
			applog.Errorf("load catalog: %v", err)
			return
		}
		srv.setSource(src)
	}
	load()

	w, err := catalog.WatchFile(catalogPath, load)
	if err != nil {
		applog.Warnf("watch catalog: %v", err)
	} else {
		defer w.Close()
	}

	applog.Infof("listening on %s", listen)
	if err := srv.routes().Run(listen); err != nil {
		applog.Errorf("serve: %v", err)
		os.Exit(1)
	}
}
