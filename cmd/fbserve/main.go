package main

import (
	"flag"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/labstack/gommon/log"
	"github.com/tmpim/fbgrab/fbdev"
	"github.com/tmpim/fbgrab/serve"
)

var (
	inputPath = flag.String("i", fbdev.DefaultPath, "set the framebuffer device to serve")
	addr      = flag.String("addr", ":9999", "set the address to listen on")
	interval  = flag.Duration("interval", serve.DefaultInterval, "set the default time between frames pushed to watchers")
	debug     = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	if *debug {
		e.Debug = true
		e.Logger.SetLevel(log.DEBUG)
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	svc := serve.NewService(*inputPath, fbdev.OpenSource, *interval)
	svc.Register(e.Group("/api"))

	if g, err := svc.Geometry(); err != nil {
		e.Logger.Warnf("fbgrab serve: %v", err)
	} else {
		e.Logger.Infof("fbgrab serve: serving %s from %s", g, *inputPath)
	}

	e.Logger.Fatal(e.Start(*addr))
}
