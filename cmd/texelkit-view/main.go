package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/framegrace/texelkit/apps/sourceview"
	"github.com/framegrace/texelkit/config"
	"github.com/framegrace/texelkit/core"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: texelkit-view <file>")
		os.Exit(2)
	}
	if err := view(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "texelkit-view: %v\n", err)
		os.Exit(1)
	}
}

func view(path string) error {
	cfg := config.App("sourceview")
	v, err := sourceview.Open(path, sourceview.Options{
		Style:    cfg.GetString("sourceview", "style", ""),
		TabWidth: cfg.GetInt("sourceview", "tab_width", 0),
	})
	if err != nil {
		return err
	}

	scr, err := core.NewScreen()
	if err != nil {
		return err
	}
	defer scr.Close()

	scr.EnableMouse()
	scr.AddWidget(v, 0, 0)
	return scr.Run()
}
