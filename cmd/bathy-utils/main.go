package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gruppe-adler/bathy-utils/internal/colormap"
	"github.com/gruppe-adler/bathy-utils/internal/render"
	"github.com/gruppe-adler/bathy-utils/internal/server"
	"github.com/gruppe-adler/bathy-utils/internal/tiles"
)

type command struct {
	name        string
	description string
	run         func(*flag.FlagSet)
}

var subCommands []command

func init() {
	subCommands = []command{
		{"render", "Render an overlay image from bathymetry samples.", render.Run},
		{"tiles", "Build overlay tiles from bathymetry samples.", tiles.Run},
		{"serve", "Serve live overlays over HTTP.", server.Run},
		{"colormaps", "List the built-in colormaps.", listColormaps},
		{"help", "Print this message.", func(s *flag.FlagSet) { printUsage() }},
	}
}

func listColormaps(flagSet *flag.FlagSet) {
	filePtr := flagSet.String("file", "", "Colormap file to inspect instead (.cpt, .act, .gct, .rgb)")

	flagSet.Parse(os.Args[2:])

	if *filePtr != "" {
		cm, err := colormap.Load(*filePtr)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %d stops\n", cm.Name(), len(cm.Stops()))
		return
	}

	for _, name := range colormap.Names() {
		fmt.Println(name)
	}
}

func printUsage() {
	fmt.Printf("USAGE:\n    %s [SUBCOMMAND] [SUBCOMMAND FLAGS]\n\n", os.Args[0])
	fmt.Print("SUBCOMMANDS: \n")

	for i := 0; i < len(subCommands); i++ {
		name := subCommands[i].name

		fmt.Printf("%12s    %s\n", name, subCommands[i].description)
	}

	fmt.Printf("\nUse -h as SUBCOMMAND FLAG to print help for each subcommand.\n\n")
}

func main() {

	if len(os.Args) < 2 {
		fmt.Printf("\nERROR: No subcommand was provided.\n\n")
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	for i := 0; i < len(subCommands); i++ {
		if subCommands[i].name == cmd {
			set := flag.NewFlagSet(cmd, flag.ExitOnError)
			subCommands[i].run(set)
			return
		}
	}

	fmt.Printf("\nERROR: Subcommand '%s' was not found.\n\n", cmd)
	printUsage()
	os.Exit(1)
}
