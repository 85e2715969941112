// Command manage-channels edits the advertiser channel list the bot offers
// when a chat runs out of downloads.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fullsave/mediabot/internal/adverts"
)

const defaultChannelsPath = "advertiser_channels.json"

func main() {
	path := flag.String("file", defaultChannelsPath, "Path to the advertiser channels JSON file")

	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	set, err := adverts.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load channels: %v\n", err)
		os.Exit(1)
	}

	channels := set.Channels()

	switch args[0] {
	case "list":
		if len(channels) == 0 {
			fmt.Println("no advertiser channels configured")
			return
		}

		for _, ch := range channels {
			fmt.Printf("%s\t%s\n", ch.Name, ch.Link)
		}
	case "add":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "usage: manage-channels add <name> <link>")
			os.Exit(1)
		}

		name, link := args[1], args[2]
		if !strings.HasPrefix(link, "https://t.me/") {
			fmt.Fprintln(os.Stderr, "link must start with https://t.me/")
			os.Exit(1)
		}

		for _, ch := range channels {
			if ch.Name == name {
				fmt.Fprintf(os.Stderr, "channel %q already exists\n", name)
				os.Exit(1)
			}
		}

		channels = append(channels, adverts.Channel{Name: name, Link: link})

		if err := adverts.Save(*path, channels); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save channels: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("added %s\n", name)
	case "remove":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "usage: manage-channels remove <name>")
			os.Exit(1)
		}

		name := args[1]
		kept := channels[:0]

		for _, ch := range channels {
			if ch.Name != name {
				kept = append(kept, ch)
			}
		}

		if len(kept) == len(channels) {
			fmt.Fprintf(os.Stderr, "channel %q not found\n", name)
			os.Exit(1)
		}

		if err := adverts.Save(*path, kept); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save channels: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("removed %s\n", name)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: manage-channels [-file path] <command>

commands:
  list                list configured advertiser channels
  add <name> <link>   add a channel (link must be a t.me URL)
  remove <name>       remove a channel by name`)
}
