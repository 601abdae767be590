package main

import (
	"dualis-watch/cmd/dualis-watch/commands"
	"dualis-watch/lib/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
