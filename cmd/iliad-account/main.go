package main

import (
	"iliad-account/cmd/iliad-account/commands"
	"iliad-account/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
