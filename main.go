package main

import (
	"fmt"
	"os"

	"depbeam/app"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
)

var cmd *commander.Command

func init() {
	cmd = app.AllCommands()
}

func main() {
	defer glog.Flush()
	err := cmd.Dispatch(os.Args[1:])
	if err != nil {
		glog.Flush()
		fmt.Printf("**err**: %v\n", err)
		os.Exit(1)
	}
}
