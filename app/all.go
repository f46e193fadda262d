package app

import (
	goflag "flag"
	"os"
	"runtime"
	"strconv"

	"depbeam/util"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
)

const (
	NUM_CPUS_FLAG = "cpus"
)

var (
	CPUs        int
	Verbosity   int
	LogToStderr bool
	memOut      bool
)

func AllCommands() *commander.Command {
	cmd := &commander.Command{
		UsageLine:   os.Args[0],
		Short:       "beam search dependency parser",
		Subcommands: []*commander.Command{ParseCmd(), EvalCmd(), OracleCmd()},
		Flag:        *flag.NewFlagSet("depbeam", flag.ExitOnError),
	}
	for _, app := range cmd.Subcommands {
		app.Run = NewAppWrapCommand(app.Run)
		app.Flag.IntVar(&CPUs, NUM_CPUS_FLAG, 0, "Max CPUS to use (runtime.GOMAXPROCS); 0 = all")
		app.Flag.IntVar(&Verbosity, "v", 0, "Log verbosity")
		app.Flag.BoolVar(&LogToStderr, "logtostderr", true, "Log to standard error instead of files")
		app.Flag.BoolVar(&memOut, "mem", false, "Log memory use when done")
	}
	return cmd
}

// InitCommand applies the flags shared by all commands: the CPU cap and
// glog's verbosity and destination.
func InitCommand(cmd *commander.Command, args []string) error {
	maxCPUs := runtime.NumCPU()
	if CPUs > maxCPUs {
		glog.Warningf("Number of CPUs capped to all available (%d)", maxCPUs)
		CPUs = 0
	}
	if CPUs == 0 {
		CPUs = maxCPUs
	}
	runtime.GOMAXPROCS(CPUs)
	if err := goflag.Set("v", strconv.Itoa(Verbosity)); err != nil {
		return errors.Wrap(err, "setting log verbosity")
	}
	if err := goflag.Set("logtostderr", strconv.FormatBool(LogToStderr)); err != nil {
		return errors.Wrap(err, "setting log destination")
	}
	return nil
}

func NewAppWrapCommand(f func(cmd *commander.Command, args []string) error) func(cmd *commander.Command, args []string) error {
	wrapped := func(cmd *commander.Command, args []string) error {
		if err := InitCommand(cmd, args); err != nil {
			return err
		}
		err := f(cmd, args)
		if memOut {
			util.LogMemory()
		}
		return err
	}

	return wrapped
}
