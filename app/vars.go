package app

import (
	"io/ioutil"
	"os"
	"time"

	"depbeam/util"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var (
	// file names
	confFile    string
	labelsFile  string
	rulesFile   string
	modelFile   string
	input       string
	inputGold   string
	outConll    string
	distanceOut string
	timeOut     string

	// processing options
	BeamSize        int
	arcSystemStr    string
	scoringStr      string
	comparisonStr   string
	maxAnalysisTime float64
	minFreeMemory   uint64
	earlyStop       bool
	Workers         int
	skipLabel       string
)

// Settings are the parser options that may be given in a YAML file with
// -conf. Flags set on the command line take precedence.
type Settings struct {
	Beam            int     `yaml:"beam"`
	System          string  `yaml:"system"`
	MaxAnalysisTime float64 `yaml:"maxAnalysisTime"`
	MinFreeMemory   uint64  `yaml:"minFreeMemory"`
	EarlyStop       bool    `yaml:"earlyStop"`
	Scoring         string  `yaml:"scoring"`
	Comparison      string  `yaml:"comparison"`
	Labels          string  `yaml:"labels"`
	Rules           string  `yaml:"rules"`
	Model           string  `yaml:"model"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Beam:       64,
		System:     "eager",
		Scoring:    "geometric",
		Comparison: "buffer",
	}
}

// MaxAnalysisDuration converts the seconds setting; zero means unlimited.
func (s *Settings) MaxAnalysisDuration() time.Duration {
	return time.Duration(s.MaxAnalysisTime * float64(time.Second))
}

func LoadSettings(data []byte) (*Settings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrap(err, "parsing settings")
	}
	return settings, nil
}

func LoadSettingsFile(filename string) (*Settings, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading settings")
	}
	settings, err := LoadSettings(data)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", filename)
	}
	return settings, nil
}

func addParserFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&confFile, "conf", "", "Optional - Parser Settings File (yaml)")
	cmd.Flag.StringVar(&labelsFile, "l", "", "Dependency Labels Configuration File")
	cmd.Flag.StringVar(&rulesFile, "r", "", "Optional - Parser Rules File (yaml)")
	cmd.Flag.StringVar(&modelFile, "m", "", "Optional - Transition Table Model File (yaml); uniform if not set")
	cmd.Flag.IntVar(&BeamSize, "b", 64, "Dependency Beam Size")
	cmd.Flag.StringVar(&arcSystemStr, "a", "eager", "Optional - Arc System [standard, eager]")
	cmd.Flag.StringVar(&scoringStr, "scoring", "geometric", "Optional - Scoring [geometric, product]")
	cmd.Flag.StringVar(&comparisonStr, "comparison", "buffer", "Optional - Progress Index [buffer, transitions]")
	cmd.Flag.Float64Var(&maxAnalysisTime, "maxtime", 0, "Optional - Max seconds per sentence; 0 = unlimited")
	cmd.Flag.Uint64Var(&minFreeMemory, "minmem", 0, "Optional - Min free memory (KB) to continue a search; 0 = unlimited")
	cmd.Flag.BoolVar(&earlyStop, "earlystop", false, "Stop once the terminal agenda holds a full beam of parses")
	cmd.Flag.IntVar(&Workers, "workers", 0, "Sentences parsed concurrently; 0 = number of CPUs")
}

// ResolveSettings loads the -conf file, if any, and applies the flags that
// were set on the command line over it.
func ResolveSettings(cmd *commander.Command) (*Settings, error) {
	settings := DefaultSettings()
	if len(confFile) > 0 {
		var err error
		if settings, err = LoadSettingsFile(confFile); err != nil {
			return nil, err
		}
	}
	cmd.Flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "l":
			settings.Labels = labelsFile
		case "r":
			settings.Rules = rulesFile
		case "m":
			settings.Model = modelFile
		case "b":
			settings.Beam = BeamSize
		case "a":
			settings.System = arcSystemStr
		case "scoring":
			settings.Scoring = scoringStr
		case "comparison":
			settings.Comparison = comparisonStr
		case "maxtime":
			settings.MaxAnalysisTime = maxAnalysisTime
		case "minmem":
			settings.MinFreeMemory = minFreeMemory
		case "earlystop":
			settings.EarlyStop = earlyStop
		}
	})
	if len(settings.Labels) == 0 {
		return nil, errors.New("no dependency labels file, set -l or labels in -conf")
	}
	return settings, nil
}

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		glog.Errorln("Error accessing file", filename)
		glog.Errorln(err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, name := range required {
		f := cmd.Flag.Lookup(name)
		if f.Value.String() == "" {
			cmd.Usage()
			return errors.Errorf("required flag -%s not set", f.Name)
		}
	}
	return nil
}

func fileOut(name, filename string) {
	if len(filename) == 0 {
		glog.Infof("%s\tnone", name)
		return
	}
	sum, err := util.MD5File(filename)
	if err != nil {
		glog.Infof("%s\t%s", name, filename)
		return
	}
	glog.Infof("%s\t%s (md5 %s)", name, filename, sum)
}

func ParserConfigOut(settings *Settings) {
	glog.Info("Configuration")
	glog.Infof("Beam Size:\t\t%d", settings.Beam)
	glog.Infof("Transition System:\t%s", settings.System)
	glog.Infof("Scoring:\t\t%s", settings.Scoring)
	glog.Infof("Comparison:\t\t%s", settings.Comparison)
	glog.Infof("Early Stop:\t\t%v", settings.EarlyStop)
	glog.Infof("Max Analysis Time:\t%v", settings.MaxAnalysisDuration())
	glog.Infof("Min Free Memory:\t%d KB", settings.MinFreeMemory)
	fileOut("Labels File:\t", settings.Labels)
	fileOut("Rules File:\t", settings.Rules)
	fileOut("Model File:\t", settings.Model)
}

func verifyFiles(settings *Settings, files ...string) error {
	for _, filename := range append([]string{settings.Labels, settings.Rules, settings.Model}, files...) {
		if len(filename) > 0 && !VerifyExists(filename) {
			return errors.Errorf("missing file %s", filename)
		}
	}
	return nil
}
