package app

import (
	"context"
	"io"
	"os"

	"depbeam/eval"
	"depbeam/nlp/format/conll"
	nlp "depbeam/nlp/types"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
)

func createOut(filename string) (*os.File, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrap(err, "creating output")
	}
	return file, nil
}

// EvalRun parses the sentences of a gold corpus and scores the best parses
// against the gold trees.
func EvalRun(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"g"}); err != nil {
		return err
	}
	settings, err := ResolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := verifyFiles(settings, inputGold); err != nil {
		return err
	}
	ParserConfigOut(settings)
	glog.Infof("Gold file (conll):\t%s", inputGold)

	session, err := NewSession(settings)
	if err != nil {
		return err
	}
	glog.Infof("Started %v", session)
	beam, err := NewBeam(settings, session)
	if err != nil {
		return err
	}
	sents, tagged, err := readTagged(inputGold)
	if err != nil {
		return err
	}
	golds, err := conll.Conll2GraphCorpus(sents)
	if err != nil {
		return err
	}

	attachment := &eval.AttachmentObserver{SkipLabel: nlp.DepRel(skipLabel)}
	observers := []eval.Observer{attachment}
	for _, out := range []struct {
		filename string
		observer func(io.Writer) eval.Observer
	}{
		{distanceOut, func(w io.Writer) eval.Observer {
			o := eval.NewDistanceObserver(w, true)
			o.SkipLabel = nlp.DepRel(skipLabel)
			return o
		}},
		{timeOut, func(w io.Writer) eval.Observer { return eval.NewTimeByLengthObserver(w) }},
	} {
		if len(out.filename) == 0 {
			continue
		}
		file, err := createOut(out.filename)
		if err != nil {
			return err
		}
		defer file.Close()
		observers = append(observers, out.observer(file))
	}

	results, err := Parse(context.Background(), tagged, SharedBeam(beam), Workers)
	if err != nil {
		return err
	}
	for i, result := range results {
		for _, o := range observers {
			o.OnParseEnd(golds[i], result)
		}
	}
	for _, o := range observers {
		if err := o.OnEvaluationComplete(); err != nil {
			return err
		}
	}
	return nil
}

func EvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       EvalRun,
		UsageLine: "eval <file options> [arguments]",
		Short:     "parses a gold corpus and reports attachment scores",
		Long: `
parses the sentences of a gold corpus and reports attachment scores

	$ ./depbeam eval -l <labels> -g <conll> [-dist <csv>] [-time <csv>] [options]

`,
		Flag: *flag.NewFlagSet("eval", flag.ExitOnError),
	}
	addParserFlags(cmd)
	cmd.Flag.StringVar(&inputGold, "g", "", "Gold Conll File")
	cmd.Flag.StringVar(&distanceOut, "dist", "", "Optional - Accuracy by Head Distance Output (csv)")
	cmd.Flag.StringVar(&timeOut, "time", "", "Optional - Parse Time by Sentence Length Output (csv)")
	cmd.Flag.StringVar(&skipLabel, "skip", "", "Optional - Label not scored (e.g. punct)")
	return cmd
}
