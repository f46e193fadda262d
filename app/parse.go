package app

import (
	"context"

	"depbeam/nlp/format/conll"
	nlp "depbeam/nlp/types"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func readTagged(filename string) (conll.Sentences, []nlp.TaggedSentence, error) {
	sents, err := conll.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	tagged := make([]nlp.TaggedSentence, len(sents))
	for i, sent := range sents {
		tagged[i] = sent.TaggedSentence()
	}
	glog.Infof("Read %d sentences from %s", len(sents), filename)
	return sents, tagged, nil
}

func ParseRun(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"in", "oc"}); err != nil {
		return err
	}
	settings, err := ResolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := verifyFiles(settings, input); err != nil {
		return err
	}
	ParserConfigOut(settings)
	glog.Infof("Input file (conll):\t%s", input)
	glog.Infof("Out (conll) file:\t%s", outConll)

	session, err := NewSession(settings)
	if err != nil {
		return err
	}
	glog.Infof("Started %v", session)
	beam, err := NewBeam(settings, session)
	if err != nil {
		return err
	}
	sents, tagged, err := readTagged(input)
	if err != nil {
		return err
	}
	results, err := Parse(context.Background(), tagged, SharedBeam(beam), Workers)
	if err != nil {
		return err
	}
	graphs := make([]nlp.DependencyGraph, len(results))
	for i, result := range results {
		graphs[i] = result.Configurations[0].Graph()
	}
	if err := conll.WriteFile(outConll, conll.Graph2ConllCorpus(graphs, sents)); err != nil {
		return err
	}
	glog.Infof("[%s] Wrote %d parsed sentences to %s", session.ID, len(graphs), outConll)
	return nil
}

func ParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       ParseRun,
		UsageLine: "parse <file options> [arguments]",
		Short:     "runs beam search dependency parsing",
		Long: `
runs beam search dependency parsing of tagged sentences

	$ ./depbeam parse -l <labels> -in <conll> -oc <out conll> [-m <model>] [-r <rules>] [-a eager|standard] [options]

`,
		Flag: *flag.NewFlagSet("parse", flag.ExitOnError),
	}
	addParserFlags(cmd)
	cmd.Flag.StringVar(&input, "in", "", "Input Tagged Sentences (conll) File")
	cmd.Flag.StringVar(&outConll, "oc", "", "Output Conll File")
	return cmd
}
