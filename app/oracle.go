package app

import (
	"context"

	"depbeam/eval"
	"depbeam/nlp/format/conll"
	"depbeam/nlp/parser/dependency/oracle"
	"depbeam/nlp/parser/dependency/transition"
	nlp "depbeam/nlp/types"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

// GoldBeams gives every sentence a copy of beam driven by the static oracle
// of its gold tree.
func GoldBeams(beam *transition.Beam, golds []*nlp.BasicDepGraph) BeamFunc {
	return func(i int) (*transition.Beam, error) {
		gold, err := oracle.NewGold(beam.System, golds[i])
		if err != nil {
			return nil, err
		}
		sentBeam := *beam
		sentBeam.Oracle = gold
		return &sentBeam, nil
	}
}

// OracleRun replays the static oracle over a gold corpus and reports the
// sentences whose trees it does not reproduce, which are the non-projective
// ones.
func OracleRun(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"g"}); err != nil {
		return err
	}
	settings, err := ResolveSettings(cmd)
	if err != nil {
		return err
	}
	settings.Model = ""
	if err := verifyFiles(settings, inputGold); err != nil {
		return err
	}
	ParserConfigOut(settings)

	session, err := NewSession(settings)
	if err != nil {
		return err
	}
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
	results, err := Parse(context.Background(), tagged, GoldBeams(beam, golds), Workers)
	if err != nil {
		return err
	}
	var total eval.Total
	for i, result := range results {
		r := eval.Attachment(golds[i], result.Configurations[0], true, "")
		total.Add(r)
		if len(r.Errors) > 0 {
			glog.Warningf("Sentence %d: oracle parse differs from gold in %d tokens", i+1, len(r.Errors))
			if glog.V(1) {
				for _, e := range r.Errors {
					glog.Infof("\t%s %s", e.Class(), e.String())
				}
			}
		}
	}
	glog.Infof("[%s] Oracle reproduced %d of %d sentences (LAS %.2f)", session.ID, total.Exact, total.Population, total.Recall()*100)
	return nil
}

func OracleCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       OracleRun,
		UsageLine: "oracle <file options> [arguments]",
		Short:     "checks that the static oracle reproduces a gold corpus",
		Long: `
parses a gold corpus following the static oracle of each gold tree and
reports the sentences it cannot reproduce

	$ ./depbeam oracle -l <labels> -g <conll> [-a eager|standard] [-r <rules>]

`,
		Flag: *flag.NewFlagSet("oracle", flag.ExitOnError),
	}
	addParserFlags(cmd)
	cmd.Flag.StringVar(&inputGold, "g", "", "Gold Conll File")
	return cmd
}
