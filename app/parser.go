package app

import (
	"context"
	"runtime"
	"sync"

	"depbeam/nlp/parser/dependency/oracle"
	"depbeam/nlp/parser/dependency/rules"
	"depbeam/nlp/parser/dependency/transition"
	nlp "depbeam/nlp/types"
	"depbeam/util"
	"depbeam/util/conf"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

func NewSession(settings *Settings) (*nlp.Session, error) {
	relations, err := conf.ReadFile(settings.Labels)
	if err != nil {
		return nil, errors.Wrapf(err, "reading labels %s", settings.Labels)
	}
	if len(relations.Values) == 0 {
		return nil, errors.Errorf("no labels in %s", settings.Labels)
	}
	return nlp.NewSession(settings.System, relations.Values), nil
}

// NewBeam builds the beam parser described by settings: the transition
// system of the session, the table oracle when a model file is set (uniform
// otherwise) and the rules file, if any.
func NewBeam(settings *Settings, session *nlp.Session) (*transition.Beam, error) {
	sys, err := transition.NewSystem(session.System, session.Labels)
	if err != nil {
		return nil, err
	}
	beam := &transition.Beam{
		System:          sys,
		Oracle:          &oracle.Uniform{System: sys},
		Size:            settings.Beam,
		MaxAnalysisTime: settings.MaxAnalysisDuration(),
		MinFreeMemory:   settings.MinFreeMemory,
		EarlyStop:       settings.EarlyStop,
	}
	if beam.Scoring, err = transition.NewScoringStrategy(settings.Scoring); err != nil {
		return nil, err
	}
	if beam.Comparison, err = transition.NewComparisonStrategy(settings.Comparison); err != nil {
		return nil, err
	}
	if len(settings.Model) > 0 {
		model, err := oracle.LoadTableConfFile(settings.Model)
		if err != nil {
			return nil, err
		}
		if beam.Oracle, err = oracle.NewTable(sys, model); err != nil {
			return nil, errors.Wrapf(err, "in %s", settings.Model)
		}
	}
	if len(settings.Rules) > 0 {
		if beam.Rules, err = rules.Load(settings.Rules, sys); err != nil {
			return nil, err
		}
		glog.Infof("[%s] Loaded %d rules", session.ID, beam.Rules.Len())
	}
	return beam, beam.Validate()
}

// BeamFunc returns the parser for the i'th sentence of a corpus.
type BeamFunc func(i int) (*transition.Beam, error)

func SharedBeam(beam *transition.Beam) BeamFunc {
	return func(int) (*transition.Beam, error) {
		return beam, nil
	}
}

// Parse parses sents with at most workers concurrent searches and returns
// the results in corpus order. The first error cancels the sentences not yet
// started.
func Parse(ctx context.Context, sents []nlp.TaggedSentence, beamFor BeamFunc, workers int) ([]*transition.ParseResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = util.Min(workers, len(sents))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		jobs     = make(chan int)
		results  = make([]*transition.ParseResult, len(sents))
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				beam, err := beamFor(i)
				if err != nil {
					fail(errors.Wrapf(err, "sentence %d", i+1))
					continue
				}
				result, err := beam.Search(ctx, []nlp.TaggedSentence{sents[i]})
				if err != nil {
					fail(errors.Wrapf(err, "sentence %d", i+1))
					continue
				}
				if result.Backup {
					glog.Warningf("Sentence %d: no terminal parse (%v), using backup", i+1, result.Stop)
				}
				results[i] = result
			}
		}()
	}
	for i := range sents {
		if ctx.Err() != nil {
			break
		}
		if glog.V(1) && i%100 == 0 {
			glog.Infof("Parsing sentence %d of %d", i+1, len(sents))
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
